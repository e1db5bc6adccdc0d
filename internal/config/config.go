package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string

	// SerializeQueueOps switches joining and call-next to run inside a
	// transaction holding the service row lock.
	SerializeQueueOps bool

	SessionTTL time.Duration

	SuperAdminUsername string
	SuperAdminPassword string

	NotifyProvider     string
	NotifyWebhookURL   string
	NotifyWebhookToken string

	RateLimitPerMinute    int
	RateLimitBurst        int
	OrgRateLimitPerMinute int
	OrgRateLimitBurst     int

	OTELEndpoint string
	OTELInsecure bool
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		Port:                  port,
		DatabaseURL:           os.Getenv("DB_DSN"),
		SerializeQueueOps:     readBool("QUEUE_SERIALIZE", false),
		SessionTTL:            readDurationHours("SESSION_TTL_HOURS", 8),
		SuperAdminUsername:    readString("SUPER_ADMIN_USERNAME", "superadmin"),
		SuperAdminPassword:    readString("SUPER_ADMIN_PASSWORD", "admin123"),
		NotifyProvider:        os.Getenv("NOTIFY_PROVIDER"),
		NotifyWebhookURL:      os.Getenv("NOTIFY_WEBHOOK_URL"),
		NotifyWebhookToken:    os.Getenv("NOTIFY_WEBHOOK_TOKEN"),
		RateLimitPerMinute:    readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:        readInt("RATE_LIMIT_BURST", 30),
		OrgRateLimitPerMinute: readInt("ORG_RATE_LIMIT_PER_MIN", 600),
		OrgRateLimitBurst:     readInt("ORG_RATE_LIMIT_BURST", 120),
		OTELEndpoint:          os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTELInsecure:          readBool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}
}

func readString(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func readDurationHours(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Hour
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
