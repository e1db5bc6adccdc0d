package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
)

// Notifier delivers SMS-style confirmations to clients. Delivery is best
// effort; a failed send never fails the queue operation that triggered it.
type Notifier interface {
	Send(ctx context.Context, phone, message string) error
}

type Config struct {
	Provider     string
	WebhookURL   string
	WebhookToken string
}

func New(cfg Config) Notifier {
	switch cfg.Provider {
	case "", "stub", "log":
		return logNotifier{}
	case "noop":
		return noopNotifier{}
	case "fail":
		return failNotifier{}
	case "webhook":
		if cfg.WebhookURL == "" {
			return logNotifier{}
		}
		return webhookNotifier{url: cfg.WebhookURL, token: cfg.WebhookToken}
	default:
		if strings.HasPrefix(cfg.Provider, "http://") || strings.HasPrefix(cfg.Provider, "https://") {
			return webhookNotifier{url: cfg.Provider, token: cfg.WebhookToken}
		}
		return logNotifier{}
	}
}

type logNotifier struct{}

func (logNotifier) Send(ctx context.Context, phone, message string) error {
	log.Printf("send sms to %s: %s", phone, message)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, phone, message string) error {
	return nil
}

type failNotifier struct{}

func (failNotifier) Send(ctx context.Context, phone, message string) error {
	return errors.New("provider failure")
}

type webhookNotifier struct {
	url   string
	token string
}

func (p webhookNotifier) Send(ctx context.Context, phone, message string) error {
	payload := map[string]string{
		"recipient": phone,
		"message":   message,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return errors.New("provider rejected request")
	}
	return nil
}
