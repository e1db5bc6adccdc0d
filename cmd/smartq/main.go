package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Christian-Regnante/second-smartq/internal/config"
	"github.com/Christian-Regnante/second-smartq/internal/httpapi"
	"github.com/Christian-Regnante/second-smartq/internal/notify"
	"github.com/Christian-Regnante/second-smartq/internal/store/postgres"
	"github.com/Christian-Regnante/second-smartq/internal/telemetry"
)

func main() {
	cfg := config.Load()

	shutdownTracing := telemetry.Setup("smartq", cfg.OTELEndpoint, cfg.OTELInsecure)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	st := postgres.NewStore(pool, postgres.Options{
		SerializeQueueOps: cfg.SerializeQueueOps,
		SessionTTL:        cfg.SessionTTL,
	})

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.EnsureSuperAdmin(seedCtx, cfg.SuperAdminUsername, cfg.SuperAdminPassword); err != nil {
		log.Fatalf("seed super admin: %v", err)
	}
	cancelSeed()

	notifier := notify.New(notify.Config{
		Provider:     cfg.NotifyProvider,
		WebhookURL:   cfg.NotifyWebhookURL,
		WebhookToken: cfg.NotifyWebhookToken,
	})

	handler := httpapi.NewHandler(httpapi.Stores{
		Queue:      st,
		Directory:  st,
		Admin:      st,
		SuperAdmin: st,
		Identity:   st,
	}, notifier)
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:  cfg.RateLimitPerMinute,
		IPBurst:      cfg.RateLimitBurst,
		OrgPerMinute: cfg.OrgRateLimitPerMinute,
		OrgBurst:     cfg.OrgRateLimitBurst,
	})

	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(handler.Routes())), "smartq")

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("smartq listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
