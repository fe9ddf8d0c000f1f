package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/b2b-portal/api/routes"
	"github.com/angelmondragon/b2b-portal/internal/accounts"
	"github.com/angelmondragon/b2b-portal/internal/auth"
	"github.com/angelmondragon/b2b-portal/internal/checkout"
	"github.com/angelmondragon/b2b-portal/internal/customers"
	"github.com/angelmondragon/b2b-portal/internal/evidence"
	"github.com/angelmondragon/b2b-portal/internal/notifications"
	"github.com/angelmondragon/b2b-portal/internal/orders"
	"github.com/angelmondragon/b2b-portal/pkg/auth/session"
	"github.com/angelmondragon/b2b-portal/pkg/config"
	"github.com/angelmondragon/b2b-portal/pkg/db"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
	"github.com/angelmondragon/b2b-portal/pkg/metrics"
	"github.com/angelmondragon/b2b-portal/pkg/migrate"
	"github.com/angelmondragon/b2b-portal/pkg/redis"
	"github.com/angelmondragon/b2b-portal/pkg/shopify"
	"github.com/angelmondragon/b2b-portal/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "api"})
	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "dev auto-migrate failed", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	shopifyClient, err := shopify.NewClient(ctx, cfg.Shopify, logg)
	requireResource(ctx, logg, "shopify client", err)

	evidenceUploader := evidence.NewUploader(evidenceBackend(ctx, cfg, logg), evidence.Config{
		Bucket:  cfg.GCS.BucketName,
		Folder:  cfg.GCS.EvidenceFolder,
		Salt:    cfg.Checkout.EvidenceSalt,
		Timeout: cfg.Checkout.EvidenceUploadTimeout,
	}, logg)

	notifier := notifications.NewNotifier(mailSender(cfg), notifications.Config{
		APIKey:  cfg.Sendgrid.APIKey,
		From:    cfg.Sendgrid.DefaultFrom,
		To:      cfg.Checkout.NotifyEmail,
		Timeout: cfg.Checkout.NotifyTimeout,
	}, logg)
	if !notifier.Enabled() {
		logg.Warn(ctx, "order notifications disabled: sendgrid or notify email not configured")
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	recorder, err := orders.NewRecorder(orderRepo, cfg.Checkout.RecordTimeout, logg)
	requireResource(ctx, logg, "order recorder", err)

	orderService, err := orders.NewService(orderRepo)
	requireResource(ctx, logg, "orders service", err)

	profileService, err := customers.NewService(customers.NewProfileRepository(dbClient.DB()))
	requireResource(ctx, logg, "customers service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		Accounts:  accounts.NewRepository(dbClient.DB()),
		Customers: shopifyClient,
		Sessions:  sessions,
		JWTConfig: cfg.JWT,
		Logger:    logg,
	})
	requireResource(ctx, logg, "auth service", err)

	checkoutService, err := checkout.NewService(checkout.Deps{
		Profiles:      profileService,
		Evidence:      evidenceUploader,
		Drafts:        shopifyClient,
		Recorder:      recorder,
		Notifier:      notifier,
		Metrics:       checkoutMetrics,
		Logger:        logg,
		SubmitTimeout: cfg.Checkout.ShopifyTimeout,
	})
	requireResource(ctx, logg, "checkout service", err)

	handler := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:       dbClient,
		Redis:    redisClient,
		Sessions: sessions,
		Gatherer: registry,
		Auth:     authService,
		Profiles: profileService,
		Orders:   orderService,
		Checkout: checkoutService,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.App.ReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout(),
		IdleTimeout:       2 * time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, fmt.Sprintf("api listening on %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "server failed", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := server.Shutdown(shutdownCtx)
	errs = multierr.Append(errs, redisClient.Close())
	errs = multierr.Append(errs, dbClient.Close())
	if errs != nil {
		logg.Error(ctx, "shutdown finished with errors", errs)
		os.Exit(1)
	}
	logg.Info(ctx, "api stopped")
}

// evidenceBackend returns nil when storage is disabled so uploads report failure instead of blocking orders.
func evidenceBackend(ctx context.Context, cfg *config.Config, logg *logger.Logger) gcs.Uploader {
	if !cfg.GCS.Enabled() {
		logg.Warn(ctx, "evidence storage disabled: gcs bucket not configured")
		return nil
	}
	client, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.WarnErr(ctx, "evidence storage unavailable", err)
		return nil
	}
	return client
}

func mailSender(cfg *config.Config) notifications.Sender {
	if !cfg.Sendgrid.Configured() {
		return nil
	}
	return notifications.NewSendgridSender(cfg.Sendgrid.APIKey)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
