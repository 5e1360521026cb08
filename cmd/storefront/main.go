/**
 * @description
 * This is the main entry point for the storefront.
 * It initializes and wires together all the components of the application,
 * including configuration, the local key-value store, the ledger client,
 * the adapter, the observable stores, the cron scheduler, and the HTTP
 * router. Finally, it starts the HTTP server to listen for incoming
 * requests.
 */
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dairydirect/storefront/internal/adapter"
	"github.com/dairydirect/storefront/internal/api"
	"github.com/dairydirect/storefront/internal/app"
	"github.com/dairydirect/storefront/internal/config"
	"github.com/dairydirect/storefront/internal/kv"
	"github.com/dairydirect/storefront/internal/notify"
	"github.com/dairydirect/storefront/internal/store"
	"github.com/dairydirect/storefront/pkg/ledgerclient"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load application configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Set up channel to listen for OS signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Select the local key-value backend
	var local kv.Store
	switch cfg.KVBackend {
	case "file":
		fileStore, err := kv.NewFile(cfg.KVFileDir)
		if err != nil {
			logger.Error("unable to open file store", "dir", cfg.KVFileDir, "error", err)
			os.Exit(1)
		}
		local = fileStore
	case "redis":
		redisStore, err := kv.NewRedis(cfg.RedisURL, cfg.RedisKeyPrefix)
		if err != nil {
			logger.Error("unable to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		local = redisStore
	default:
		local = kv.NewMemory()
	}
	logger.Info("local store ready", "backend", cfg.KVBackend)

	// Compose the toast sinks: always log, and publish to RabbitMQ when a
	// broker is configured.
	notifier := notify.Multi{notify.Log{Logger: logger}}
	if cfg.RabbitMQURL != "" {
		amqpSink, err := notify.NewAMQP(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Error("unable to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer amqpSink.Close()
		notifier = append(notifier, amqpSink)
		logger.Info("toast events will be published to rabbitmq")
	}

	// Initialize application layers
	ledger := ledgerclient.NewClient(cfg.LedgerServiceURL, cfg.LedgerAPIKey)
	a := adapter.New(ledger, notifier, local, logger)

	cart := store.NewCartStore(ctx, local, logger)
	users := store.NewUserStore(a, local, logger)
	users.Initialize(ctx)
	subscriptions := store.NewSubscriptionStore(a, local, logger)
	if state := users.State(); state.LoggedIn && state.Profile != nil {
		if err := subscriptions.Load(ctx, state.Profile.PhoneNumber, false); err != nil {
			logger.Warn("initial subscription load failed", "error", err)
		}
	}

	// Start the cron scheduler in the background
	jobs := app.NewJobs(users, subscriptions, a, logger)
	scheduler := app.NewScheduler(jobs, logger, cfg)
	scheduler.Start()

	// Admin routes are only exposed against a development deployment.
	mountAdmin := a.IsDev(ctx)
	if mountAdmin {
		logger.Info("development deployment detected, mounting admin routes")
	}

	handler := api.NewHandler(a, cart, users, subscriptions)
	router := api.NewRouter(handler, api.NewAdminHandler(a), mountAdmin)

	// Configure and start the HTTP server
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "addr", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for an OS signal
	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	// Create a context with a timeout for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Attempt to gracefully shut down the server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	// Stop the scheduler and wait for running jobs to finish
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	logger.Info("server stopped")
}
