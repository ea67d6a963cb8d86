package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"feira/internal/amqp"
	"feira/internal/config"
	"feira/internal/export"
	"feira/internal/favorites"
	"feira/internal/ledger"
	applog "feira/internal/log"
	gsheet "feira/internal/sheets/google"
	"feira/internal/storage"
	"feira/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting feira-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	// The worker is queue-driven, so AMQP settings are mandatory here even
	// though the server treats them as optional.
	if err := cfg.RequireAMQP(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker shares the SQLite database with the server.
	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	tracker := favorites.NewTracker(store)
	ledgerSvc := ledger.NewService(ledger.NewRepository(store))

	// Delivery sink is optional; without one the worker only applies usage
	// increments.
	var sink export.Sink
	switch cfg.ExportSink {
	case "sheets":
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sink = client
		logger.Info("Google Sheets delivery enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	default:
		sink = &export.FileSink{Dir: cfg.ExportDir}
		logger.Info("File delivery enabled", "dir", cfg.ExportDir)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	usageWorker := worker.NewUsageWorker(tracker, ledgerSvc, sink)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeUsage(ctx, usageWorker.HandleUsage)
	})
	g.Go(func() error {
		return usageWorker.RunDeliveryLoop(ctx, cfg.DeliveryInterval)
	})

	logger.Info("Worker running",
		"queue", cfg.AMQPQueue,
		"delivery_interval", cfg.DeliveryInterval.String())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
