package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"feira/internal/amqp"
	"feira/internal/backend"
	"feira/internal/catalog"
	"feira/internal/config"
	"feira/internal/export"
	"feira/internal/favorites"
	apphttp "feira/internal/http"
	"feira/internal/ledger"
	applog "feira/internal/log"
	"feira/internal/services"
	gsheet "feira/internal/sheets/google"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateStore(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize store backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	ledgerSvc := ledger.NewService(ledger.NewRepository(result.Store))
	tracker := favorites.NewTracker(result.Store)

	sink, err := buildSink(cfg)
	if err != nil {
		logger.Error("Failed to initialize export sink", "error", err, "sink", cfg.ExportSink)
		os.Exit(1)
	}

	// AMQP is optional; without it usage increments happen in-process.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled, tracking usage in-process")
	}

	svc := services.NewSurveyService(ledgerSvc, tracker, amqpClient, sink)
	defer svc.Close()

	cat := catalog.LoadFromFile(cfg.CatalogPath)

	srv := apphttp.NewServer(":"+cfg.Port, svc, cat, cfg.FavoritesLimit)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting feira server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"sink", cfg.ExportSink)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func buildSink(cfg *config.Config) (export.Sink, error) {
	if cfg.ExportSink == "sheets" {
		return gsheet.NewFromEnv(context.Background())
	}
	return &export.FileSink{Dir: cfg.ExportDir}, nil
}
