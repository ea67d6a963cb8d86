// Command feira-export builds today's CSV once and delivers it, meant for
// cron or manual runs outside the server's periodic delivery.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"feira/internal/config"
	"feira/internal/export"
	"feira/internal/favorites"
	"feira/internal/ledger"
	applog "feira/internal/log"
	"feira/internal/services"
	gsheet "feira/internal/sheets/google"
	"feira/internal/storage"
)

func main() {
	_ = godotenv.Load()

	stdout := flag.Bool("stdout", false, "print the CSV instead of delivering it")
	flag.Parse()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		Component: applog.ComponentExport,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	var sink export.Sink
	if cfg.ExportSink == "sheets" {
		client, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sink = client
	} else {
		sink = &export.FileSink{Dir: cfg.ExportDir}
	}

	svc := services.NewSurveyService(
		ledger.NewService(ledger.NewRepository(store)),
		favorites.NewTracker(store),
		nil,
		sink,
	)

	if *stdout {
		content, err := svc.BuildTodayCSV(ctx)
		if err != nil {
			if errors.Is(err, services.ErrNothingToExport) {
				logger.Info("Nothing to export today")
				return
			}
			logger.Error("Failed to build CSV", "error", err)
			os.Exit(1)
		}
		fmt.Print(content)
		return
	}

	filename, err := svc.ExportToday(ctx)
	if err != nil {
		if errors.Is(err, services.ErrNothingToExport) {
			logger.Info("Nothing to export today")
			return
		}
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Export delivered", "filename", filename)
}
