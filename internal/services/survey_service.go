// Package services orchestrates the survey flow: ledger persistence first,
// then usage tracking and export delivery.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"feira/internal/amqp"
	"feira/internal/core"
	"feira/internal/export"
	"feira/internal/favorites"
	"feira/internal/ledger"
)

// ErrNothingToExport is returned when today's ledger is empty; delivery is
// suppressed rather than sending an empty file.
var ErrNothingToExport = errors.New("nothing to export")

// SurveyService ties the daily ledger, the favorites tracker and the export
// sink together. The ledger save always comes first; usage tracking rides
// behind it and never fails a successful save.
type SurveyService struct {
	ledger     *ledger.Service
	tracker    *favorites.Tracker
	amqpClient *amqp.Client
	sink       export.Sink
}

func NewSurveyService(l *ledger.Service, t *favorites.Tracker, amqpClient *amqp.Client, sink export.Sink) *SurveyService {
	return &SurveyService{
		ledger:     l,
		tracker:    t,
		amqpClient: amqpClient,
		sink:       sink,
	}
}

// RecordCollection persists the collection, then accounts one usage of the
// product. With AMQP configured the increment is applied asynchronously by
// the worker; otherwise it happens in-process. Either way a tracking
// failure is logged, not returned: the samples are already safe.
func (s *SurveyService) RecordCollection(ctx context.Context, c core.Collection) error {
	if err := s.ledger.RecordCollection(ctx, c); err != nil {
		return fmt.Errorf("save collection: %w", err)
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishUsage(ctx, c.Product, core.TodayKey(), len(c.Samples)); err == nil {
			return nil
		} else {
			slog.ErrorContext(ctx, "Failed to publish usage message, incrementing locally",
				"product", c.Product, "error", err)
		}
	}

	if err := s.tracker.RecordUsage(ctx, c.Product); err != nil {
		slog.ErrorContext(ctx, "Failed to record product usage",
			"product", c.Product, "error", err)
	}
	return nil
}

// TodayRecords returns today's ledger entry in collection order.
func (s *SurveyService) TodayRecords(ctx context.Context) ([]core.ProductRecord, error) {
	return s.ledger.TodayRecords(ctx)
}

// UpdatePrices replaces the price sequence of today's record for product.
func (s *SurveyService) UpdatePrices(ctx context.Context, product string, prices []core.Money) error {
	return s.ledger.UpdatePrices(ctx, product, prices)
}

// Favorites returns the top products by historical usage.
func (s *SurveyService) Favorites(ctx context.Context, limit int) ([]string, error) {
	return s.tracker.Top(ctx, limit)
}

// BuildTodayCSV serializes today's records without delivering them. An
// empty day yields ErrNothingToExport.
func (s *SurveyService) BuildTodayCSV(ctx context.Context) (string, error) {
	records, err := s.ledger.TodayRecords(ctx)
	if err != nil {
		return "", fmt.Errorf("load today's records: %w", err)
	}
	content := export.BuildCSV(records)
	if content == "" {
		return "", ErrNothingToExport
	}
	return content, nil
}

// ExportToday builds today's CSV and hands it to the configured sink.
// Returns the delivered filename. No retry on delivery failure.
func (s *SurveyService) ExportToday(ctx context.Context) (string, error) {
	if s.sink == nil {
		return "", errors.New("no export sink configured")
	}

	content, err := s.BuildTodayCSV(ctx)
	if err != nil {
		return "", err
	}

	filename := export.Filename(time.Now())
	if err := s.sink.SaveAndShare(ctx, content, filename); err != nil {
		return "", fmt.Errorf("deliver export: %w", err)
	}

	slog.InfoContext(ctx, "Export delivered", "filename", filename)
	return filename, nil
}

// Close releases the AMQP connection, if any.
func (s *SurveyService) Close() error {
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			return fmt.Errorf("close amqp: %w", err)
		}
	}
	return nil
}
