// Package worker applies usage increments from the queue and ships the
// daily export on a schedule.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"feira/internal/amqp"
	"feira/internal/export"
	"feira/internal/favorites"
	"feira/internal/ledger"
)

// UsageWorker consumes usage messages and, when a delivery sink is
// configured, exports today's ledger periodically. The queue serializes
// increments, so two servers publishing at once cannot clobber the
// frequency table.
type UsageWorker struct {
	tracker *favorites.Tracker
	ledger  *ledger.Service
	sink    export.Sink
}

func NewUsageWorker(tracker *favorites.Tracker, ledgerSvc *ledger.Service, sink export.Sink) *UsageWorker {
	return &UsageWorker{
		tracker: tracker,
		ledger:  ledgerSvc,
		sink:    sink,
	}
}

// HandleUsage processes a single usage message from the queue.
func (w *UsageWorker) HandleUsage(ctx context.Context, msg *amqp.UsageMessage) error {
	if msg.Product == "" {
		slog.WarnContext(ctx, "Dropping usage message without product", "date", msg.Date)
		return nil
	}

	if err := w.tracker.RecordUsage(ctx, msg.Product); err != nil {
		return fmt.Errorf("record usage: %w", err)
	}

	slog.InfoContext(ctx, "Usage recorded",
		"product", msg.Product,
		"date", msg.Date,
		"samples", msg.Samples)
	return nil
}

// DeliverDaily exports today's ledger to the sink. An empty day is skipped
// silently; delivery failures are returned without retry.
func (w *UsageWorker) DeliverDaily(ctx context.Context) error {
	if w.sink == nil {
		return nil
	}

	records, err := w.ledger.TodayRecords(ctx)
	if err != nil {
		return fmt.Errorf("load today's records: %w", err)
	}
	content := export.BuildCSV(records)
	if content == "" {
		slog.DebugContext(ctx, "Nothing to deliver, ledger empty today")
		return nil
	}

	filename := export.Filename(time.Now())
	if err := w.sink.SaveAndShare(ctx, content, filename); err != nil {
		return fmt.Errorf("deliver daily export: %w", err)
	}

	slog.InfoContext(ctx, "Daily export delivered",
		"filename", filename,
		"records", len(records))
	return nil
}

// RunDeliveryLoop delivers on every tick until the context is cancelled.
func (w *UsageWorker) RunDeliveryLoop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.DeliverDaily(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.ErrorContext(ctx, "Periodic delivery failed", "error", err)
			}
		}
	}
}
