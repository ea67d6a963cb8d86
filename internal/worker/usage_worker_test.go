package worker

import (
	"context"
	"strings"
	"testing"

	"feira/internal/amqp"
	"feira/internal/core"
	"feira/internal/export"
	"feira/internal/favorites"
	"feira/internal/kv"
	"feira/internal/ledger"
)

type captureSink struct {
	content string
	calls   int
}

func (c *captureSink) SaveAndShare(_ context.Context, content, _ string) error {
	c.calls++
	c.content = content
	return nil
}

func newTestWorker(sink export.Sink) (*UsageWorker, *ledger.Service, *kv.Memory) {
	store := kv.NewMemory()
	l := ledger.NewService(ledger.NewRepository(store))
	w := NewUsageWorker(favorites.NewTracker(store), l, sink)
	return w, l, store
}

func TestHandleUsage(t *testing.T) {
	ctx := context.Background()
	w, _, store := newTestWorker(nil)

	msg := amqp.NewUsageMessage("Tomate", "2025-06-01", 2)
	if err := w.HandleUsage(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if err := w.HandleUsage(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	raw, _, _ := store.Get(ctx, "@produtos_frequentes")
	if raw != `{"Tomate":2}` {
		t.Fatalf("frequency table: %s", raw)
	}
}

func TestHandleUsageDropsEmptyProduct(t *testing.T) {
	w, _, store := newTestWorker(nil)
	if err := w.HandleUsage(context.Background(), &amqp.UsageMessage{Date: "2025-06-01"}); err != nil {
		t.Fatalf("empty product must be dropped, not requeued: %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), "@produtos_frequentes"); ok {
		t.Fatal("no table should have been written")
	}
}

func TestDeliverDaily(t *testing.T) {
	ctx := context.Background()
	sink := &captureSink{}
	w, l, _ := newTestWorker(sink)

	// Empty ledger: nothing delivered.
	if err := w.DeliverDaily(ctx); err != nil {
		t.Fatalf("deliver empty: %v", err)
	}
	if sink.calls != 0 {
		t.Fatal("empty day must not be delivered")
	}

	l.RecordCollection(ctx, core.Collection{Product: "Tomate", Samples: []string{"1,50"}})
	if err := w.DeliverDaily(ctx); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if sink.calls != 1 || !strings.Contains(sink.content, "TOMATE;1,50;") {
		t.Fatalf("unexpected delivery: calls=%d content=%q", sink.calls, sink.content)
	}
}

func TestDeliverDailyWithoutSink(t *testing.T) {
	w, _, _ := newTestWorker(nil)
	if err := w.DeliverDaily(context.Background()); err != nil {
		t.Fatalf("nil sink must be a no-op: %v", err)
	}
}
