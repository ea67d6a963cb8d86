package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"feira/internal/core"
	"feira/internal/export"
	"feira/internal/favorites"
	"feira/internal/kv"
	"feira/internal/ledger"
)

type captureSink struct {
	content  string
	filename string
	err      error
	calls    int
}

func (c *captureSink) SaveAndShare(_ context.Context, content, filename string) error {
	c.calls++
	c.content = content
	c.filename = filename
	return c.err
}

func newTestService(sink export.Sink) (*SurveyService, *kv.Memory) {
	store := kv.NewMemory()
	l := ledger.NewService(ledger.NewRepository(store))
	t := favorites.NewTracker(store)
	return NewSurveyService(l, t, nil, sink), store
}

func TestRecordCollectionTracksUsage(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(nil)

	c := core.Collection{Product: "Tomate Italiano", Samples: []string{"1,50"}}
	if err := svc.RecordCollection(ctx, c); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := svc.RecordCollection(ctx, c); err != nil {
		t.Fatalf("record: %v", err)
	}

	// Without AMQP the increment happens in-process, once per save.
	raw, ok, _ := store.Get(ctx, "@produtos_frequentes")
	if !ok || raw != `{"Tomate Italiano":2}` {
		t.Fatalf("frequency table: %q ok=%v", raw, ok)
	}

	top, err := svc.Favorites(ctx, 5)
	if err != nil || len(top) != 1 || top[0] != "Tomate Italiano" {
		t.Fatalf("favorites: %v %v", top, err)
	}
}

func TestRecordCollectionRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(nil)
	err := svc.RecordCollection(context.Background(), core.Collection{Product: " "})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestExportToday(t *testing.T) {
	ctx := context.Background()
	sink := &captureSink{}
	svc, _ := newTestService(sink)

	// Empty day: delivery is suppressed.
	if _, err := svc.ExportToday(ctx); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	if sink.calls != 0 {
		t.Fatal("sink must not be called for an empty day")
	}

	svc.RecordCollection(ctx, core.Collection{Product: "Tomate", Samples: []string{"1,50", "2,00"}})

	filename, err := svc.ExportToday(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(filename, "pesquisa_") || !strings.HasSuffix(filename, ".csv") {
		t.Fatalf("unexpected filename %q", filename)
	}
	if !strings.Contains(sink.content, "TOMATE;1,50;2,00;") {
		t.Fatalf("unexpected content: %q", sink.content)
	}
}

func TestExportTodayDeliveryFailure(t *testing.T) {
	ctx := context.Background()
	sink := &captureSink{err: errors.New("disk full")}
	svc, _ := newTestService(sink)

	svc.RecordCollection(ctx, core.Collection{Product: "Tomate", Samples: []string{"1"}})

	if _, err := svc.ExportToday(ctx); err == nil {
		t.Fatal("delivery failure must be reported")
	}
	if sink.calls != 1 {
		t.Fatalf("no retry allowed, sink called %d times", sink.calls)
	}
}

func TestCloseWithoutAMQP(t *testing.T) {
	svc, _ := newTestService(nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
