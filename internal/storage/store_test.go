package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "feira.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreAbsentKey(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Get(context.Background(), "@pesquisa_2025-06-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected absent key")
	}
}

func TestSQLiteStoreSetGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "@produtos_frequentes", `{"Tomate":3}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := store.Get(ctx, "@produtos_frequentes")
	if err != nil || !ok {
		t.Fatalf("get: %v ok=%v", err, ok)
	}
	if v != `{"Tomate":3}` {
		t.Fatalf("got %q", v)
	}

	// Upsert replaces the previous value.
	if err := store.Set(ctx, "@produtos_frequentes", `{"Tomate":4}`); err != nil {
		t.Fatalf("second set: %v", err)
	}
	v, _, _ = store.Get(ctx, "@produtos_frequentes")
	if v != `{"Tomate":4}` {
		t.Fatalf("after upsert got %q", v)
	}
}
