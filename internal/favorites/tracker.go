// Package favorites maintains the product usage frequency table and the
// ranked favorites list derived from it.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"feira/internal/kv"
)

// tableKey matches the historical storage layout of the frequency table.
const tableKey = "@produtos_frequentes"

// DefaultLimit is how many favorites are returned when no limit is given.
const DefaultLimit = 5

// Tracker counts successful saves per product name. Counts only grow; the
// table is rewritten wholesale on every increment, so increments must not
// interleave (one tracker per store, internal mutex).
type Tracker struct {
	mu    sync.Mutex
	store kv.Store
}

func NewTracker(store kv.Store) *Tracker {
	return &Tracker{store: store}
}

// RecordUsage increments the product's counter, initializing it to 1 on
// first sight, and persists the whole table.
func (t *Tracker) RecordUsage(ctx context.Context, product string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	table, err := t.load(ctx)
	if err != nil {
		return err
	}
	table[product]++

	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode frequency table: %w", err)
	}
	if err := t.store.Set(ctx, tableKey, string(raw)); err != nil {
		return fmt.Errorf("save frequency table: %w", err)
	}

	slog.DebugContext(ctx, "Product usage recorded", "product", product, "count", table[product])
	return nil
}

// Top returns at most limit product names ordered by descending usage
// count. Ties break on ascending name so the ranking is deterministic.
func (t *Tracker) Top(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	table, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if table[names[i]] != table[names[j]] {
			return table[names[i]] > table[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

// load reads the table, treating absent and corrupt values as empty.
func (t *Tracker) load(ctx context.Context) (map[string]int, error) {
	raw, ok, err := t.store.Get(ctx, tableKey)
	if err != nil {
		return nil, fmt.Errorf("load frequency table: %w", err)
	}
	table := make(map[string]int)
	if !ok {
		return table, nil
	}
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		slog.WarnContext(ctx, "Discarding corrupt frequency table", "error", err)
		return make(map[string]int), nil
	}
	return table, nil
}
