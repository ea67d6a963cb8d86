// Package ledger implements the daily ledger: per-day, per-product price
// records persisted under date-partitioned keys in a key-value store.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"feira/internal/core"
	"feira/internal/kv"
)

// keyPrefix matches the historical storage layout of the survey data.
const keyPrefix = "@pesquisa_"

// ErrCorruptEntry marks a stored day entry that failed to parse. Callers
// treat it as an empty day (fail-open) but can still tell it apart from a
// plain absent key.
var ErrCorruptEntry = errors.New("corrupt ledger entry")

// wireRecord is the stored JSON shape of one product record. Prices are
// persisted as decimal unit values with two digits of precision.
type wireRecord struct {
	Produto string    `json:"produto"`
	Precos  []float64 `json:"precos"`
}

// Repository reads and writes whole day entries. It hides the key naming
// convention and the wire encoding; the backing store is swappable.
type Repository struct {
	store kv.Store
}

func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

// Key returns the storage key for a date. Exposed for diagnostics.
func Key(date string) string {
	return keyPrefix + date
}

// Load returns the day's records, or an empty slice when the key is absent.
// A present but unparseable value yields ErrCorruptEntry.
func (r *Repository) Load(ctx context.Context, date string) ([]core.ProductRecord, error) {
	raw, ok, err := r.store.Get(ctx, Key(date))
	if err != nil {
		return nil, fmt.Errorf("load ledger %s: %w", date, err)
	}
	if !ok {
		return nil, nil
	}

	var wire []wireRecord
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("%w: date %s: %v", ErrCorruptEntry, date, err)
	}

	records := make([]core.ProductRecord, len(wire))
	for i, w := range wire {
		prices := make([]core.Money, len(w.Precos))
		for j, p := range w.Precos {
			prices[j] = core.MoneyFromUnits(p)
		}
		records[i] = core.ProductRecord{Product: w.Produto, Prices: prices}
	}
	return records, nil
}

// Save rewrites the day's full record list. Partial updates are not
// supported; callers must serialize writes per date key.
func (r *Repository) Save(ctx context.Context, date string, records []core.ProductRecord) error {
	wire := make([]wireRecord, len(records))
	for i, rec := range records {
		precos := make([]float64, len(rec.Prices))
		for j, p := range rec.Prices {
			precos[j] = p.Units()
		}
		wire[i] = wireRecord{Produto: rec.Product, Precos: precos}
	}

	raw, err := json.Marshal(wire)
	if err != nil {
		return fmt.Errorf("encode ledger %s: %w", date, err)
	}
	if err := r.store.Set(ctx, Key(date), string(raw)); err != nil {
		return fmt.Errorf("save ledger %s: %w", date, err)
	}
	return nil
}
