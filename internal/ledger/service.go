package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"feira/internal/core"
)

// ErrUnknownProduct is returned by UpdatePrices when today's ledger has no
// record for the given product name.
var ErrUnknownProduct = errors.New("unknown product for today")

// Service merges incoming collections into the daily ledger. Writes to the
// same date key are serialized through a per-key mutex, so concurrent saves
// append instead of clobbering each other's read-modify-write.
type Service struct {
	repo *Repository

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

func NewService(repo *Repository) *Service {
	return &Service{
		repo:  repo,
		locks: make(map[string]*sync.Mutex),
		now:   time.Now,
	}
}

// dateLock returns the mutex guarding one date key. Entries are never
// freed; a process only ever touches a handful of distinct dates.
func (s *Service) dateLock(date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[date]
	if !ok {
		l = &sync.Mutex{}
		s.locks[date] = l
	}
	return l
}

func (s *Service) todayKey() string {
	return s.now().Format(core.DateFormat)
}

// RecordCollection appends the collection's samples to today's record for
// the product, creating the record on first sight. The matching is an exact
// case-sensitive comparison on the product name.
func (s *Service) RecordCollection(ctx context.Context, c core.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}

	date := s.todayKey()
	lock := s.dateLock(date)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.loadFailOpen(ctx, date)
	if err != nil {
		return err
	}

	prices := c.Prices()
	merged := false
	for i := range records {
		if records[i].Product == c.Product {
			records[i].Prices = append(records[i].Prices, prices...)
			merged = true
			break
		}
	}
	if !merged {
		records = append(records, core.ProductRecord{Product: c.Product, Prices: prices})
	}

	if err := s.repo.Save(ctx, date, records); err != nil {
		return fmt.Errorf("record collection: %w", err)
	}

	slog.InfoContext(ctx, "Collection recorded",
		"product", c.Product,
		"samples", len(prices),
		"date", date,
		"merged", merged)
	return nil
}

// TodayRecords returns today's ledger entry. Absent or corrupt entries read
// as empty.
func (s *Service) TodayRecords(ctx context.Context) ([]core.ProductRecord, error) {
	return s.loadFailOpen(ctx, s.todayKey())
}

// UpdatePrices replaces the full price sequence of today's record for the
// product and rewrites the day entry. Used by manual correction flows.
func (s *Service) UpdatePrices(ctx context.Context, product string, prices []core.Money) error {
	if product == "" {
		return core.ErrEmptyProduct
	}

	date := s.todayKey()
	lock := s.dateLock(date)
	lock.Lock()
	defer lock.Unlock()

	records, err := s.loadFailOpen(ctx, date)
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].Product == product {
			records[i].Prices = append([]core.Money(nil), prices...)
			if err := s.repo.Save(ctx, date, records); err != nil {
				return fmt.Errorf("update prices: %w", err)
			}
			slog.InfoContext(ctx, "Prices replaced",
				"product", product,
				"samples", len(prices),
				"date", date)
			return nil
		}
	}
	return ErrUnknownProduct
}

// loadFailOpen applies the recovery policy for stored data: a day entry
// that fails to parse is logged and treated as empty rather than blocking
// the recording flow.
func (s *Service) loadFailOpen(ctx context.Context, date string) ([]core.ProductRecord, error) {
	records, err := s.repo.Load(ctx, date)
	if err != nil {
		if errors.Is(err, ErrCorruptEntry) {
			slog.WarnContext(ctx, "Discarding corrupt ledger entry", "date", date, "error", err)
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}
