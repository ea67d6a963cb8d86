package core

import (
	"errors"
	"strings"
	"time"
)

// DateFormat is the calendar-date layout used to partition the daily ledger.
const DateFormat = "2006-01-02"

type (
	// Money is a non-negative monetary amount held as integer cents.
	Money struct {
		Cents int64
	}

	// ProductRecord is one product's observed prices for a single day.
	// Prices keep insertion order; order carries no meaning beyond display.
	ProductRecord struct {
		Product string
		Prices  []Money
	}

	// Collection is one submission from the field: a product name and the
	// raw price samples exactly as typed.
	Collection struct {
		Product string
		Samples []string
	}
)

var (
	ErrEmptyProduct   = errors.New("empty product name")
	ErrProductTooLong = errors.New("product name too long (max 200 characters)")
	ErrNoSamples      = errors.New("no samples provided")
)

// TodayKey returns the ledger date key for the current local calendar date.
func TodayKey() string {
	return time.Now().Format(DateFormat)
}

// ValidDateKey reports whether s is a well-formed date key.
func ValidDateKey(s string) bool {
	_, err := time.Parse(DateFormat, s)
	return err == nil
}

func (c Collection) Validate() error {
	if len(strings.TrimSpace(c.Product)) == 0 {
		return ErrEmptyProduct
	}
	if len(c.Product) > 200 {
		return ErrProductTooLong
	}
	if len(c.Samples) == 0 {
		return ErrNoSamples
	}
	return nil
}

// Prices converts the raw samples into monetary values, in input order.
func (c Collection) Prices() []Money {
	prices := make([]Money, len(c.Samples))
	for i, s := range c.Samples {
		prices[i] = ParseMoney(s)
	}
	return prices
}
