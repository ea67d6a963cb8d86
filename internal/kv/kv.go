// Package kv defines the string key-value persistence port used by the
// ledger and favorites repositories, plus an in-memory implementation.
package kv

import "context"

// Store is the persistence provider behind the daily ledger and the
// favorites table. Values are opaque strings (JSON-encoded by callers).
// Absent keys are not errors: Get reports presence separately.
type Store interface {
	// Get returns the value stored under key, and whether it was present.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
