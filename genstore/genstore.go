// Package genstore keeps per-resource generation counters.
package genstore

import (
	"context"
	"time"
)

// GenStore abstracts where generations live. Keys are resource key strings
// ("shop:7"). Implementations must be process-local: Snapshot and Bump are on
// every read and write path and must not block on I/O.
type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, key string) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, key string) (uint64, error)
	// Cleanup prunes entries not bumped within retention.
	Cleanup(retention time.Duration)
	// Len reports how many keys carry a generation.
	Len() int
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
