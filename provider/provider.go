// Package provider defines the byte store abstraction behind repcache.Store.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding). If a store performs internal transforms they MUST
// be fully reversed.
//
// The keyspace "entry:" is owned by repcache. Foreign writes under that prefix
// fail frame validation and are deleted on read.
package provider

import (
	"context"
)

// Provider is a bounded, process-local byte store.
// Must be safe for concurrent use. Every method is a single in-memory
// operation; none may block on I/O.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// A hit counts as a use for recency-based eviction.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set inserts or replaces value. May ignore cost if unsupported.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64) (ok bool, err error)

	// Del removes a key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Sizer is implemented by providers that can count their entries.
type Sizer interface {
	Len() int
}
