// Package store defines the raw key-value backend consumed by depcache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no
// prepended/appended metadata, no re-encoding, no mutation). If a store
// performs internal transforms (e.g., compression), they MUST be fully
// reversed so that the bytes returned by Get are identical to the bytes
// provided to Set.
//
// TTL semantics: ttl == 0 means no expiry; ttl < 0 means the entry must not
// be stored (and an existing entry at the key may be removed). Positive TTLs
// expire the entry after that duration, to whatever precision the store
// supports.
package store

import (
	"context"
	"time"
)

// Store is a minimal byte store with TTLs and batch variants.
// Must be safe for concurrent use; all blocking and ordering guarantees are
// the store's own. depcache adds no retries, timeouts, or locking on top.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Has reports whether the key currently holds a live entry.
	Has(ctx context.Context, key string) (bool, error)

	// Set stores value with the given TTL.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// GetMulti fetches many keys in one call. Missing keys are absent from
	// the result map.
	GetMulti(ctx context.Context, keys []string) (map[string][]byte, error)

	// SetMulti stores all items with one uniform TTL.
	// Returns ok=false when any write was rejected under pressure.
	SetMulti(ctx context.Context, items map[string][]byte, ttl time.Duration) (bool, error)

	// Delete removes a key. ok=false only when the store reports failure.
	Delete(ctx context.Context, key string) (bool, error)

	// DeleteMulti removes many keys in one call.
	DeleteMulti(ctx context.Context, keys []string) (bool, error)

	// Clear drops every entry in the store.
	Clear(ctx context.Context) (bool, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
