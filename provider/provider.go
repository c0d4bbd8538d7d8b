// Package provider defines the storage abstraction used by memocache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation). If a store performs internal transforms
// (e.g., compression), they MUST be fully reversed so that the bytes returned by
// Get are identical to the bytes provided to Set.
//
// Keys are opaque strings built by memocache ("<namespace>[:<prefix>]:<key>[:<param>...]").
// Scan patterns use redis glob syntax ('*', '?', '\' escapes).
package provider

import (
	"context"
	"time"
)

// Provider is a minimal byte store with TTLs.
// Must be safe for concurrent use. No two calls are assumed to be atomic
// with respect to each other.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL; ttl <= 0 means no expiry.
	// May ignore cost if unsupported.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key and reports how many keys were removed (0 or 1).
	Del(ctx context.Context, key string) (int64, error)

	// Exists reports whether key currently holds a value.
	Exists(ctx context.Context, key string) (bool, error)

	// Expire sets a new TTL on an existing key. Returns false if the key
	// does not exist or the store cannot expire individual keys.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Scan calls fn for every key matching pattern. Keys written or removed
	// while the scan runs may or may not be visited. A non-nil error from fn
	// stops the scan and is returned.
	Scan(ctx context.Context, pattern string, fn func(key string) error) error

	// Close releases resources.
	Close(ctx context.Context) error
}
