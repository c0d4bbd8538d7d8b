package memocache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/memocache/codec"
	pr "github.com/unkn0wn-root/memocache/provider"
)

// SetCostFunc computes the admission cost passed to the provider on Set.
type SetCostFunc func(key string, raw []byte) int64

// KeyBuilder replaces namespace/prefix/param composition for one operation.
// It receives Key.Name and returns the full storage key.
type KeyBuilder func(name string) string

// Key describes the storage key of one operation.
type Key struct {
	Name    string
	Prefix  string     // optional grouping label under the namespace
	Params  Params     // appended in order
	Builder KeyBuilder // when set, the other fields except Name are ignored
}

// Cache is the high-level, provider-agnostic cache API.
// Values are encoded with the configured codec.Serializer.
type Cache interface {
	Namespace() string
	Enabled() bool

	// BuildKey returns the storage key for k.
	BuildKey(k Key) string

	// Get decodes the stored value into dst (a non-nil pointer).
	// found is false on a miss; a miss is not an error.
	Get(ctx context.Context, k Key, dst any) (found bool, err error)
	// Set stores value; ttl <= 0 stores without expiry.
	Set(ctx context.Context, k Key, value any, ttl time.Duration) error
	Exists(ctx context.Context, k Key) (bool, error)
	Expire(ctx context.Context, k Key, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, k Key) (int64, error)

	// DeleteStartingWith removes every key under "<built key>:". Not atomic:
	// keys written while the scan runs may survive.
	DeleteStartingWith(ctx context.Context, k Key) (int64, error)
	// Keys lists stored keys containing the built key.
	Keys(ctx context.Context, k Key) ([]string, error)
}

// Options tune the behavior of the cache client.
// Only Provider is required; others have sensible defaults.
type Options struct {
	// Required
	Provider pr.Provider // not owned: the caller closes it

	Namespace      string           // isolates this application's keys; may be empty
	Serializer     codec.Serializer // nil => codec.NewTagged()
	MaxValueSize   int              // > 0 rejects stored payloads larger than this on read
	Logger         Logger           // if nil, NopLogger is used
	Hooks          Hooks            // if nil, NopHooks is used
	ComputeSetCost SetCostFunc      // default 1
	Disabled       bool             // default false (enabled)
}

func New(opts Options) (Cache, error) {
	return newClient(opts)
}

// GetAs is a typed wrapper around Cache.Get.
func GetAs[T any](ctx context.Context, c Cache, k Key) (T, bool, error) {
	var v T
	found, err := c.Get(ctx, k, &v)
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}
