package memocache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/memocache/codec"
	"github.com/unkn0wn-root/memocache/internal/util"
	pr "github.com/unkn0wn-root/memocache/provider"
)

type client struct {
	ns             string
	provider       pr.Provider
	ser            codec.Serializer
	log            Logger
	hooks          Hooks
	enabled        bool
	computeSetCost SetCostFunc
}

func newClient(opts Options) (*client, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("memocache: provider is required")
	}

	c := &client{
		ns:       opts.Namespace,
		provider: opts.Provider,
		enabled:  !opts.Disabled,
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	if opts.Serializer != nil {
		c.ser = opts.Serializer
	} else {
		c.ser = codec.NewTagged()
	}
	if opts.MaxValueSize > 0 {
		c.ser = codec.Limit{Inner: c.ser, MaxDecode: opts.MaxValueSize}
	}

	if opts.ComputeSetCost != nil {
		c.computeSetCost = opts.ComputeSetCost
	} else {
		c.computeSetCost = func(string, []byte) int64 { return 1 }
	}

	return c, nil
}

func (c *client) Namespace() string { return c.ns }
func (c *client) Enabled() bool     { return c.enabled }

func (c *client) BuildKey(k Key) string {
	if k.Builder != nil {
		return k.Builder(k.Name)
	}
	return BuildKey(c.ns, k.Name, k.Prefix, k.Params)
}

func (c *client) Get(ctx context.Context, k Key, dst any) (bool, error) {
	if dst == nil {
		return false, ErrNilDestination
	}
	if !c.enabled {
		return false, nil
	}
	key := c.BuildKey(k)
	raw, ok, err := c.provider.Get(ctx, key)
	if err != nil {
		return false, c.storeErr("get", key, err)
	}
	if !ok || len(raw) == 0 {
		c.hooks.Miss(key)
		return false, nil
	}
	if err := c.ser.Decode(raw, dst); err != nil {
		c.hooks.DecodeFailed(key, err)
		c.log.Warn("decode failed", Fields{"key": key, "size": len(raw), "err": err})
		return false, &DecodeError{Key: key, Err: err}
	}
	c.hooks.Hit(key)
	return true, nil
}

func (c *client) Set(ctx context.Context, k Key, value any, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	key := c.BuildKey(k)
	payload, err := c.ser.Encode(value)
	if err != nil {
		return &SerializationError{Key: key, Err: err}
	}
	if ttl < 0 {
		ttl = 0
	}
	ok, err := c.provider.Set(ctx, key, payload, c.computeSetCost(key, payload), ttl)
	if err != nil {
		return c.storeErr("set", key, err)
	}
	if !ok {
		c.hooks.ProviderSetRejected(key)
		c.log.Debug("Set rejected by provider (pressure)", Fields{"key": key})
	}
	return nil
}

func (c *client) Exists(ctx context.Context, k Key) (bool, error) {
	if !c.enabled {
		return false, nil
	}
	key := c.BuildKey(k)
	ok, err := c.provider.Exists(ctx, key)
	if err != nil {
		return false, c.storeErr("exists", key, err)
	}
	return ok, nil
}

func (c *client) Expire(ctx context.Context, k Key, ttl time.Duration) (bool, error) {
	if !c.enabled {
		return false, nil
	}
	key := c.BuildKey(k)
	ok, err := c.provider.Expire(ctx, key, ttl)
	if err != nil {
		return false, c.storeErr("expire", key, err)
	}
	return ok, nil
}

func (c *client) Delete(ctx context.Context, k Key) (int64, error) {
	if !c.enabled {
		return 0, nil
	}
	key := c.BuildKey(k)
	n, err := c.provider.Del(ctx, key)
	if err != nil {
		return 0, c.storeErr("del", key, err)
	}
	return n, nil
}

func (c *client) DeleteStartingWith(ctx context.Context, k Key) (int64, error) {
	if !c.enabled {
		return 0, nil
	}
	pattern := util.EscapeGlob(c.BuildKey(k)) + string(sep) + "*"

	var removed int64
	err := c.provider.Scan(ctx, pattern, func(key string) error {
		n, err := c.provider.Del(ctx, key)
		if err != nil {
			return c.storeErr("del", key, err)
		}
		removed += n
		return nil
	})
	if err != nil {
		var se *StoreError
		if !errors.As(err, &se) {
			err = c.storeErr("scan", pattern, err)
		}
		c.log.Warn("delete by prefix interrupted", Fields{"pattern": pattern, "removed": removed, "err": err})
		return removed, err
	}
	c.log.Debug("deleted by prefix", Fields{"pattern": pattern, "removed": removed})
	return removed, nil
}

func (c *client) Keys(ctx context.Context, k Key) ([]string, error) {
	if !c.enabled {
		return nil, nil
	}
	pattern := "*" + util.EscapeGlob(c.BuildKey(k)) + "*"

	var keys []string
	err := c.provider.Scan(ctx, pattern, func(key string) error {
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, c.storeErr("scan", pattern, err)
	}
	return keys, nil
}

func (c *client) storeErr(op, key string, err error) error {
	c.hooks.StoreFailed(op, key, err)
	return &StoreError{Op: op, Key: key, Err: err}
}

// observer exposes the client's hooks and logger to Memoize.
type observer interface {
	observers() (Hooks, Logger)
}

func (c *client) observers() (Hooks, Logger) { return c.hooks, c.log }
