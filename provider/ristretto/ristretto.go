package ristretto

import (
	"context"
	"errors"
	"sync"
	"time"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/memocache/internal/util"
	pr "github.com/unkn0wn-root/memocache/provider"
)

type Provider struct {
	c     *rc.Cache
	index util.KeyIndex

	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
	// Cost in Ristretto is provided by the caller (memocache passes cost per Set).

	// SweepInterval > 0 starts a loop that drops index entries whose
	// values were evicted or expired. Without it they are dropped by Scan.
	SweepInterval time.Duration
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	p := &Provider{c: c}
	if cfg.SweepInterval > 0 {
		p.ticker = time.NewTicker(cfg.SweepInterval)
		p.stopCh = make(chan struct{})
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-p.ticker.C:
					p.Sweep()
				case <-p.stopCh:
					return
				}
			}
		}()
	}
	return p, nil
}

// Sweep drops index entries for keys no longer held by the cache and
// reports how many were dropped.
func (p *Provider) Sweep() int {
	return p.index.Prune(func(k string) bool {
		_, ok := p.c.Get(k)
		return ok
	})
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		p.c.Del(key)
		p.index.Remove(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set waits for the write buffer to drain so a following Get observes the value.
func (p *Provider) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	ok := p.c.SetWithTTL(key, value, cost, ttl)
	p.c.Wait()
	if ok {
		p.index.Add(key, cost)
	}
	return ok, nil
}

func (p *Provider) Del(_ context.Context, key string) (int64, error) {
	_, ok := p.c.Get(key)
	p.c.Del(key)
	p.index.Remove(key)
	if !ok {
		return 0, nil
	}
	return 1, nil
}

func (p *Provider) Exists(_ context.Context, key string) (bool, error) {
	_, ok := p.c.Get(key)
	return ok, nil
}

// Expire re-admits the current value with the new TTL at the cost it was
// stored with.
func (p *Provider) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	b, ok, err := p.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	cost, ok := p.index.Cost(key)
	if !ok {
		cost = 1
	}
	return p.Set(ctx, key, b, cost, ttl)
}

// Scan visits indexed keys that are still present in the cache.
// ristretto only reports key hashes on eviction, so evicted keys are pruned
// from the index here rather than in an eviction callback.
func (p *Provider) Scan(ctx context.Context, pattern string, fn func(key string) error) error {
	for _, k := range p.index.Match(pattern) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := p.c.Get(k); !ok {
			p.index.Remove(k)
			continue
		}
		if err := fn(k); err != nil {
			return err
		}
	}
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	p.once.Do(func() {
		if p.stopCh != nil {
			close(p.stopCh)
			p.ticker.Stop() // stop ticker before waiting
			p.wg.Wait()
		}
		p.c.Wait()
		p.c.Close()
	})
	return nil
}

// Helper to expose metrics if desired by the application (not part of provider.Provider).
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
