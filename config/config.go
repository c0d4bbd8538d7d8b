// Package config loads memocache settings from the environment and builds
// the configured provider and serializer.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/unkn0wn-root/memocache"
	"github.com/unkn0wn-root/memocache/codec"
	pr "github.com/unkn0wn-root/memocache/provider"
	"github.com/unkn0wn-root/memocache/provider/bigcache"
	"github.com/unkn0wn-root/memocache/provider/redis"
	"github.com/unkn0wn-root/memocache/provider/ristretto"
)

const (
	BackendRedis     = "redis"
	BackendRistretto = "ristretto"
	BackendBigcache  = "bigcache"
)

type Redis struct {
	URL       string `env:"MEMOCACHE_REDIS_URL" env-default:"redis://localhost:6379/0"`
	ScanCount int64  `env:"MEMOCACHE_REDIS_SCAN_COUNT" env-default:"256"`
}

type Ristretto struct {
	NumCounters int64         `env:"MEMOCACHE_RISTRETTO_COUNTERS" env-default:"1000000"`
	MaxCost     int64         `env:"MEMOCACHE_RISTRETTO_MAX_COST" env-default:"67108864"`
	BufferItems int64         `env:"MEMOCACHE_RISTRETTO_BUFFER_ITEMS" env-default:"64"`
	Sweep       time.Duration `env:"MEMOCACHE_RISTRETTO_SWEEP" env-default:"1m"`
}

type Bigcache struct {
	LifeWindow  time.Duration `env:"MEMOCACHE_BIGCACHE_LIFE_WINDOW" env-default:"10m"`
	HardMaxMB   int           `env:"MEMOCACHE_BIGCACHE_HARD_MAX_MB" env-default:"0"`
	CleanWindow time.Duration `env:"MEMOCACHE_BIGCACHE_CLEAN_WINDOW" env-default:"1m"`
}

type Config struct {
	Namespace    string `env:"MEMOCACHE_NAMESPACE" env-default:"app"`
	Backend      string `env:"MEMOCACHE_BACKEND" env-default:"redis"`
	Disabled     bool   `env:"MEMOCACHE_DISABLED" env-default:"false"`
	LogLevel     string `env:"MEMOCACHE_LOG_LEVEL" env-default:"info"`
	ObjectCodec  string `env:"MEMOCACHE_OBJECT_CODEC" env-default:"msgpack"`
	LegacyFormat bool   `env:"MEMOCACHE_LEGACY_FORMAT" env-default:"false"`
	MaxValueSize int    `env:"MEMOCACHE_MAX_VALUE_SIZE" env-default:"0"`

	Redis     Redis
	Ristretto Ristretto
	Bigcache  Bigcache
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendRedis, BackendRistretto, BackendBigcache:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	switch strings.ToLower(c.ObjectCodec) {
	case "msgpack", "cbor":
	default:
		return fmt.Errorf("config: unknown object codec %q", c.ObjectCodec)
	}
	if c.MaxValueSize < 0 {
		return fmt.Errorf("config: negative max value size %d", c.MaxValueSize)
	}
	return nil
}

// Serializer returns the configured serializer. LegacyFormat selects the
// untagged (sniffing) scheme for stores written by older clients.
func (c Config) Serializer() (codec.Serializer, error) {
	var object codec.Codec = codec.Msgpack{}
	if strings.EqualFold(c.ObjectCodec, "cbor") {
		cb, err := codec.NewCBOR(true)
		if err != nil {
			return nil, err
		}
		object = cb
	}
	if c.LegacyFormat {
		return codec.Sniffing{Structured: codec.JSON{}, Object: object}, nil
	}
	return codec.NewTagged(codec.WithObjectCodec(object)), nil
}

// Provider opens the configured backend. The caller owns the result and
// must Close it.
func (c Config) Provider(ctx context.Context) (pr.Provider, error) {
	switch strings.ToLower(c.Backend) {
	case BackendRedis:
		opt, err := goredis.ParseURL(c.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("config: redis url: %w", err)
		}
		rdb := goredis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("config: redis ping: %w", err)
		}
		p, err := redis.New(redis.Config{Client: rdb, CloseClient: true, ScanCount: c.Redis.ScanCount})
		if err != nil {
			_ = rdb.Close()
			return nil, err
		}
		return p, nil
	case BackendRistretto:
		p, err := ristretto.New(ristretto.Config{
			NumCounters:   c.Ristretto.NumCounters,
			MaxCost:       c.Ristretto.MaxCost,
			BufferItems:   c.Ristretto.BufferItems,
			SweepInterval: c.Ristretto.Sweep,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendBigcache:
		p, err := bigcache.New(ctx, bigcache.Config{
			LifeWindow:         c.Bigcache.LifeWindow,
			CleanWindow:        c.Bigcache.CleanWindow,
			HardMaxCacheSizeMB: c.Bigcache.HardMaxMB,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("config: unknown backend %q", c.Backend)
	}
}

// Options returns memocache.Options for p with the configured namespace,
// serializer and limits. Logger and Hooks are left to the caller.
func (c Config) Options(p pr.Provider) (memocache.Options, error) {
	ser, err := c.Serializer()
	if err != nil {
		return memocache.Options{}, err
	}
	return memocache.Options{
		Namespace:    c.Namespace,
		Provider:     p,
		Serializer:   ser,
		MaxValueSize: c.MaxValueSize,
		Disabled:     c.Disabled,
	}, nil
}
