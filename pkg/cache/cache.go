// Package cache is the key/value store behind sessions and the catalog
// cache. Two drivers are available, selected by CACHE_DRIVER:
//
//	memory  in-process map with TTLs (default, single instance)
//	redis   shared Redis server at REDIS_ADDR
//
// Values are stored as JSON so both drivers behave the same:
//
//	store, err := cache.New()
//	products, err := cache.Remember(ctx, store, "catalog:products", ttl, func() ([]models.Product, error) {
//	    return repo.fetch(ctx)
//	})
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/orderdesk/config"
	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
)

// Store is implemented by every cache driver.
type Store interface {
	// Get unmarshals the value under key into dest and reports a hit.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Driver() string
}

// New builds the store selected by config.CacheDriver.
func New() (Store, error) {
	switch config.CacheDriver() {
	case "redis":
		return NewRedis(config.RedisAddr(), config.RedisPassword())
	default:
		return NewMemory(), nil
	}
}

// Remember returns the cached value for key, or calls fn, caches its result
// for ttl and returns it. A broken cache never fails the call; fn is used
// instead.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var out T
	hit, err := s.Get(ctx, key, &out)
	if err != nil {
		logger.WithCtx(ctx).Warn("cache: get failed", "key", key, "driver", s.Driver(), "error", err)
	}
	if hit {
		metrics.CacheHits.WithLabelValues(s.Driver()).Inc()
		return out, nil
	}
	metrics.CacheMisses.WithLabelValues(s.Driver()).Inc()

	out, err = fn()
	if err != nil {
		return out, err
	}
	if err := s.Set(ctx, key, out, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: set failed", "key", key, "driver", s.Driver(), "error", err)
	}
	return out, nil
}

// ─── Memory driver ────────────────────────────────────────────────────────────

type entry struct {
	raw     []byte
	expires time.Time // zero: never
}

func (e entry) expiredAt(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Memory is a process-local Store. Expired entries are dropped lazily.
type Memory struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{items: map[string]entry{}, now: time.Now}
}

func (m *Memory) Driver() string { return "memory" }

func (m *Memory) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if now := m.now(); e.expiredAt(now) {
		// A Set may have replaced the entry since the read above.
		m.mu.Lock()
		e, ok = m.items[key]
		if ok && e.expiredAt(now) {
			delete(m.items, key)
			ok = false
		}
		m.mu.Unlock()
		if !ok {
			return false, nil
		}
	}
	if err := json.Unmarshal(e.raw, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}

	e := entry{raw: raw}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}

// ─── Redis driver ─────────────────────────────────────────────────────────────

type Redis struct {
	rdb *redis.Client
}

// NewRedis connects to addr and verifies the connection with a ping.
func NewRedis(addr, password string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping %s: %w", addr, err)
	}
	return &Redis{rdb: rdb}, nil
}

func (r *Redis) Driver() string { return "redis" }

func (r *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return r.rdb.Set(ctx, key, data, ttl).Err()
}

func (r *Redis) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.rdb.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error { return r.rdb.Close() }
