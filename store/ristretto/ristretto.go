package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	st "github.com/unkn0wn-root/depcache/store"
)

type Store struct {
	c *rc.Cache
}

var _ st.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
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
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

// Set uses the value length as ristretto cost; admission may reject the
// write under pressure, which surfaces as ok=false.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		s.c.Del(key)
		return true, nil
	}
	cost := int64(len(value))
	if cost == 0 {
		cost = 1
	}
	if ttl == 0 {
		return s.c.Set(key, value, cost), nil
	}
	return s.c.SetWithTTL(key, value, cost, ttl), nil
}

func (s *Store) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok, _ := s.Get(ctx, k); ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Store) SetMulti(ctx context.Context, items map[string][]byte, ttl time.Duration) (bool, error) {
	all := true
	for k, v := range items {
		ok, err := s.Set(ctx, k, v, ttl)
		if err != nil {
			return false, err
		}
		all = all && ok
	}
	return all, nil
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.c.Del(key)
	return true, nil
}

func (s *Store) DeleteMulti(ctx context.Context, keys []string) (bool, error) {
	for _, k := range keys {
		s.c.Del(k)
	}
	return true, nil
}

func (s *Store) Clear(_ context.Context) (bool, error) {
	s.c.Clear()
	return true, nil
}

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto metrics if enabled (not part of store.Store).
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }
