package bigcache

import (
	"context"
	"time"

	bc "github.com/allegro/bigcache/v3"

	st "github.com/unkn0wn-root/depcache/store"
)

type Store struct {
	c *bc.BigCache
}

var _ st.Store = (*Store)(nil)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		_ = s.c.Delete(key)
		return true, nil
	}
	// BigCache does not support per-entry TTL; uses global LifeWindow.
	return true, s.c.Set(key, value)
}

func (s *Store) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		v, ok, err := s.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *Store) SetMulti(ctx context.Context, items map[string][]byte, ttl time.Duration) (bool, error) {
	for k, v := range items {
		if _, err := s.Set(ctx, k, v, ttl); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	if err := s.c.Delete(key); err != nil && err != bc.ErrEntryNotFound {
		return false, err
	}
	return true, nil
}

func (s *Store) DeleteMulti(ctx context.Context, keys []string) (bool, error) {
	for _, k := range keys {
		if ok, err := s.Delete(ctx, k); err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

func (s *Store) Clear(_ context.Context) (bool, error) {
	if err := s.c.Reset(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Close(_ context.Context) error {
	return s.c.Close()
}
