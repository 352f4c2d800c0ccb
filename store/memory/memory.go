// Package memory provides an in-process Store backed by a mutex-guarded map.
// Expired entries are dropped lazily on read; there is no background sweeper.
// Intended for tests and single-process deployments without memory pressure;
// use the bigcache or ristretto stores when eviction matters.
package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

type Store struct {
	mu sync.RWMutex
	m  map[string]entry
}

func New() *Store {
	return &Store{m: make(map[string]entry)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		s.mu.Lock()
		// re-check under write lock; another writer may have replaced it
		if cur, ok := s.m[key]; ok && cur.exp.Equal(e.exp) {
			delete(s.m, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()
		return true, nil
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.m[key] = entry{v: value, exp: exp}
	s.mu.Unlock()
	return true, nil
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
	for k, v := range items {
		if _, err := s.Set(ctx, k, v, ttl); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return true, nil
}

func (s *Store) DeleteMulti(ctx context.Context, keys []string) (bool, error) {
	for _, k := range keys {
		if _, err := s.Delete(ctx, k); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *Store) Clear(_ context.Context) (bool, error) {
	s.mu.Lock()
	s.m = make(map[string]entry)
	s.mu.Unlock()
	return true, nil
}

func (s *Store) Close(_ context.Context) error { return nil }

// Len reports the number of live-or-expired entries currently held.
// Test helper; not part of the Store contract.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
