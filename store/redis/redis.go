package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	st "github.com/unkn0wn-root/depcache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ st.Store = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (s *Redis) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		// never store; drop anything already there
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Redis) GetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(keys))
	for i, v := range vals {
		if v == nil {
			continue
		}
		if sv, ok := v.(string); ok {
			out[keys[i]] = []byte(sv)
		}
	}
	return out, nil
}

// SetMulti pipelines per-key SETs because MSET cannot carry a TTL.
func (s *Redis) SetMulti(ctx context.Context, items map[string][]byte, ttl time.Duration) (bool, error) {
	if len(items) == 0 {
		return true, nil
	}
	if ttl < 0 {
		keys := make([]string, 0, len(items))
		for k := range items {
			keys = append(keys, k)
		}
		return s.DeleteMulti(ctx, keys)
	}
	pipe := s.rdb.Pipeline()
	for k, v := range items {
		pipe.Set(ctx, k, v, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Redis) Delete(ctx context.Context, key string) (bool, error) {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Redis) DeleteMulti(ctx context.Context, keys []string) (bool, error) {
	if len(keys) == 0 {
		return true, nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Clear flushes the selected database. The facade shares its prefix with
// everything else in the DB, so point a dedicated DB at each cache owner.
func (s *Redis) Clear(ctx context.Context) (bool, error) {
	if err := s.rdb.FlushDB(ctx).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
