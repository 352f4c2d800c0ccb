package depcache

import (
	"context"
	"fmt"
	"time"

	cd "github.com/unkn0wn-root/depcache/codec"
	dep "github.com/unkn0wn-root/depcache/dependency"
	"github.com/unkn0wn-root/depcache/internal/keynorm"
	"github.com/unkn0wn-root/depcache/internal/wire"
)

type cache[V any] struct {
	store Store
	codec cd.Codec[V]
	log   Logger
	hooks Hooks

	// fixed per-instance configuration; the setters below mutate defaultTTL
	// and normalize without synchronization, matching the no-locking model.
	prefix     string
	normalize  bool
	defaultTTL time.Duration
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("depcache: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("depcache: codec is required")
	}
	if opts.KeyPrefix != "" && !keynorm.IsAlnum(opts.KeyPrefix) {
		return nil, &InvalidConfigError{
			Option: "KeyPrefix",
			Reason: fmt.Sprintf("must be alphanumeric, got %q", opts.KeyPrefix),
		}
	}

	c := &cache[V]{
		store:      opts.Store,
		codec:      opts.Codec,
		prefix:     opts.KeyPrefix,
		normalize:  !opts.DisableKeyNormalization,
		defaultTTL: opts.DefaultTTL,
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	return c, nil
}

func (c *cache[V]) SetDefaultTTL(ttl time.Duration)  { c.defaultTTL = ttl }
func (c *cache[V]) SetKeyNormalization(enabled bool) { c.normalize = enabled }

// BuildKey maps a raw key to its prefixed storage form. With normalization
// disabled the raw string form is used verbatim (prefix still applied).
func (c *cache[V]) BuildKey(key any) (string, error) {
	if !c.normalize {
		s, err := keynorm.Stringify(key)
		if err != nil {
			return "", &InvalidKeyError{Key: key, Err: err}
		}
		return c.prefix + s, nil
	}
	s, err := keynorm.Normalize(key)
	if err != nil {
		return "", &InvalidKeyError{Key: key, Err: err}
	}
	return c.prefix + s, nil
}

func (c *cache[V]) Get(ctx context.Context, key any) (V, bool, error) {
	var zero V
	k, err := c.BuildKey(key)
	if err != nil {
		return zero, false, err
	}
	raw, ok, err := c.store.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	return c.unwrap(ctx, k, raw)
}

// Has delegates straight to the store. It deliberately skips dependency
// checks: a present-but-stale entry reports true. Use Get when staleness
// matters.
func (c *cache[V]) Has(ctx context.Context, key any) (bool, error) {
	k, err := c.BuildKey(key)
	if err != nil {
		return false, err
	}
	return c.store.Has(ctx, k)
}

// GetMulti fetches all keys in one store call. The storage->raw key mapping
// is rebuilt on the way out; when two raw keys normalize identically the
// later one in keys wins. Missing and invalidated entries are absent from
// the result.
func (c *cache[V]) GetMulti(ctx context.Context, keys []string) (map[string]V, error) {
	out := make(map[string]V, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	restore := make(map[string]string, len(keys)) // storage key -> raw key
	order := make([]string, 0, len(keys))
	for _, rk := range keys {
		k, err := c.BuildKey(rk)
		if err != nil {
			return nil, err
		}
		if _, seen := restore[k]; !seen {
			order = append(order, k)
		}
		restore[k] = rk
	}

	fetched, err := c.store.GetMulti(ctx, order)
	if err != nil {
		return nil, err
	}
	for k, raw := range fetched {
		rk, ok := restore[k]
		if !ok {
			continue // store returned a key we never asked for
		}
		v, ok, err := c.unwrap(ctx, k, raw)
		if err != nil {
			return nil, err
		}
		if ok {
			out[rk] = v
		}
	}
	return out, nil
}

func (c *cache[V]) Set(ctx context.Context, key any, value V, ttl time.Duration, d dep.Dependency) (bool, error) {
	k, err := c.BuildKey(key)
	if err != nil {
		return false, err
	}
	depBytes, err := c.evalDependency(ctx, d)
	if err != nil {
		return false, err
	}
	return c.setEntry(ctx, k, value, ttl, depBytes, false)
}

// SetMulti wraps every entry the same way as Set. A shared dependency is
// evaluated at most once; all entries embed the same snapshot and the store
// receives one batch write with a uniform TTL. Raw keys that normalize to
// the same storage key collapse to one entry; which value survives is
// unspecified (items is a map).
func (c *cache[V]) SetMulti(ctx context.Context, items map[string]V, ttl time.Duration, d dep.Dependency) (bool, error) {
	if len(items) == 0 {
		return true, nil
	}
	depBytes, err := c.evalDependency(ctx, d)
	if err != nil {
		return false, err
	}
	entries, err := c.encodeEntries(items, depBytes)
	if err != nil {
		return false, err
	}
	ok, err := c.store.SetMulti(ctx, entries, c.resolveTTL(ttl))
	if err != nil {
		return false, err
	}
	if !ok {
		c.log.Debug("SetMulti rejected by store (pressure)", Fields{"count": len(entries)})
		c.hooks.StoreSetRejected("", true)
	}
	return ok, nil
}

// Add writes only when the store has no entry at the key. Check-then-act:
// a concurrent writer can slip between the existence check and the write.
func (c *cache[V]) Add(ctx context.Context, key any, value V, ttl time.Duration, d dep.Dependency) (bool, error) {
	k, err := c.BuildKey(key)
	if err != nil {
		return false, err
	}
	exists, err := c.store.Has(ctx, k)
	if err != nil {
		return false, err
	}
	if exists {
		c.hooks.AddSkippedExisting(k)
		return false, nil
	}
	depBytes, err := c.evalDependency(ctx, d)
	if err != nil {
		return false, err
	}
	return c.setEntry(ctx, k, value, ttl, depBytes, false)
}

// AddMulti probes the store once for all target keys and writes only the
// absent ones. Entries skipped because the store already held them are
// silently omitted; the returned boolean reflects only the batch write that
// actually happened. Normalization collisions collapse as in SetMulti.
func (c *cache[V]) AddMulti(ctx context.Context, items map[string]V, ttl time.Duration, d dep.Dependency) (bool, error) {
	if len(items) == 0 {
		return true, nil
	}
	depBytes, err := c.evalDependency(ctx, d)
	if err != nil {
		return false, err
	}
	entries, err := c.encodeEntries(items, depBytes)
	if err != nil {
		return false, err
	}

	probe := make([]string, 0, len(entries))
	for k := range entries {
		probe = append(probe, k)
	}
	existing, err := c.store.GetMulti(ctx, probe)
	if err != nil {
		return false, err
	}
	for k := range existing {
		c.hooks.AddSkippedExisting(k)
		delete(entries, k)
	}
	if len(entries) == 0 {
		return true, nil
	}

	ok, err := c.store.SetMulti(ctx, entries, c.resolveTTL(ttl))
	if err != nil {
		return false, err
	}
	if !ok {
		c.log.Debug("AddMulti rejected by store (pressure)", Fields{"count": len(entries)})
		c.hooks.StoreSetRejected("", true)
	}
	return ok, nil
}

func (c *cache[V]) Delete(ctx context.Context, key any) (bool, error) {
	k, err := c.BuildKey(key)
	if err != nil {
		return false, err
	}
	return c.store.Delete(ctx, k)
}

func (c *cache[V]) DeleteMulti(ctx context.Context, keys []string) (bool, error) {
	if len(keys) == 0 {
		return true, nil
	}
	norm := make([]string, 0, len(keys))
	for _, rk := range keys {
		k, err := c.BuildKey(rk)
		if err != nil {
			return false, err
		}
		norm = append(norm, k)
	}
	return c.store.DeleteMulti(ctx, norm)
}

func (c *cache[V]) Clear(ctx context.Context) (bool, error) {
	return c.store.Clear(ctx)
}

// GetOrSet is a convenience composition of Get and Set, not a new primitive:
// no locking, no single-flight. compute receives the facade so it can use
// the cache recursively.
func (c *cache[V]) GetOrSet(ctx context.Context, key any, compute ComputeFunc[V], ttl time.Duration, d dep.Dependency) (V, error) {
	var zero V
	v, ok, err := c.Get(ctx, key)
	if err != nil {
		return zero, err
	}
	if ok {
		return v, nil
	}
	v, err = compute(ctx, c)
	if err != nil {
		return zero, err
	}
	ok, err = c.Set(ctx, key, v, ttl, d)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, &SetFailedError{Key: key, Value: v}
	}
	return v, nil
}

// GetRaw and SetRaw give dependencies byte-level access to the shared store
// under this facade's key namespace, bypassing codec and entry framing.
// They satisfy dependency.KV.

func (c *cache[V]) GetRaw(ctx context.Context, key any) ([]byte, bool, error) {
	k, err := c.BuildKey(key)
	if err != nil {
		return nil, false, err
	}
	return c.store.Get(ctx, k)
}

func (c *cache[V]) SetRaw(ctx context.Context, key any, value []byte, ttl time.Duration) (bool, error) {
	k, err := c.BuildKey(key)
	if err != nil {
		return false, err
	}
	return c.store.Set(ctx, k, value, ttl)
}

// resolveTTL: explicit per-call TTL wins, then the facade default, then no
// expiry. Negative TTLs pass through untouched; the store treats them as
// delete/never-store.
func (c *cache[V]) resolveTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return c.defaultTTL
	}
	return ttl
}

// evalDependency snapshots d if needed and serializes it for embedding.
// nil dependency => nil bytes (plain entry).
func (c *cache[V]) evalDependency(ctx context.Context, d dep.Dependency) ([]byte, error) {
	if d == nil {
		return nil, nil
	}
	if !d.IsEvaluated() {
		if err := d.Evaluate(ctx, c); err != nil {
			return nil, err
		}
	}
	return dep.Marshal(d)
}

func (c *cache[V]) encodeEntry(value V, depBytes []byte) ([]byte, error) {
	payload, err := c.codec.Encode(value)
	if err != nil {
		return nil, err
	}
	if depBytes == nil {
		return wire.EncodePlain(payload), nil
	}
	return wire.EncodeTagged(depBytes, payload), nil
}

func (c *cache[V]) encodeEntries(items map[string]V, depBytes []byte) (map[string][]byte, error) {
	entries := make(map[string][]byte, len(items))
	for rk, v := range items {
		k, err := c.BuildKey(rk)
		if err != nil {
			return nil, err
		}
		b, err := c.encodeEntry(v, depBytes)
		if err != nil {
			return nil, err
		}
		entries[k] = b
	}
	return entries, nil
}

func (c *cache[V]) setEntry(ctx context.Context, storageKey string, value V, ttl time.Duration, depBytes []byte, isMulti bool) (bool, error) {
	b, err := c.encodeEntry(value, depBytes)
	if err != nil {
		return false, err
	}
	ok, err := c.store.Set(ctx, storageKey, b, c.resolveTTL(ttl))
	if err != nil {
		return false, err
	}
	if !ok {
		c.log.Debug("Set rejected by store (pressure)", Fields{"key": storageKey})
		c.hooks.StoreSetRejected(storageKey, isMulti)
	}
	return ok, nil
}

// unwrap interprets a stored frame: corrupt and undecodable entries are
// deleted (self-heal) and read as misses; a tagged entry whose dependency
// has changed reads as a miss but is left in place for the store to expire.
func (c *cache[V]) unwrap(ctx context.Context, storageKey string, raw []byte) (V, bool, error) {
	var zero V
	e, err := wire.Decode(raw)
	if err != nil {
		c.selfHeal(ctx, storageKey, "corrupt")
		return zero, false, nil
	}
	if e.Tagged {
		d, err := dep.Unmarshal(e.Dep)
		if err != nil {
			c.selfHeal(ctx, storageKey, "dep_decode")
			return zero, false, nil
		}
		changed, err := d.IsChanged(ctx, c)
		if err != nil {
			return zero, false, err
		}
		if changed {
			c.hooks.DependencyChanged(storageKey)
			return zero, false, nil
		}
	}
	v, err := c.codec.Decode(e.Payload)
	if err != nil {
		c.selfHeal(ctx, storageKey, "value_decode")
		return zero, false, nil
	}
	return v, true, nil
}

func (c *cache[V]) selfHeal(ctx context.Context, storageKey, reason string) {
	_, _ = c.store.Delete(ctx, storageKey)
	c.log.Debug("self-heal removed bad entry", Fields{"key": storageKey, "reason": reason})
	c.hooks.SelfHeal(storageKey, reason)
}
