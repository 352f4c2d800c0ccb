package depcache

import (
	"context"
	"time"

	cd "github.com/unkn0wn-root/depcache/codec"
	dep "github.com/unkn0wn-root/depcache/dependency"
	st "github.com/unkn0wn-root/depcache/store"
)

// Aliases so callers wiring a facade only need the root import.
type (
	Store      = st.Store
	Dependency = dep.Dependency
)

// ComputeFunc produces a missing value for GetOrSet. It receives the facade
// itself, so the computation may read or warm other cache entries.
type ComputeFunc[V any] func(ctx context.Context, c Cache[V]) (V, error)

// Cache is the high-level decorator API over an injected byte store. It adds
// key normalization, default-TTL shaping, and dependency-based invalidation;
// storage semantics (expiry precision, eviction, durability) remain the
// store's. V is the caller's value type, serialized by a pluggable Codec[V].
//
// Keys are raw keys: strings, integers, or composite values with a stable
// serialized form. Multi-key operations take string raw keys and return maps
// keyed by them; missing, expired, and dependency-invalidated entries are
// simply absent from result maps.
//
// The facade holds no locks and never retries: Add and AddMulti are
// check-then-act, and GetOrSet offers no single-flight suppression.
// Coordinate concurrent writers at the store or a layer above.
type Cache[V any] interface {
	// Single
	Get(ctx context.Context, key any) (v V, ok bool, err error)
	Set(ctx context.Context, key any, value V, ttl time.Duration, d dep.Dependency) (bool, error)
	Add(ctx context.Context, key any, value V, ttl time.Duration, d dep.Dependency) (bool, error)
	Delete(ctx context.Context, key any) (bool, error)

	// Has checks existence at the store level only: a present entry whose
	// dependency has since changed still reports true. Intentional
	// asymmetry with Get, kept as a cheap existence probe.
	Has(ctx context.Context, key any) (bool, error)

	// Multi (string raw keys; results keyed by the caller's keys)
	GetMulti(ctx context.Context, keys []string) (map[string]V, error)
	SetMulti(ctx context.Context, items map[string]V, ttl time.Duration, d dep.Dependency) (bool, error)
	AddMulti(ctx context.Context, items map[string]V, ttl time.Duration, d dep.Dependency) (bool, error)
	DeleteMulti(ctx context.Context, keys []string) (bool, error)

	Clear(ctx context.Context) (bool, error)

	// GetOrSet returns the cached value or computes, stores, and returns it.
	// A rejected write surfaces as *SetFailedError carrying the computed
	// value. Concurrent callers may each invoke compute.
	GetOrSet(ctx context.Context, key any, compute ComputeFunc[V], ttl time.Duration, d dep.Dependency) (V, error)

	// BuildKey exposes the normalized, prefixed form of a raw key.
	BuildKey(key any) (string, error)

	// Raw byte access under this facade's key namespace, bypassing codec
	// and entry framing. Satisfies dependency.KV, so a facade can be handed
	// to dependency.InvalidateTags directly.
	GetRaw(ctx context.Context, key any) ([]byte, bool, error)
	SetRaw(ctx context.Context, key any, value []byte, ttl time.Duration) (bool, error)

	// SetDefaultTTL replaces the TTL applied to writes that pass ttl == 0.
	// Zero means no expiry. Not synchronized against in-flight operations.
	SetDefaultTTL(ttl time.Duration)

	// SetKeyNormalization toggles raw-key normalization for subsequent
	// calls. When disabled, keys reach the store as prefix + raw string
	// form, unhashed. Not synchronized against in-flight operations.
	SetKeyNormalization(enabled bool)
}

// Options tune the facade. Store and Codec are required; the zero value of
// everything else is usable.
type Options[V any] struct {
	// Required
	Store Store
	Codec cd.Codec[V]

	// KeyPrefix namespaces every key in a shared store. Must be empty or
	// strictly alphanumeric; anything else is rejected by New.
	KeyPrefix string

	// DefaultTTL applies to writes that do not carry their own TTL.
	// 0 => no expiry.
	DefaultTTL time.Duration

	// DisableKeyNormalization passes raw string forms through unhashed.
	DisableKeyNormalization bool

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
