// Package dependency defines the change-detection capability attached to
// cache entries.
//
// A Dependency snapshots some external condition at write time; on read the
// facade asks it whether that condition has changed, and a changed
// dependency makes the cached value behave as absent. Variants differ only
// in how they produce a snapshot: a hash of a file's contents, version
// tokens kept in the shared backend, or an AND-composite of children.
//
// Concrete dependencies are data-only structs so they survive the storage
// round-trip: they are serialized into a {kind, body} msgpack envelope and
// reconstructed through a process-global kind registry. An instance is not
// safe for unsynchronized concurrent first-time evaluation; use one
// instance per write or synchronize externally.
package dependency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// KV is the narrow slice of the cache facade a Dependency may touch while
// evaluating: raw byte access to the shared backend with the facade's key
// normalization applied.
type KV interface {
	GetRaw(ctx context.Context, key any) ([]byte, bool, error)
	SetRaw(ctx context.Context, key any, value []byte, ttl time.Duration) (bool, error)
}

// Dependency is the capability consumed by the cache facade.
type Dependency interface {
	// Kind identifies the concrete type in the storage envelope.
	Kind() string

	// Evaluate captures a snapshot of the current external state.
	// It is a no-op once a snapshot exists; the facade additionally guards
	// calls with IsEvaluated so a caller-reused instance keeps its original
	// snapshot.
	Evaluate(ctx context.Context, kv KV) error

	// IsEvaluated reports whether a snapshot has been captured.
	IsEvaluated() bool

	// IsChanged recomputes the current state and compares it against the
	// captured snapshot. true means the cached value must be treated as
	// absent. The comparison is entirely the dependency's own.
	IsChanged(ctx context.Context, kv KV) (bool, error)
}

var (
	regMu    sync.RWMutex
	registry = map[string]func() Dependency{}
)

// Register binds a kind tag to a constructor for decoding stored entries.
// Call from an init function; registering a duplicate kind panics.
func Register(kind string, ctor func() Dependency) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := registry[kind]; dup {
		panic(fmt.Sprintf("dependency: kind %q already registered", kind))
	}
	registry[kind] = ctor
}

type envelope struct {
	Kind string `msgpack:"kind"`
	Body []byte `msgpack:"body"`
}

// Marshal serializes a dependency (including its snapshot) for embedding in
// a stored cache entry.
func Marshal(d Dependency) ([]byte, error) {
	body, err := msgpack.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("dependency: encode %q: %w", d.Kind(), err)
	}
	return msgpack.Marshal(envelope{Kind: d.Kind(), Body: body})
}

// Unmarshal reconstructs a dependency from a stored entry. Unknown kinds and
// malformed bodies return an error; the facade treats both as corruption.
func Unmarshal(b []byte) (Dependency, error) {
	var env envelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("dependency: decode envelope: %w", err)
	}
	regMu.RLock()
	ctor, ok := registry[env.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("dependency: unknown kind %q", env.Kind)
	}
	d := ctor()
	if err := msgpack.Unmarshal(env.Body, d); err != nil {
		return nil, fmt.Errorf("dependency: decode %q: %w", env.Kind, err)
	}
	return d, nil
}
