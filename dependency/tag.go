package dependency

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
)

const kindTag = "tag"

func init() {
	Register(kindTag, func() Dependency { return &TagDependency{} })
}

// TagDependency associates a cached value with one or more named tags whose
// version tokens live in the shared backend itself (written through the
// facade's raw KV surface, so they are namespaced like every other key).
// InvalidateTags rotates the tokens, which invalidates every entry tagged
// with them, across processes when the backend is shared.
type TagDependency struct {
	Tags []string `msgpack:"tags"`

	// Versions holds the token observed per tag at evaluation time.
	Versions map[string][]byte `msgpack:"versions"`
}

// NewTagDependency returns an unevaluated dependency on the given tags.
func NewTagDependency(tags ...string) *TagDependency {
	return &TagDependency{Tags: tags}
}

func (d *TagDependency) Kind() string      { return kindTag }
func (d *TagDependency) IsEvaluated() bool { return d.Versions != nil }

// Evaluate records the current token of every tag, minting tokens for tags
// that have none yet.
func (d *TagDependency) Evaluate(ctx context.Context, kv KV) error {
	if d.Versions != nil {
		return nil
	}
	vers := make(map[string][]byte, len(d.Tags))
	for _, tag := range d.Tags {
		v, ok, err := kv.GetRaw(ctx, tagKey(tag))
		if err != nil {
			return err
		}
		if !ok {
			v, err = mintToken()
			if err != nil {
				return err
			}
			if _, err := kv.SetRaw(ctx, tagKey(tag), v, 0); err != nil {
				return err
			}
		}
		vers[tag] = v
	}
	d.Versions = vers
	return nil
}

// IsChanged reports true when any tag's current token differs from the one
// captured at evaluation time. A token that has vanished from the backend
// also counts as changed.
func (d *TagDependency) IsChanged(ctx context.Context, kv KV) (bool, error) {
	for _, tag := range d.Tags {
		cur, ok, err := kv.GetRaw(ctx, tagKey(tag))
		if err != nil {
			return false, err
		}
		if !ok || !bytes.Equal(cur, d.Versions[tag]) {
			return true, nil
		}
	}
	return false, nil
}

// InvalidateTags rotates the version tokens of the given tags, making every
// entry that depends on any of them read as absent from now on.
func InvalidateTags(ctx context.Context, kv KV, tags ...string) error {
	for _, tag := range tags {
		v, err := mintToken()
		if err != nil {
			return err
		}
		if _, err := kv.SetRaw(ctx, tagKey(tag), v, 0); err != nil {
			return err
		}
	}
	return nil
}

// tagKey is a composite raw key; the facade's normalization collapses it to
// a digest, keeping token entries out of the caller's key space.
func tagKey(tag string) any {
	return []string{"depcache", "tag", tag}
}

func mintToken() ([]byte, error) {
	tok := make([]byte, 16)
	if _, err := rand.Read(tok); err != nil {
		return nil, fmt.Errorf("dependency: mint tag token: %w", err)
	}
	return tok, nil
}
