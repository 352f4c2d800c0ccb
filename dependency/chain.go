package dependency

import (
	"context"

	"github.com/vmihailenco/msgpack/v5"
)

const kindChain = "chain"

func init() {
	Register(kindChain, func() Dependency { return &ChainedDependency{} })
}

// ChainedDependency composes child dependencies: the chain has changed as
// soon as any child has changed. Children are interface-typed, so the chain
// serializes them through the same envelope machinery as stored entries.
type ChainedDependency struct {
	Children []Dependency
}

var (
	_ msgpack.CustomEncoder = (*ChainedDependency)(nil)
	_ msgpack.CustomDecoder = (*ChainedDependency)(nil)
)

// NewChainedDependency returns a chain over the given children.
func NewChainedDependency(children ...Dependency) *ChainedDependency {
	return &ChainedDependency{Children: children}
}

func (d *ChainedDependency) Kind() string { return kindChain }

func (d *ChainedDependency) IsEvaluated() bool {
	for _, c := range d.Children {
		if !c.IsEvaluated() {
			return false
		}
	}
	return true
}

func (d *ChainedDependency) Evaluate(ctx context.Context, kv KV) error {
	for _, c := range d.Children {
		if c.IsEvaluated() {
			continue
		}
		if err := c.Evaluate(ctx, kv); err != nil {
			return err
		}
	}
	return nil
}

// IsChanged short-circuits on the first changed child.
func (d *ChainedDependency) IsChanged(ctx context.Context, kv KV) (bool, error) {
	for _, c := range d.Children {
		changed, err := c.IsChanged(ctx, kv)
		if err != nil {
			return false, err
		}
		if changed {
			return true, nil
		}
	}
	return false, nil
}

func (d *ChainedDependency) EncodeMsgpack(enc *msgpack.Encoder) error {
	blobs := make([][]byte, len(d.Children))
	for i, c := range d.Children {
		b, err := Marshal(c)
		if err != nil {
			return err
		}
		blobs[i] = b
	}
	return enc.Encode(blobs)
}

func (d *ChainedDependency) DecodeMsgpack(dec *msgpack.Decoder) error {
	var blobs [][]byte
	if err := dec.Decode(&blobs); err != nil {
		return err
	}
	children := make([]Dependency, len(blobs))
	for i, b := range blobs {
		c, err := Unmarshal(b)
		if err != nil {
			return err
		}
		children[i] = c
	}
	d.Children = children
	return nil
}
