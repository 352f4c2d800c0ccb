package dependency

import (
	"bytes"
	"context"
	"crypto/sha256"
	"io"
	"os"
)

const kindFile = "file"

func init() {
	Register(kindFile, func() Dependency { return &FileDependency{} })
}

// FileDependency invalidates a cached value when the contents of a file
// change. The snapshot is a SHA-256 digest of the file; a missing file is a
// valid, distinct state rather than an error, so caching "file not there
// yet" works and the entry invalidates when the file appears.
type FileDependency struct {
	Path string `msgpack:"path"`

	Sum     []byte `msgpack:"sum"`
	Missing bool   `msgpack:"missing"`
	Done    bool   `msgpack:"done"`
}

// NewFileDependency returns an unevaluated dependency on path.
func NewFileDependency(path string) *FileDependency {
	return &FileDependency{Path: path}
}

func (d *FileDependency) Kind() string      { return kindFile }
func (d *FileDependency) IsEvaluated() bool { return d.Done }

func (d *FileDependency) Evaluate(_ context.Context, _ KV) error {
	if d.Done {
		return nil
	}
	sum, missing, err := d.current()
	if err != nil {
		return err
	}
	d.Sum, d.Missing, d.Done = sum, missing, true
	return nil
}

func (d *FileDependency) IsChanged(_ context.Context, _ KV) (bool, error) {
	sum, missing, err := d.current()
	if err != nil {
		return false, err
	}
	if missing != d.Missing {
		return true, nil
	}
	return !bytes.Equal(sum, d.Sum), nil
}

func (d *FileDependency) current() (sum []byte, missing bool, err error) {
	f, err := os.Open(d.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, true, nil
		}
		return nil, false, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, false, err
	}
	return h.Sum(nil), false, nil
}
