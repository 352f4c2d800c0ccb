// Package codec provides pluggable value serialization for depcache.
// A Codec sits between the caller's typed values and the byte store; the
// facade frames its output, so codecs never see dependency metadata.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
