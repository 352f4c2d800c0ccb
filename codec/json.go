package codec

import "encoding/json"

// JSON serializes values with encoding/json. The zero value is ready to
// use. Favors debuggability over size; use Msgpack or CBOR for compactness.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
