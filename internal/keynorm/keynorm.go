// Package keynorm turns arbitrary cache keys into backend-safe strings.
//
// Normalization is a pure function of the raw key: equal raw keys always
// produce the same normalized key, and the output is bounded in length and
// restricted to hex/alphanumeric characters. Short alphanumeric strings pass
// through unchanged so they stay readable in the backend; everything else is
// collapsed to a fixed-length MD5 hex digest of a canonical string form.
package keynorm

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
)

// MaxPassthrough is the longest alphanumeric key stored without hashing.
const MaxPassthrough = 32

// ErrUnserializable reports a composite key that has no canonical string
// form (cyclic structure, func/chan values, and similar).
type ErrUnserializable struct {
	Err error
}

func (e *ErrUnserializable) Error() string {
	return fmt.Sprintf("keynorm: key cannot be serialized: %v", e.Err)
}

func (e *ErrUnserializable) Unwrap() error { return e.Err }

// Normalize maps a raw key to its backend-safe form. String and integer keys
// never fail; composite keys fail with *ErrUnserializable when they cannot
// be canonicalized.
func Normalize(key any) (string, error) {
	if s, ok := scalarForm(key); ok {
		if len(s) <= MaxPassthrough && isAlnum(s) {
			return s, nil
		}
		return digest(s), nil
	}
	s, err := canonical(key)
	if err != nil {
		return "", err
	}
	return digest(s), nil
}

// Stringify returns the raw string form of a key without any hashing.
// Used when normalization is disabled: scalars convert directly, composites
// keep their canonical serialization.
func Stringify(key any) (string, error) {
	if s, ok := scalarForm(key); ok {
		return s, nil
	}
	return canonical(key)
}

func scalarForm(key any) (string, bool) {
	switch k := key.(type) {
	case string:
		return k, true
	case int:
		return strconv.FormatInt(int64(k), 10), true
	case int8:
		return strconv.FormatInt(int64(k), 10), true
	case int16:
		return strconv.FormatInt(int64(k), 10), true
	case int32:
		return strconv.FormatInt(int64(k), 10), true
	case int64:
		return strconv.FormatInt(k, 10), true
	case uint:
		return strconv.FormatUint(uint64(k), 10), true
	case uint8:
		return strconv.FormatUint(uint64(k), 10), true
	case uint16:
		return strconv.FormatUint(uint64(k), 10), true
	case uint32:
		return strconv.FormatUint(uint64(k), 10), true
	case uint64:
		return strconv.FormatUint(k, 10), true
	}
	return "", false
}

// canonical serializes a composite key deterministically: encoding/json
// sorts map keys and detects cycles, which is exactly the stability this
// needs.
func canonical(key any) (string, error) {
	b, err := json.Marshal(key)
	if err != nil {
		return "", &ErrUnserializable{Err: err}
	}
	return string(b), nil
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// IsAlnum reports whether s is non-empty and contains only ASCII letters
// and digits. Exported for key-prefix validation.
func IsAlnum(s string) bool { return isAlnum(s) }

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
