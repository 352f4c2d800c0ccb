package depcache

import (
	"fmt"
)

// InvalidKeyError reports a raw key that has no canonical serialized form
// (cyclic composite, func/chan members, and similar). Key holds the raw key
// for programmatic access; Error prints only its type, since the key itself
// may be unprintable (fmt recurses forever on a cyclic map).
type InvalidKeyError struct {
	Key any
	Err error
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("depcache: invalid key (%T): %v", e.Key, e.Err)
}

func (e *InvalidKeyError) Unwrap() error { return e.Err }

// InvalidConfigError reports a rejected Options field. Raised synchronously
// by New; the only current producer is a non-alphanumeric key prefix.
type InvalidConfigError struct {
	Option string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("depcache: invalid %s: %s", e.Option, e.Reason)
}

// SetFailedError is returned by GetOrSet when the value was computed but the
// store reported the write as unsuccessful. The computed value is carried so
// the caller can still use or retry it.
type SetFailedError struct {
	Key   any
	Value any
}

func (e *SetFailedError) Error() string {
	return fmt.Sprintf("depcache: store rejected write for key %v", e.Key)
}
