package memocache

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable matches every failure reported by the provider.
	ErrBackendUnavailable = errors.New("memocache: backend unavailable")
	// ErrDecode matches every failure to decode a stored value.
	ErrDecode = errors.New("memocache: decode failed")
	// ErrSerialization matches every failure to encode a value for storage.
	ErrSerialization = errors.New("memocache: serialization failed")
	// ErrNilDestination is returned by Get when dst is nil.
	ErrNilDestination = errors.New("memocache: nil destination")
)

// StoreError wraps a provider failure with the operation and storage key.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("memocache: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrBackendUnavailable, e.Err} }

// DecodeError reports a stored value that could not be decoded.
// The entry is left in place.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("memocache: decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("memocache: encode %q: %v", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() []error { return []error{ErrSerialization, e.Err} }
