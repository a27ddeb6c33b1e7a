package models

import (
	"bytes"
	"encoding/json"
)

// Nullable is a partial-update value that tells an absent JSON key apart
// from an explicit null. Set is true whenever the key was present; Value is
// nil when that key carried null.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some returns a Nullable holding v
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a Nullable that clears the column
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// IsNull reports whether the key was present with a null value
func (n Nullable[T]) IsNull() bool {
	return n.Set && n.Value == nil
}

// UnmarshalJSON is only invoked for keys present in the document, null included.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// column returns the value to write, nil meaning SQL NULL
func (n Nullable[T]) column() any {
	if n.Value == nil {
		return nil
	}
	return *n.Value
}
