package model

import (
	"bytes"
	"encoding/json"
)

// Optional wraps a field that may be absent from a request, explicitly
// null, or carry a value. Absent and null are distinct states, so a
// partial update can tell "leave unchanged" apart from "clear".
type Optional[T any] struct {
	Value T
	Set   bool // the key was present in the input
	Null  bool // the key was present and explicitly null
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns an Optional that was explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked for keys present in the input, so a
// zero Optional means the field was never sent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
