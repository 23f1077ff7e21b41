// Package optional models a value that may be absent, keeping "not given"
// apart from the zero value. Form drafts use it so that an empty price box
// and a price of 0 can both be reported, and a missing inventory snapshot
// is never mistaken for "0 in stock".
//
// JSON: null and a missing key decode to None; None encodes as null.
//
//	price := optional.Of(100.0)
//	if p, ok := price.Get(); ok { ... }
package optional

import (
	"bytes"
	"encoding/json"
)

// Value holds a T or nothing. The zero Value is None.
type Value[T any] struct {
	v  T
	ok bool
}

func Of[T any](v T) Value[T] { return Value[T]{v: v, ok: true} }

func None[T any]() Value[T] { return Value[T]{} }

// FromPtr converts a nil-able pointer.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return None[T]()
	}
	return Of(*p)
}

func (o Value[T]) Get() (T, bool) { return o.v, o.ok }

func (o Value[T]) IsSet() bool { return o.ok }

// Or returns the value, or fallback when absent.
func (o Value[T]) Or(fallback T) T {
	if o.ok {
		return o.v
	}
	return fallback
}

// Ptr returns nil when absent.
func (o Value[T]) Ptr() *T {
	if !o.ok {
		return nil
	}
	v := o.v
	return &v
}

// Interface returns the held value as any, or nil when absent. Validators
// use it to see through the wrapper.
func (o Value[T]) Interface() any {
	if !o.ok {
		return nil
	}
	return o.v
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Of(v)
	return nil
}
