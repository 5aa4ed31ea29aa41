package types

import "encoding/json"

// Optional distinguishes a JSON field that was absent from one that was
// explicitly null and from one carrying a value. Partial-update payloads rely
// on this: absent means "leave alone", null means "clear".
type Optional[T any] struct {
	present bool
	null    bool
	value   T
}

// NewOptional returns a present Optional holding value.
func NewOptional[T any](value T) Optional[T] {
	return Optional[T]{present: true, value: value}
}

// NullOptional returns a present Optional holding an explicit null.
func NullOptional[T any]() Optional[T] {
	return Optional[T]{present: true, null: true}
}

// Present reports whether the field appeared in the payload at all.
func (o Optional[T]) Present() bool {
	return o.present
}

// Null reports whether the field was an explicit JSON null.
func (o Optional[T]) Null() bool {
	return o.present && o.null
}

// Value returns the decoded value and whether one was supplied (present and
// not null).
func (o Optional[T]) Value() (T, bool) {
	if !o.present || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the field is
// present, which is what makes the absent/null distinction observable.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if string(data) == "null" {
		o.null = true
		return nil
	}
	return json.Unmarshal(data, &o.value)
}

// MarshalJSON implements json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
