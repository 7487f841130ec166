package application

import "strings"

// Optional marks a request field as present or absent. Absent fields leave
// the stored value untouched during partial updates.
type Optional[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Optional[T] { return Optional[T]{value: v, ok: true} }

func None[T any]() Optional[T] { return Optional[T]{} }

func (o Optional[T]) Get() (T, bool) { return o.value, o.ok }

func (o Optional[T]) IsSet() bool { return o.ok }

// OptionalString trims s; an empty result is treated as absent.
func OptionalString(s string) Optional[string] {
	s = strings.TrimSpace(s)
	if s == "" {
		return None[string]()
	}
	return Some(s)
}
