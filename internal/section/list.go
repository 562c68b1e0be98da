// Package section implements add, update and remove for the list sections of
// a CV document. Every function returns a new slice and leaves its input
// untouched; a miss on id or index returns the input as is.
package section

import (
	"fmt"
	"slices"
)

type record interface {
	RecordID() string
}

func indexOf[T record](list []T, id string) int {
	return slices.IndexFunc(list, func(r T) bool { return r.RecordID() == id })
}

func appendRecord[T any](list []T, r T) []T {
	out := make([]T, len(list), len(list)+1)
	copy(out, list)
	return append(out, r)
}

func updateRecord[T record](list []T, id string, set func(*T)) []T {
	i := indexOf(list, id)
	if i < 0 {
		return list
	}
	out := slices.Clone(list)
	set(&out[i])
	return out
}

func removeRecord[T record](list []T, id string) []T {
	i := indexOf(list, id)
	if i < 0 {
		return list
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

// UnknownFieldError is returned by the Parse*Field functions.
type UnknownFieldError struct {
	Entity string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s has no editable field %q", e.Entity, e.Field)
}
