package domain

import "github.com/oapi-codegen/nullable"

// valueOr returns the supplied value, or fallback when the field was absent.
// Callers reject or handle explicit null first.
func valueOr[T any](n nullable.Nullable[T], fallback T) T {
	if v, err := n.Get(); err == nil {
		return v
	}
	return fallback
}
