// Package ptrx has helpers for the optional pointer fields SDK parameter
// structs use.
package ptrx

// Of returns a pointer to v.
func Of[T any](v T) *T {
	return &v
}

// Bool returns a pointer value for the bool value passed in.
func Bool(v bool) *bool {
	return &v
}

// String returns a pointer value for the string value passed in.
func String(v string) *string {
	return &v
}

// Value returns the value v points to, or the zero value for nil.
func Value[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}

// ValueOr returns the value v points to, or def for nil.
func ValueOr[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
