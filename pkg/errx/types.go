package errx

// Type represents the category of error
type Type string

const (
	// TypeInternal represents internal failures, including local disk I/O
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents input rejected before any I/O happens
	TypeValidation Type = "VALIDATION"

	// TypeUnavailable represents a service that was not configured at startup
	TypeUnavailable Type = "UNAVAILABLE"

	// TypeExternal represents errors from external providers (email API, object store)
	TypeExternal Type = "EXTERNAL"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}
