package schema

import "errors"

// Construction-time configuration errors. These are fatal: a Descriptor is
// either fully valid or never built, so update-time code can assume a
// consistent schema.
var (
	// ErrNoFields is returned when a descriptor declares no fields at all.
	ErrNoFields = errors.New("schema: descriptor must declare at least one field")

	// ErrEmptyFieldName is returned when a field spec has an empty name.
	ErrEmptyFieldName = errors.New("schema: field name must not be empty")

	// ErrDuplicateField is returned when two fields at the same level share a name.
	ErrDuplicateField = errors.New("schema: duplicate field name")

	// ErrMissingKind is returned when a field spec has a nil kind.
	ErrMissingKind = errors.New("schema: field kind must not be nil")

	// ErrEmptyEnum is returned when an enum kind declares no values.
	ErrEmptyEnum = errors.New("schema: enum must declare at least one value")

	// ErrInvalidPattern is returned when a string pattern does not compile.
	ErrInvalidPattern = errors.New("schema: invalid pattern")

	// ErrInvalidBounds is returned when a min bound exceeds its max bound.
	ErrInvalidBounds = errors.New("schema: min bound exceeds max bound")

	// ErrInvalidListBounds is returned for negative or inverted list length bounds.
	ErrInvalidListBounds = errors.New("schema: invalid list length bounds")

	// ErrUnsupportedType is returned by FromStruct for Go types that have no
	// corresponding field kind.
	ErrUnsupportedType = errors.New("schema: unsupported type")
)
