package schema

// Kind describes the type of a field as a closed union. Concrete kinds
// implement the unexported isKind marker so the set cannot be extended
// outside this package and validation can switch exhaustively.
type Kind interface{ isKind() }

// StringKind accepts string values, optionally constrained by a regular
// expression. The pattern is compiled at descriptor construction time;
// an invalid pattern fails construction, not validation.
type StringKind struct {
	Pattern string // optional RE2 pattern the value must match
}

// isKind implements the Kind interface for StringKind.
func (StringKind) isKind() {}

// IntegerKind accepts integer values. JSON-style whole floats and numeric
// strings are parsed and normalized to int64. Nil bounds are unbounded.
type IntegerKind struct {
	Min *int64
	Max *int64
}

// isKind implements the Kind interface for IntegerKind.
func (IntegerKind) isKind() {}

// NumberKind accepts numeric values normalized to float64. Nil bounds are
// unbounded.
type NumberKind struct {
	Min *float64
	Max *float64
}

// isKind implements the Kind interface for NumberKind.
func (NumberKind) isKind() {}

// BoolKind accepts boolean values. String forms understood by
// strconv.ParseBool are normalized to bool.
type BoolKind struct{}

// isKind implements the Kind interface for BoolKind.
func (BoolKind) isKind() {}

// EnumKind accepts exactly one of a closed set of string literals.
type EnumKind struct {
	Values []string
}

// isKind implements the Kind interface for EnumKind.
func (EnumKind) isKind() {}

// ListKind accepts a slice whose elements each conform to Elem. MinItems
// bounds the minimum length; a nil MaxItems leaves the upper bound open.
type ListKind struct {
	MinItems int
	MaxItems *int
	Elem     Kind
}

// isKind implements the Kind interface for ListKind.
func (ListKind) isKind() {}

// ObjectKind accepts a map[string]any whose members conform to the nested
// field specs. Members marked Required must be present; unknown members are
// rejected so committed values are always fully schema-conformant.
type ObjectKind struct {
	Fields []FieldSpec
}

// isKind implements the Kind interface for ObjectKind.
func (ObjectKind) isKind() {}

// FieldSpec declares a single named field: its kind, constraints and the
// human-readable description used to prompt repair after a rejection.
// Required only applies to members of an ObjectKind; top-level fields always
// exist in artifact state and default to the Unanswered sentinel.
type FieldSpec struct {
	Name        string
	Description string
	Required    bool
	Kind        Kind
}

// Int64 returns a pointer to v. Convenience for declaring integer bounds.
func Int64(v int64) *int64 { return &v }

// Float64 returns a pointer to v. Convenience for declaring numeric bounds.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v. Convenience for declaring list bounds.
func Int(v int) *int { return &v }
