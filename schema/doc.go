// Package schema defines the field schema an artifact is validated against.
//
// A Descriptor is an immutable, ordered collection of FieldSpec entries built
// once at construction time. Malformed definitions (duplicate names, invalid
// patterns, empty enums, ...) fail construction and are never retried at
// update time. The supported field kinds form a closed, introspectable union
// (Kind) so validation is exhaustive rather than duck-typed.
//
// Validation is a pure function: the same (field, value) pair always yields
// the same normalized value or the same ordered list of Violations. The
// Unanswered sentinel is accepted for every field.
//
// Descriptors can be declared programmatically:
//
//	desc, err := schema.New(
//		schema.FieldSpec{Name: "email", Description: "Contact email", Kind: schema.StringKind{Pattern: `^[^@\s]+@[^@\s]+\.[^@\s]+$`}},
//		schema.FieldSpec{Name: "severity", Description: "Incident severity", Kind: schema.EnumKind{Values: []string{"low", "high"}}},
//	)
//
// or derived from a tagged Go struct via FromStruct.
package schema
