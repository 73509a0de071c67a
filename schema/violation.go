package schema

import (
	"fmt"
	"strings"
)

// Constraint identifiers carried by Violations. Repair agents receive these
// verbatim, so they form part of the public contract.
const (
	ConstraintType         = "type"
	ConstraintPattern      = "pattern"
	ConstraintMin          = "min"
	ConstraintMax          = "max"
	ConstraintEnum         = "enum"
	ConstraintMinItems     = "min_items"
	ConstraintMaxItems     = "max_items"
	ConstraintRequired     = "required"
	ConstraintNumericParse = "numeric_parse"
	ConstraintUnknownField = "unknown_field"
)

// Violation describes a single constraint failure: where it happened (Path,
// dotted with [i] indices for list elements), which constraint was violated,
// the value that was received and a human-readable message suitable for
// repair prompting.
type Violation struct {
	Path       string `json:"path"`
	Constraint string `json:"constraint"`
	Value      any    `json:"value"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Violations is an ordered list of constraint failures produced by a single
// validation pass. Order is deterministic for identical inputs.
type Violations []Violation

// Error implements the error interface by joining individual messages.
func (vs Violations) Error() string {
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.Error()
	}
	return strings.Join(msgs, "; ")
}
