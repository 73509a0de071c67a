package core

import (
	"context"

	"github.com/hupe1980/dialogform/schema"
)

// RepairRequest carries everything a repair collaborator needs to propose a
// corrected value after a validation failure: the field's identity and
// human-readable description, the rejected candidate, the structured
// violations and the recent conversation the candidate was extracted from.
type RepairRequest struct {
	FieldName        string
	FieldDescription string
	RejectedValue    any
	Violations       schema.Violations
	Conversation     []Message
}

// RepairOutcome is the collaborator's answer: either a proposed corrected
// value, or Defer signalling that no correction should be forced now and the
// conversation should resume instead.
type RepairOutcome struct {
	Value any
	Defer bool
}

// RepairAgent proposes corrected field values after validation failures.
//
// Implementations are treated as black boxes: errors and timeouts returned
// from Propose consume one retry attempt but are never surfaced to the
// artifact's caller, and the update controller bounds total attempts via its
// retry budget regardless of agent behavior. Propose is the only suspension
// point of an update call; the supplied context carries caller deadlines.
type RepairAgent interface {
	Propose(ctx context.Context, req RepairRequest) (RepairOutcome, error)
}
