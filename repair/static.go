package repair

import (
	"context"
	"fmt"

	"github.com/hupe1980/dialogform/core"
)

// AgentFunc adapts a plain function to the core.RepairAgent interface.
type AgentFunc func(ctx context.Context, req core.RepairRequest) (core.RepairOutcome, error)

// Propose implements core.RepairAgent.
func (f AgentFunc) Propose(ctx context.Context, req core.RepairRequest) (core.RepairOutcome, error) {
	return f(ctx, req)
}

// Interface compliance (compile-time assertions)
var (
	_ core.RepairAgent = (AgentFunc)(nil)
	_ core.RepairAgent = (*StaticAgent)(nil)
)

// StaticAgent answers repair consultations from a fixed per-field table.
// Deterministic by construction, it backs tests and offline examples. A
// consultation for a field with no configured behavior returns an error,
// which the update controller counts as a consumed attempt.
type StaticAgent struct {
	proposals map[string]any
	defers    map[string]bool
}

// NewStaticAgent creates an empty static agent.
func NewStaticAgent() *StaticAgent {
	return &StaticAgent{
		proposals: make(map[string]any),
		defers:    make(map[string]bool),
	}
}

// WithProposal registers the value proposed for every consultation of the
// field. Returns the agent for chaining.
func (a *StaticAgent) WithProposal(field string, value any) *StaticAgent {
	a.proposals[field] = value
	return a
}

// WithDefer makes every consultation of the field defer to the conversation.
// Returns the agent for chaining.
func (a *StaticAgent) WithDefer(field string) *StaticAgent {
	a.defers[field] = true
	return a
}

// Propose implements core.RepairAgent.
func (a *StaticAgent) Propose(_ context.Context, req core.RepairRequest) (core.RepairOutcome, error) {
	if a.defers[req.FieldName] {
		return core.RepairOutcome{Defer: true}, nil
	}
	if value, ok := a.proposals[req.FieldName]; ok {
		return core.RepairOutcome{Value: value}, nil
	}
	return core.RepairOutcome{}, fmt.Errorf("no proposal configured for field %q", req.FieldName)
}
