package artifact

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hupe1980/dialogform/core"
	"github.com/hupe1980/dialogform/internal/testutil"
	"github.com/hupe1980/dialogform/repair"
	"github.com/hupe1980/dialogform/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingAgent wraps another agent and records consultations per field.
type countingAgent struct {
	inner core.RepairAgent
	calls map[string]int
}

func newCountingAgent(inner core.RepairAgent) *countingAgent {
	return &countingAgent{inner: inner, calls: map[string]int{}}
}

func (a *countingAgent) Propose(ctx context.Context, req core.RepairRequest) (core.RepairOutcome, error) {
	a.calls[req.FieldName]++
	return a.inner.Propose(ctx, req)
}

func TestArtifact_InitialState(t *testing.T) {
	desc := testutil.IncidentDescriptor()
	art := New(desc, nil)

	snapshot := art.ForPrompt()
	require.Len(t, snapshot, desc.Len())
	for _, name := range desc.Names() {
		assert.Equal(t, schema.UnansweredString, snapshot[name], "field %s", name)
	}
	assert.Equal(t, desc.Names(), art.UnansweredFields())
	assert.False(t, art.Complete())
}

func TestArtifact_UnknownFieldMutatesNothing(t *testing.T) {
	art := New(testutil.IncidentDescriptor(), nil)
	before := art.ForPrompt()

	result := art.Update(context.Background(), "not_a_field", "anything", nil)

	assert.False(t, result.UpdateSuccessful)
	assert.Empty(t, result.Messages)
	assert.Empty(t, cmp.Diff(before, art.ForPrompt()))
	for name, n := range art.retries {
		assert.Zero(t, n, "retry counter for %s", name)
	}
}

func TestArtifact_CommitValidValue(t *testing.T) {
	art := New(testutil.IncidentDescriptor(), nil)

	result := art.Update(context.Background(), "severity", "high", nil)

	require.True(t, result.UpdateSuccessful)
	assert.Equal(t, "high", result.Value)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, core.RoleAssistant, result.Messages[0].Role)
	assert.Contains(t, result.Messages[0].Text, `Field "severity" updated to "high".`)
	assert.Equal(t, "high", art.ForPrompt()["severity"])
	assert.Zero(t, art.retries["severity"])
}

func TestArtifact_CommitNormalizesValue(t *testing.T) {
	art := New(testutil.IncidentDescriptor(), nil)

	// JSON-shaped float commits as int64 for an integer field.
	result := art.Update(context.Background(), "incident_start", float64(3), nil)

	require.True(t, result.UpdateSuccessful)
	assert.Equal(t, int64(3), result.Value)
	assert.Equal(t, int64(3), art.ForPrompt()["incident_start"])
}

func TestArtifact_RetryBudgetExhaustion(t *testing.T) {
	const maxRetries = 2

	// The agent keeps proposing the same invalid value: every call is
	// rejected, repaired and rejected again.
	agent := newCountingAgent(repair.NewStaticAgent().WithProposal("email", "still-not-an-email"))
	art := New(testutil.IncidentDescriptor(), agent, func(o *Options) {
		o.MaxFieldRetries = maxRetries
	})

	ctx := context.Background()

	// Calls 1..N fail without messages and commit nothing.
	for i := 1; i <= maxRetries; i++ {
		result := art.Update(ctx, "email", "jdoe", nil)
		assert.False(t, result.UpdateSuccessful, "call %d", i)
		assert.Empty(t, result.Messages, "call %d", i)
		assert.Equal(t, schema.UnansweredString, art.ForPrompt()["email"], "call %d", i)
		assert.Equal(t, i, art.retries["email"], "call %d", i)
	}

	// Call N+1 exhausts: field forced to Unanswered, counter reset,
	// terminal message emitted, agent not consulted again.
	result := art.Update(ctx, "email", "jdoe", nil)
	assert.False(t, result.UpdateSuccessful)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0].Text, `Updating field "email" failed too many times. Skipping.`)
	assert.Equal(t, schema.UnansweredString, art.ForPrompt()["email"])
	assert.Zero(t, art.retries["email"])
	assert.Equal(t, maxRetries, agent.calls["email"])
}

func TestArtifact_ZeroBudgetExhaustsImmediately(t *testing.T) {
	agent := newCountingAgent(repair.NewStaticAgent().WithProposal("email", "jdoe@example.com"))
	art := New(testutil.IncidentDescriptor(), agent, func(o *Options) {
		o.MaxFieldRetries = 0
	})

	result := art.Update(context.Background(), "email", "jdoe", nil)

	assert.False(t, result.UpdateSuccessful)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0].Text, "failed too many times")
	assert.Zero(t, agent.calls["email"], "agent must not be consulted once the budget is spent")
}

func TestArtifact_RepairProposalCommits(t *testing.T) {
	// Scenario: integer field receives "3 hours"; the agent proposes 3.
	agent := repair.NewStaticAgent().WithProposal("incident_start", 3)
	art := New(testutil.IncidentDescriptor(), agent)

	result := art.Update(context.Background(), "incident_start", "3 hours", testutil.IncidentConversation())

	require.True(t, result.UpdateSuccessful)
	assert.Equal(t, int64(3), result.Value)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0].Text, `Field "incident_start" updated to 3.`)
	assert.Equal(t, int64(3), art.ForPrompt()["incident_start"])
	assert.Zero(t, art.retries["incident_start"], "commit resets the counter")
}

func TestArtifact_DeferReturnsWithoutMessages(t *testing.T) {
	agent := repair.NewStaticAgent().WithDefer("email")
	art := New(testutil.IncidentDescriptor(), agent)

	result := art.Update(context.Background(), "email", "jdoe", nil)

	assert.False(t, result.UpdateSuccessful)
	assert.Empty(t, result.Messages)
	assert.Equal(t, schema.UnansweredString, art.ForPrompt()["email"])
	assert.Equal(t, 1, art.retries["email"], "defer still consumed the attempt")
}

func TestArtifact_AdapterFailureConsumesAttempt(t *testing.T) {
	agent := repair.AgentFunc(func(context.Context, core.RepairRequest) (core.RepairOutcome, error) {
		return core.RepairOutcome{}, fmt.Errorf("upstream timeout")
	})
	art := New(testutil.IncidentDescriptor(), agent)

	result := art.Update(context.Background(), "email", "jdoe", nil)

	assert.False(t, result.UpdateSuccessful)
	assert.Empty(t, result.Messages)
	assert.Equal(t, 1, art.retries["email"])
}

func TestArtifact_NilRepairerBehavesAsFailure(t *testing.T) {
	art := New(testutil.IncidentDescriptor(), nil, func(o *Options) {
		o.MaxFieldRetries = 1
	})

	result := art.Update(context.Background(), "email", "jdoe", nil)
	assert.False(t, result.UpdateSuccessful)
	assert.Empty(t, result.Messages)

	result = art.Update(context.Background(), "email", "jdoe", nil)
	assert.False(t, result.UpdateSuccessful)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0].Text, "failed too many times")
}

func TestArtifact_CommitAfterFailuresResetsCounter(t *testing.T) {
	agent := repair.NewStaticAgent().WithDefer("email")
	art := New(testutil.IncidentDescriptor(), agent, func(o *Options) {
		o.MaxFieldRetries = 3
	})
	ctx := context.Background()

	art.Update(ctx, "email", "jdoe", nil)
	art.Update(ctx, "email", "jdoe", nil)
	require.Equal(t, 2, art.retries["email"])

	result := art.Update(ctx, "email", "jdoe@example.com", nil)
	require.True(t, result.UpdateSuccessful)
	assert.Zero(t, art.retries["email"])

	// The budget is fresh again after the commit.
	for i := 1; i <= 3; i++ {
		r := art.Update(ctx, "email", "jdoe", nil)
		assert.Empty(t, r.Messages, "call %d", i)
	}
	r := art.Update(ctx, "email", "jdoe", nil)
	require.Len(t, r.Messages, 1)
	assert.Contains(t, r.Messages[0].Text, "failed too many times")
}

func TestArtifact_ProjectionStability(t *testing.T) {
	art := New(testutil.IncidentDescriptor(), nil)
	art.Update(context.Background(), "title", "Checkout outage", nil)

	first := art.ForPrompt()
	second := art.ForPrompt()
	assert.Empty(t, cmp.Diff(first, second))

	// Mutating a projection never leaks back into state.
	first["title"] = "tampered"
	assert.Equal(t, "Checkout outage", art.ForPrompt()["title"])
}

func TestArtifact_NestedStructuralRoundTrip(t *testing.T) {
	art := New(testutil.IncidentDescriptor(), nil)

	contacts := []any{
		map[string]any{"name": "Ada", "role": "reporter"},
		map[string]any{"name": "Grace", "role": "responder"},
	}
	result := art.Update(context.Background(), "contacts", contacts, nil)
	require.True(t, result.UpdateSuccessful)

	got := art.ForPrompt()["contacts"]
	assert.Empty(t, cmp.Diff(contacts, got))

	// Deep-copy isolation for nested shapes.
	got.([]any)[0].(map[string]any)["name"] = "tampered"
	assert.Empty(t, cmp.Diff(contacts, art.ForPrompt()["contacts"]))
}

func TestArtifact_ScenarioB_EmailExhaustion(t *testing.T) {
	// Three consecutive "jdoe" calls with a budget of 2 end with the field
	// Unanswered and the third call carrying the exhaustion message.
	agent := repair.NewStaticAgent().WithProposal("email", "jdoe")
	art := New(testutil.IncidentDescriptor(), agent, func(o *Options) {
		o.MaxFieldRetries = 2
	})
	ctx := context.Background()

	r1 := art.Update(ctx, "email", "jdoe", nil)
	r2 := art.Update(ctx, "email", "jdoe", nil)
	r3 := art.Update(ctx, "email", "jdoe", nil)

	assert.False(t, r1.UpdateSuccessful)
	assert.False(t, r2.UpdateSuccessful)
	assert.False(t, r3.UpdateSuccessful)
	assert.Empty(t, r1.Messages)
	assert.Empty(t, r2.Messages)
	require.Len(t, r3.Messages, 1)
	assert.Contains(t, r3.Messages[0].Text, "failed too many times")
	assert.Equal(t, schema.UnansweredString, art.ForPrompt()["email"])
}

func TestArtifact_ScenarioC_DeterministicReplay(t *testing.T) {
	desc := testutil.IncidentDescriptor()
	newAgent := func() core.RepairAgent {
		return repair.NewStaticAgent().
			WithProposal("incident_start", 3).
			WithProposal("email", "jdoe@example.com").
			WithDefer("severity")
	}

	run := func(art *Artifact) {
		ctx := context.Background()
		conv := testutil.IncidentConversation()
		art.Update(ctx, "title", "Checkout outage", conv)
		art.Update(ctx, "incident_start", "3 hours", conv)
		art.Update(ctx, "severity", "catastrophic", conv)
		art.Update(ctx, "email", "jdoe", conv)
		art.Update(ctx, "customer_facing", "true", conv)
		art.Update(ctx, "contacts", []any{map[string]any{"name": "Ada"}}, conv)
	}

	a := New(desc, newAgent())
	b := New(desc, newAgent())
	run(a)
	run(b)

	assert.Empty(t, cmp.Diff(a.ForPrompt(), b.ForPrompt()))
}

func TestArtifact_SnapshotPersistedOnCommitAndExhaustion(t *testing.T) {
	store := NewInMemoryStore()
	art := New(testutil.IncidentDescriptor(), nil, func(o *Options) {
		o.MaxFieldRetries = 0
		o.Store = store
		o.SessionID = "s1"
		o.ArtifactID = "a1"
	})
	ctx := context.Background()

	art.Update(ctx, "title", "Checkout outage", nil)
	data, err := store.Get("s1", "a1")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Checkout outage")

	// Exhaustion resets also persist.
	art.Update(ctx, "title", 42, nil)
	data, err = store.Get("s1", "a1")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Checkout outage")
}

func TestArtifact_SnapshotRestoreRoundTrip(t *testing.T) {
	desc := testutil.IncidentDescriptor()
	art := New(desc, nil)
	ctx := context.Background()

	art.Update(ctx, "title", "Checkout outage", nil)
	art.Update(ctx, "incident_start", 3, nil)
	art.Update(ctx, "contacts", []any{map[string]any{"name": "Ada"}}, nil)

	data, err := art.Snapshot()
	require.NoError(t, err)

	restored := New(desc, nil)
	require.NoError(t, restored.Restore(data))
	assert.Empty(t, cmp.Diff(art.ForPrompt(), restored.ForPrompt()))
}

func TestArtifact_RestoreRejectsBadSnapshots(t *testing.T) {
	art := New(testutil.IncidentDescriptor(), nil)

	err := art.Restore([]byte(`{"bogus_field": 1}`))
	assert.ErrorIs(t, err, ErrUnknownField)

	err = art.Restore([]byte(`{"severity": "catastrophic"}`))
	require.Error(t, err)

	// Failed restores leave state untouched.
	assert.Equal(t, schema.UnansweredString, art.ForPrompt()["severity"])
}

func TestArtifact_LoadFromStore(t *testing.T) {
	desc := testutil.IncidentDescriptor()
	store := NewInMemoryStore()

	art := New(desc, nil, func(o *Options) {
		o.Store = store
		o.SessionID = "s1"
		o.ArtifactID = "a1"
	})
	art.Update(context.Background(), "severity", "high", nil)

	fresh := New(desc, nil, func(o *Options) {
		o.Store = store
		o.SessionID = "s1"
		o.ArtifactID = "a1"
	})
	require.NoError(t, fresh.Load())
	assert.Equal(t, "high", fresh.ForPrompt()["severity"])

	bare := New(desc, nil)
	assert.ErrorIs(t, bare.Load(), ErrNoStore)
}
