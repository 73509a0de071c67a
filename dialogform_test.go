package dialogform

import (
	"context"
	"testing"

	"github.com/hupe1980/dialogform/artifact"
	"github.com/hupe1980/dialogform/core"
	"github.com/hupe1980/dialogform/internal/testutil"
	"github.com/hupe1980/dialogform/model"
	"github.com/hupe1980/dialogform/repair"
	"github.com/hupe1980/dialogform/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_CommitAppendsAuditMessage(t *testing.T) {
	form := New(testutil.IncidentDescriptor(), model.NewMockModel("mock", "mock"))

	form.Say(core.RoleUser, "The checkout page is down.")
	result := form.Update(context.Background(), "title", "Checkout outage")

	require.True(t, result.UpdateSuccessful)
	assert.Equal(t, "Checkout outage", result.Value)

	msgs := form.Conversation()
	require.Len(t, msgs, 2)
	assert.Equal(t, core.RoleUser, msgs[0].Role)
	assert.Equal(t, core.RoleAssistant, msgs[1].Role)
	assert.Equal(t, `Field "title" updated to "Checkout outage".`, msgs[1].Text)
}

func TestForm_DefaultRepairAgentFixesCandidate(t *testing.T) {
	mm := model.NewMockModel("mock", "mock")
	mm.EnqueueResponse(`{"value": 3}`)
	form := New(testutil.IncidentDescriptor(), mm)

	form.Say(core.RoleUser, "It started about three hours ago.")
	result := form.Update(context.Background(), "incident_start", "3 hours")

	require.True(t, result.UpdateSuccessful)
	assert.Equal(t, int64(3), result.Value)
	assert.Equal(t, int64(3), form.ForPrompt()["incident_start"])
}

func TestForm_StaticAgentOverride(t *testing.T) {
	agent := repair.NewStaticAgent().WithProposal("email", "jdoe@example.com")
	form := New(testutil.IncidentDescriptor(), nil, func(o *Options) {
		o.RepairAgent = agent
	})

	result := form.Update(context.Background(), "email", "jdoe")

	require.True(t, result.UpdateSuccessful)
	assert.Equal(t, "jdoe@example.com", result.Value)
}

func TestForm_ExhaustionAppendsSkipMessage(t *testing.T) {
	agent := repair.NewStaticAgent().WithDefer("email")
	form := New(testutil.IncidentDescriptor(), nil, func(o *Options) {
		o.RepairAgent = agent
		o.MaxFieldRetries = 1
	})

	result := form.Update(context.Background(), "email", "jdoe")
	assert.False(t, result.UpdateSuccessful)
	assert.Empty(t, result.Messages, "failed attempts within budget stay silent")

	result = form.Update(context.Background(), "email", "jdoe")
	assert.False(t, result.UpdateSuccessful)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, `Updating field "email" failed too many times. Skipping.`, result.Messages[0].Text)

	msgs := form.Conversation()
	require.Len(t, msgs, 1)
	assert.Equal(t, result.Messages[0].Text, msgs[0].Text)
}

func TestForm_CompletionProgress(t *testing.T) {
	desc, err := schema.New(
		schema.FieldSpec{Name: "title", Kind: schema.StringKind{}},
		schema.FieldSpec{Name: "severity", Kind: schema.EnumKind{Values: []string{"low", "high"}}},
	)
	require.NoError(t, err)

	form := New(desc, model.NewMockModel("mock", "mock"))
	assert.False(t, form.Complete())
	assert.Equal(t, []string{"title", "severity"}, form.UnansweredFields())

	form.Update(context.Background(), "title", "Outage")
	assert.Equal(t, []string{"severity"}, form.UnansweredFields())

	form.Update(context.Background(), "severity", "high")
	assert.True(t, form.Complete())
	assert.Empty(t, form.UnansweredFields())
}

func TestForm_ContextWindowLimitsRepairTranscript(t *testing.T) {
	var seen []core.Message
	agent := repair.AgentFunc(func(_ context.Context, req core.RepairRequest) (core.RepairOutcome, error) {
		seen = req.Conversation
		return core.RepairOutcome{Defer: true}, nil
	})
	form := New(testutil.IncidentDescriptor(), nil, func(o *Options) {
		o.RepairAgent = agent
		o.ContextWindow = 2
	})

	form.Say(core.RoleUser, "first")
	form.Say(core.RoleAssistant, "second")
	form.Say(core.RoleUser, "third")

	form.Update(context.Background(), "email", "jdoe")

	require.Len(t, seen, 2)
	assert.Equal(t, "second", seen[0].Text)
	assert.Equal(t, "third", seen[1].Text)
}

func TestForm_CommitsPersistToStore(t *testing.T) {
	store := artifact.NewInMemoryStore()
	form := New(testutil.IncidentDescriptor(), model.NewMockModel("mock", "mock"), func(o *Options) {
		o.Store = store
		o.SessionID = "s1"
	})

	result := form.Update(context.Background(), "title", "Checkout outage")
	require.True(t, result.UpdateSuccessful)

	data, err := store.Get("s1", form.Artifact().ID())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title":"Checkout outage"`)
	assert.Contains(t, string(data), schema.UnansweredString)
}
