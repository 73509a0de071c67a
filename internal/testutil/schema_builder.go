package testutil

import (
	"fmt"

	"github.com/hupe1980/dialogform/core"
	"github.com/hupe1980/dialogform/schema"
)

// EmailPattern matches a minimal mailbox shape, enough to reject bare
// usernames like "jdoe".
const EmailPattern = `^[^@\s]+@[^@\s]+\.[^@\s]+$`

// IncidentDescriptor builds the schema used across tests: one field per
// kind, including a nested list-of-objects.
func IncidentDescriptor() *schema.Descriptor {
	desc, err := schema.New(
		schema.FieldSpec{
			Name:        "title",
			Description: "Short incident title",
			Kind:        schema.StringKind{},
		},
		schema.FieldSpec{
			Name:        "severity",
			Description: "Triage severity",
			Kind:        schema.EnumKind{Values: []string{"low", "medium", "high", "critical"}},
		},
		schema.FieldSpec{
			Name:        "incident_start",
			Description: "Hours since the incident began",
			Kind:        schema.IntegerKind{Min: schema.Int64(0)},
		},
		schema.FieldSpec{
			Name:        "email",
			Description: "Reporter contact email",
			Kind:        schema.StringKind{Pattern: EmailPattern},
		},
		schema.FieldSpec{
			Name:        "impact_score",
			Description: "Estimated impact between 0 and 1",
			Kind:        schema.NumberKind{Min: schema.Float64(0), Max: schema.Float64(1)},
		},
		schema.FieldSpec{
			Name:        "customer_facing",
			Description: "Whether customers are affected",
			Kind:        schema.BoolKind{},
		},
		schema.FieldSpec{
			Name:        "contacts",
			Description: "People involved in the incident",
			Kind: schema.ListKind{
				MinItems: 1,
				Elem: schema.ObjectKind{Fields: []schema.FieldSpec{
					{Name: "name", Description: "Contact name", Required: true, Kind: schema.StringKind{}},
					{Name: "role", Description: "Contact role", Kind: schema.EnumKind{Values: []string{"reporter", "responder", "owner"}}},
				}},
			},
		},
	)
	if err != nil {
		panic(fmt.Sprintf("testutil: build incident descriptor: %v", err))
	}
	return desc
}

// IncidentConversation returns a short transcript fixture.
func IncidentConversation() []core.Message {
	return []core.Message{
		core.NewUserMessage("Our checkout page started failing about three hours ago."),
		core.NewAssistantMessage("Understood. Who should we contact about this incident?"),
		core.NewUserMessage("Reach me at jdoe@example.com, I'm the reporter."),
	}
}
