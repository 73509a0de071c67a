// Package repair contains implementations of the core.RepairAgent contract:
// collaborators that propose corrected field values after a validation
// failure, or signal that the conversation should resume instead.
//
// ModelAgent is the production implementation: it renders the field
// description, the structured violations, the rejected candidate and the
// recent conversation into a prompt, sends it to a completion model and
// parses a strict JSON reply. StaticAgent and AgentFunc serve tests and
// deterministic examples.
//
// The artifact's update controller bounds total attempts via its retry
// budget regardless of agent behavior, so no implementation here can cause
// unbounded looping.
package repair
