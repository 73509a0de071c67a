package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/dialogform/core"
	"github.com/hupe1980/dialogform/logging"
	"github.com/hupe1980/dialogform/schema"
)

// DefaultMaxFieldRetries is the per-field retry budget used when none is
// configured.
const DefaultMaxFieldRetries = 3

// Options configures an Artifact instance.
type Options struct {
	// MaxFieldRetries is the per-field retry budget: with a budget of N, the
	// (N+1)-th consecutive failing update of the same field forces the field
	// back to Unanswered. Zero exhausts on the first failing call without
	// consulting the repair agent. Negative values fall back to the default.
	MaxFieldRetries int

	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger

	// Store, when set, receives a JSON snapshot after every commit and every
	// exhaustion reset. Store errors are logged, never raised.
	Store core.ArtifactStore

	// SessionID / ArtifactID scope snapshots in the store. ArtifactID is
	// generated when empty.
	SessionID  string
	ArtifactID string
}

// Artifact is the mutable working-memory record. Its state maps every
// declared field name to either the Unanswered sentinel or a fully
// schema-conformant value; the key set always equals the descriptor's field
// names. Update is the sole mutation point.
//
// Instances are not safe for concurrent use: a single logical owner must
// serialize updates (at most one in-flight update per instance).
type Artifact struct {
	desc     *schema.Descriptor
	repairer core.RepairAgent
	state    map[string]any
	retries  map[string]int
	opts     Options
}

// New creates an Artifact bound to the given schema, with every field
// initialized to Unanswered and all retry counters at zero. The repairer may
// be nil, in which case every rejected candidate consumes a retry attempt
// without a correction proposal.
func New(desc *schema.Descriptor, repairer core.RepairAgent, optFns ...func(o *Options)) *Artifact {
	opts := Options{
		MaxFieldRetries: DefaultMaxFieldRetries,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxFieldRetries < 0 {
		opts.MaxFieldRetries = DefaultMaxFieldRetries
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.ArtifactID == "" {
		opts.ArtifactID = core.NewID()
	}

	a := &Artifact{
		desc:     desc,
		repairer: repairer,
		state:    make(map[string]any, desc.Len()),
		retries:  make(map[string]int, desc.Len()),
		opts:     opts,
	}
	for _, name := range desc.Names() {
		a.state[name] = schema.Unanswered
		a.retries[name] = 0
	}
	return a
}

// Update runs the per-field update protocol for one candidate value:
//
//  1. An unknown field name mutates nothing and returns an unsuccessful
//     result with zero messages.
//  2. A candidate that validates is committed, the field's retry counter is
//     reset and a single success message is emitted.
//  3. A rejected candidate consumes one retry attempt. If the budget is
//     exhausted the field is forced back to Unanswered, the counter resets
//     and a terminal failure message is emitted. Otherwise the repair agent
//     is consulted once: a proposal that validates is committed as in (2); a
//     defer signal, an agent error or a proposal that fails validation ends
//     the call without messages, leaving the consumed attempt recorded.
//
// Validation and retry conditions never escape as errors; only the returned
// result reflects them. conversation is the transcript window the candidate
// was extracted from and is forwarded verbatim to the repair agent.
func (a *Artifact) Update(ctx context.Context, fieldName string, value any, conversation []core.Message) core.UpdateResult {
	spec, ok := a.desc.Field(fieldName)
	if !ok {
		a.opts.Logger.Warn("update for undeclared field", "field", fieldName)
		return core.UpdateResult{UpdateSuccessful: false, Messages: []core.Message{}}
	}

	normalized, violations := a.desc.Validate(fieldName, value)
	if violations == nil {
		return a.commit(fieldName, normalized)
	}

	a.retries[fieldName]++
	a.opts.Logger.Debug("field validation failed",
		"field", fieldName, "attempt", a.retries[fieldName], "violations", violations.Error())

	if a.retries[fieldName] > a.opts.MaxFieldRetries {
		return a.exhaust(fieldName)
	}

	outcome, err := a.propose(ctx, spec, value, violations, conversation)
	if err != nil {
		// Repair collaborator failures consume the attempt but are never
		// raised to the caller.
		a.opts.Logger.Warn("repair agent failed", "field", fieldName, "error", err.Error())
		return core.UpdateResult{UpdateSuccessful: false, Messages: []core.Message{}}
	}
	if outcome.Defer {
		a.opts.Logger.Debug("repair agent deferred", "field", fieldName)
		return core.UpdateResult{UpdateSuccessful: false, Messages: []core.Message{}}
	}

	normalized, violations = a.desc.Validate(fieldName, outcome.Value)
	if violations == nil {
		return a.commit(fieldName, normalized)
	}

	a.opts.Logger.Debug("repaired value still invalid",
		"field", fieldName, "violations", violations.Error())
	return core.UpdateResult{UpdateSuccessful: false, Messages: []core.Message{}}
}

// commit writes a validated value into state, resets the retry counter,
// persists a snapshot and emits the single success message for this call.
func (a *Artifact) commit(fieldName string, value any) core.UpdateResult {
	a.state[fieldName] = value
	a.retries[fieldName] = 0
	a.persist()
	a.opts.Logger.Info("field committed", "field", fieldName, "artifact_id", a.opts.ArtifactID)

	msg := core.NewAssistantMessage(fmt.Sprintf("Field %q updated to %s.", fieldName, renderValue(value)))
	return core.UpdateResult{
		UpdateSuccessful: true,
		Value:            value,
		Messages:         []core.Message{msg},
	}
}

// exhaust forces the field back to Unanswered after the retry budget was
// spent and emits the terminal failure message.
func (a *Artifact) exhaust(fieldName string) core.UpdateResult {
	a.state[fieldName] = schema.Unanswered
	a.retries[fieldName] = 0
	a.persist()
	a.opts.Logger.Warn("field retry budget exhausted", "field", fieldName, "artifact_id", a.opts.ArtifactID)

	msg := core.NewAssistantMessage(fmt.Sprintf("Updating field %q failed too many times. Skipping.", fieldName))
	return core.UpdateResult{UpdateSuccessful: false, Messages: []core.Message{msg}}
}

// propose consults the repair agent once. A nil repairer behaves like an
// agent failure so the consumed attempt still counts.
func (a *Artifact) propose(
	ctx context.Context,
	spec schema.FieldSpec,
	rejected any,
	violations schema.Violations,
	conversation []core.Message,
) (core.RepairOutcome, error) {
	if a.repairer == nil {
		return core.RepairOutcome{}, fmt.Errorf("no repair agent configured")
	}
	start := time.Now()
	outcome, err := a.repairer.Propose(ctx, core.RepairRequest{
		FieldName:        spec.Name,
		FieldDescription: spec.Description,
		RejectedValue:    rejected,
		Violations:       violations,
		Conversation:     conversation,
	})
	a.opts.Logger.Debug("repair agent consulted",
		"field", spec.Name, "duration", time.Since(start), "deferred", outcome.Defer, "success", err == nil)
	return outcome, err
}

// ForPrompt returns a read-only snapshot of the artifact state with
// Unanswered fields rendered as the literal sentinel string and committed
// fields in their validated structural form. Retry counters and validation
// detail are never exposed. The returned map is a deep copy; mutating it
// cannot affect the artifact.
func (a *Artifact) ForPrompt() map[string]any {
	snapshot := make(map[string]any, len(a.state))
	for name, value := range a.state {
		if schema.IsUnanswered(value) {
			snapshot[name] = schema.UnansweredString
			continue
		}
		snapshot[name] = deepCopyValue(value)
	}
	return snapshot
}

// UnansweredFields returns the names of fields still holding the sentinel,
// in schema declaration order.
func (a *Artifact) UnansweredFields() []string {
	var names []string
	for _, name := range a.desc.Names() {
		if schema.IsUnanswered(a.state[name]) {
			names = append(names, name)
		}
	}
	return names
}

// Complete reports whether every field holds a committed value.
func (a *Artifact) Complete() bool { return len(a.UnansweredFields()) == 0 }

// Descriptor returns the immutable schema the artifact is bound to.
func (a *Artifact) Descriptor() *schema.Descriptor { return a.desc }

// ID returns the artifact identifier used for snapshot persistence.
func (a *Artifact) ID() string { return a.opts.ArtifactID }

// Snapshot serializes the current state as JSON, with Unanswered fields
// rendered as the literal sentinel string.
func (a *Artifact) Snapshot() ([]byte, error) {
	return json.Marshal(a.ForPrompt())
}

// Restore replaces the artifact state from a snapshot produced by Snapshot.
// Every field is re-validated so restored state is never partially valid:
// an unknown field or an invalid value fails the whole restore and leaves
// the current state untouched. Retry counters reset to zero.
func (a *Artifact) Restore(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	next := make(map[string]any, a.desc.Len())
	for name := range raw {
		if _, ok := a.desc.Field(name); !ok {
			return fmt.Errorf("restore field %q: %w", name, ErrUnknownField)
		}
	}
	for _, name := range a.desc.Names() {
		value, present := raw[name]
		if !present || schema.IsUnanswered(value) {
			next[name] = schema.Unanswered
			continue
		}
		normalized, violations := a.desc.Validate(name, value)
		if violations != nil {
			return fmt.Errorf("restore field %q: %w", name, violations)
		}
		next[name] = normalized
	}

	a.state = next
	for name := range a.retries {
		a.retries[name] = 0
	}
	return nil
}

// Load hydrates the artifact from its configured snapshot store.
func (a *Artifact) Load() error {
	if a.opts.Store == nil {
		return ErrNoStore
	}
	data, err := a.opts.Store.Get(a.opts.SessionID, a.opts.ArtifactID)
	if err != nil {
		return err
	}
	return a.Restore(data)
}

// persist saves a snapshot to the configured store. Persistence is a side
// effect of commits and exhaustion resets; failures are logged and swallowed
// so they can never disturb update semantics.
func (a *Artifact) persist() {
	if a.opts.Store == nil {
		return
	}
	data, err := a.Snapshot()
	if err != nil {
		a.opts.Logger.Error("marshal artifact snapshot failed", "artifact_id", a.opts.ArtifactID, "error", err.Error())
		return
	}
	if err := a.opts.Store.Save(a.opts.SessionID, a.opts.ArtifactID, data); err != nil {
		a.opts.Logger.Error("persist artifact snapshot failed", "artifact_id", a.opts.ArtifactID, "error", err.Error())
	}
}

// renderValue formats a committed value for audit messages. Structured
// values render as compact JSON.
func renderValue(value any) string {
	if schema.IsUnanswered(value) {
		return schema.UnansweredString
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}

// deepCopyValue copies the nested map/slice shapes produced by validation so
// projections are isolated from internal state.
func deepCopyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		cp := make(map[string]any, len(v))
		for k, item := range v {
			cp[k] = deepCopyValue(item)
		}
		return cp
	case []any:
		cp := make([]any, len(v))
		for i, item := range v {
			cp[i] = deepCopyValue(item)
		}
		return cp
	default:
		// Scalars are immutable.
		return v
	}
}
