// Package dialogform provides a high-level façade over the artifact update
// protocol and its collaborators (schema validation, repair agents,
// conversation transcript, snapshot stores & logging) enabling a
// conversational agent to maintain a schema-validated working-memory record.
// Most applications interact with this package by:
//  1. Declaring a schema (schema.New or schema.FromStruct)
//  2. Creating a Form via New() with a completion model (optionally
//     overriding the default in-memory store, logger or repair agent)
//  3. Recording conversation turns (Say) and proposing field values (Update)
//
// The façade delegates the update state machine to artifact.Artifact while
// keeping setup and transcript bookkeeping concise. All defaults are safe for
// local development and testing; production deployments typically supply a
// durable snapshot store and a structured logger.
package dialogform

import (
	"context"

	"github.com/hupe1980/dialogform/artifact"
	"github.com/hupe1980/dialogform/conversation"
	"github.com/hupe1980/dialogform/core"
	"github.com/hupe1980/dialogform/logging"
	"github.com/hupe1980/dialogform/model"
	"github.com/hupe1980/dialogform/repair"
	"github.com/hupe1980/dialogform/schema"
)

// Options configures the Form instance.
type Options struct {
	// MaxFieldRetries is the per-field retry budget (see artifact.Options).
	MaxFieldRetries int

	// MaxModelCalls bounds total repair completions across the Form's
	// lifetime. 0 means unlimited.
	MaxModelCalls int

	// ContextWindow is the number of trailing transcript messages passed to
	// the repair agent on each update.
	ContextWindow int

	// Store receives artifact snapshots (defaults to an in-memory store).
	Store core.ArtifactStore

	// SessionID scopes snapshots in the store.
	SessionID string

	// RepairAgent overrides the default model-backed agent. When set, the
	// completion model passed to New is only used if this is nil.
	RepairAgent core.RepairAgent

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Form is the high-level façade aggregating the artifact, its transcript and
// the repair collaborator. Like the underlying artifact it expects a single
// logical writer; callers must serialize Update calls.
type Form struct {
	artifact *artifact.Artifact
	log      *conversation.Log
	opts     Options
}

// New creates a Form bound to the given schema. completion backs the default
// model-backed repair agent; it may be nil when Options.RepairAgent is
// supplied instead. Any unset service is initialized with an in-memory or
// no-op implementation.
func New(desc *schema.Descriptor, completion model.Model, optFns ...func(o *Options)) *Form {
	opts := Options{
		MaxFieldRetries: artifact.DefaultMaxFieldRetries,
		ContextWindow:   10,
		Store:           artifact.NewInMemoryStore(),
		SessionID:       core.NewID(),
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	repairer := opts.RepairAgent
	if repairer == nil && completion != nil {
		repairer = repair.NewModelAgent(completion, func(o *repair.ModelAgentOptions) {
			if opts.MaxModelCalls > 0 {
				o.Limiter = core.NewCallLimiter(opts.MaxModelCalls)
			}
			o.Logger = opts.Logger
		})
	}

	art := artifact.New(desc, repairer, func(o *artifact.Options) {
		o.MaxFieldRetries = opts.MaxFieldRetries
		o.Logger = opts.Logger
		o.Store = opts.Store
		o.SessionID = opts.SessionID
	})

	return &Form{artifact: art, log: conversation.NewLog(), opts: opts}
}

// Say appends a conversation turn to the transcript.
func (f *Form) Say(role, text string) { f.log.Say(role, text) }

// Update proposes a value for a field. The recent transcript window is
// passed to the repair agent as conversation context, and any audit messages
// produced by the call are appended to the transcript before returning.
func (f *Form) Update(ctx context.Context, fieldName string, value any) core.UpdateResult {
	result := f.artifact.Update(ctx, fieldName, value, f.log.Tail(f.opts.ContextWindow))
	f.log.AppendAll(result.Messages...)
	return result
}

// ForPrompt returns the artifact projection for prompt construction.
func (f *Form) ForPrompt() map[string]any { return f.artifact.ForPrompt() }

// UnansweredFields returns the fields still holding the Unanswered sentinel,
// in schema order.
func (f *Form) UnansweredFields() []string { return f.artifact.UnansweredFields() }

// Complete reports whether every field holds a committed value.
func (f *Form) Complete() bool { return f.artifact.Complete() }

// Conversation returns a copy of the transcript, audit messages included.
func (f *Form) Conversation() []core.Message { return f.log.Messages() }

// Artifact exposes the underlying artifact for advanced use (Snapshot,
// Restore, Load).
func (f *Form) Artifact() *artifact.Artifact { return f.artifact }
