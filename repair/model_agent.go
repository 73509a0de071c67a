package repair

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/dialogform/core"
	"github.com/hupe1980/dialogform/internal/util"
	"github.com/hupe1980/dialogform/logging"
	"github.com/hupe1980/dialogform/model"
)

// Interface compliance (compile-time assertion)
var _ core.RepairAgent = (*ModelAgent)(nil)

// defaultInstructions steer the model toward a single strict JSON object so
// parsing stays trivial and deterministic to interpret.
const defaultInstructions = `You correct invalid field values for a structured record that is filled in during a conversation.
You are given the field's description, the rejected value and the exact constraint violations.
Reply with a single JSON object and nothing else:
  {"value": <corrected value conforming to the description>}
If the conversation does not contain enough information to correct the value, reply with:
  {"defer": true}`

// promptTemplate renders one repair consultation. Violations and the
// rejected value are embedded as JSON so the model sees exact structures.
const promptTemplate = `Field: {{.FieldName}}
Description: {{.FieldDescription}}
Rejected value: {{.RejectedValue}}
Violations: {{.Violations}}
{{if .Conversation}}
Recent conversation:
{{.Conversation}}{{end}}
Propose a corrected value for this field.`

// ModelAgentOptions configures a ModelAgent.
type ModelAgentOptions struct {
	// Instructions overrides the default system prompt.
	Instructions string

	// MaxConversationMessages caps how much of the supplied conversation
	// window is rendered into the prompt (most recent first wins).
	MaxConversationMessages int

	// Limiter, when set, bounds the total number of completion calls. A
	// tripped limiter surfaces as an agent error, which the update
	// controller treats as one consumed attempt.
	Limiter *core.CallLimiter

	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// ModelAgent proposes corrected values by consulting a completion model.
type ModelAgent struct {
	model model.Model
	opts  ModelAgentOptions
}

// NewModelAgent creates a model-backed repair agent with sensible defaults.
func NewModelAgent(m model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Instructions:            defaultInstructions,
		MaxConversationMessages: 10,
		Logger:                  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &ModelAgent{model: m, opts: opts}
}

// Propose implements core.RepairAgent. Errors (template, model, limiter or
// reply parsing) are returned to the controller, which folds them into one
// consumed retry attempt without surfacing them to its caller.
func (a *ModelAgent) Propose(ctx context.Context, req core.RepairRequest) (core.RepairOutcome, error) {
	if a.opts.Limiter != nil {
		if err := a.opts.Limiter.Increment(); err != nil {
			return core.RepairOutcome{}, fmt.Errorf("repair budget: %w", err)
		}
	}

	prompt, err := a.renderPrompt(req)
	if err != nil {
		return core.RepairOutcome{}, fmt.Errorf("render repair prompt: %w", err)
	}

	resp, err := a.model.Complete(ctx, model.Request{
		Instructions: a.opts.Instructions,
		Messages:     []core.Message{core.NewUserMessage(prompt)},
	})
	if err != nil {
		return core.RepairOutcome{}, fmt.Errorf("repair completion: %w", err)
	}

	a.opts.Logger.Debug("repair reply received", "field", req.FieldName, "model", a.model.Info().Name)
	return parseReply(resp.Text)
}

// renderPrompt builds the consultation prompt from the request.
func (a *ModelAgent) renderPrompt(req core.RepairRequest) (string, error) {
	rejected, err := json.Marshal(req.RejectedValue)
	if err != nil {
		rejected = []byte(fmt.Sprintf("%q", fmt.Sprintf("%v", req.RejectedValue)))
	}
	violations, err := json.Marshal(req.Violations)
	if err != nil {
		return "", fmt.Errorf("marshal violations: %w", err)
	}

	return util.RenderTemplate(promptTemplate, map[string]any{
		"FieldName":        req.FieldName,
		"FieldDescription": req.FieldDescription,
		"RejectedValue":    string(rejected),
		"Violations":       string(violations),
		"Conversation":     renderConversation(req.Conversation, a.opts.MaxConversationMessages),
	})
}

// renderConversation formats the most recent messages, one per line.
func renderConversation(messages []core.Message, max int) string {
	if max > 0 && len(messages) > max {
		messages = messages[len(messages)-max:]
	}
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", msg.Role, msg.Text)
	}
	return b.String()
}

// reply is the strict JSON shape expected from the model.
type reply struct {
	Value json.RawMessage `json:"value"`
	Defer bool            `json:"defer"`
}

// parseReply extracts the JSON object from the model output, tolerating
// fenced code blocks and surrounding prose. Anything else is an error.
func parseReply(text string) (core.RepairOutcome, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return core.RepairOutcome{}, err
	}

	var r reply
	if err := json.Unmarshal(raw, &r); err != nil {
		return core.RepairOutcome{}, fmt.Errorf("decode repair reply: %w", err)
	}
	if r.Defer {
		return core.RepairOutcome{Defer: true}, nil
	}
	if len(r.Value) == 0 {
		return core.RepairOutcome{}, fmt.Errorf("repair reply carries neither value nor defer")
	}

	var value any
	if err := json.Unmarshal(r.Value, &value); err != nil {
		return core.RepairOutcome{}, fmt.Errorf("decode proposed value: %w", err)
	}
	return core.RepairOutcome{Value: value}, nil
}

// extractJSON locates the outermost JSON object in the model output.
func extractJSON(text string) ([]byte, error) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in repair reply")
	}
	return []byte(trimmed[start : end+1]), nil
}
