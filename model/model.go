package model

import (
	"context"
	"fmt"

	"github.com/hupe1980/dialogform/core"
)

// Request captures the normalized completion input produced by repair agents.
type Request struct {
	Instructions string         `json:"instructions"`          // System instructions for the model
	Messages     []core.Message `json:"messages"`              // Conversation turns, oldest first
	MaxTokens    int64          `json:"max_tokens,omitempty"`  // Optional per-request completion cap
	Temperature  *float64       `json:"temperature,omitempty"` // Optional sampling override
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model output.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", etc.
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface required to drive repair completions.
type Model interface {
	Complete(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses can be enqueued (consumed FIFO) or registered against the text
// of the last message; unmatched requests get a deterministic echo.
type MockModel struct {
	info      Info
	responses map[string]string
	queue     []string
	err       error
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for the text of
// the last request message.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// EnqueueResponse appends a completion consumed in FIFO order before any
// registered prompt matches are considered.
func (m *MockModel) EnqueueResponse(response string) { m.queue = append(m.queue, response) }

// FailWith makes every subsequent Complete call return err.
func (m *MockModel) FailWith(err error) { m.err = err }

// Complete implements Model.
func (m *MockModel) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		text := m.queue[0]
		m.queue = m.queue[1:]
		return &Response{Text: text, FinishReason: "stop"}, nil
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided")
	}
	last := req.Messages[len(req.Messages)-1].Text
	if canned, ok := m.responses[last]; ok {
		return &Response{Text: canned, FinishReason: "stop"}, nil
	}
	return &Response{Text: fmt.Sprintf("Mock response to: %s", last), FinishReason: "stop"}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
