package core

import "github.com/google/uuid"

// Conversation roles. The artifact only ever emits assistant-authored audit
// messages; the other roles tag caller-supplied conversation context.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Message is a single role-tagged entry of a conversation transcript or of
// the audit trail produced by artifact updates. Once returned to a caller it
// should be treated as immutable: messages are appended to an append-only
// transcript and never retracted.
type Message struct {
	ID   string `json:"id,omitempty"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// NewMessage creates a message with a fresh unique identifier.
func NewMessage(role, text string) Message {
	return Message{ID: NewID(), Role: role, Text: text}
}

// NewUserMessage creates a user-authored message.
func NewUserMessage(text string) Message { return NewMessage(RoleUser, text) }

// NewAssistantMessage creates an assistant-authored message.
func NewAssistantMessage(text string) Message { return NewMessage(RoleAssistant, text) }

// NewSystemMessage creates a system message.
func NewSystemMessage(text string) Message { return NewMessage(RoleSystem, text) }

// NewID generates a new unique identifier for messages and artifacts.
func NewID() string { return uuid.NewString() }
