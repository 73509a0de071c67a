package conversation

import (
	"sync"
	"time"

	"github.com/hupe1980/dialogform/core"
)

// Log is an in-process append-only transcript. It is safe for concurrent
// access; readers receive defensive copies so external mutation can never
// corrupt the transcript.
type Log struct {
	mu       sync.RWMutex
	messages []core.Message
	updated  time.Time
}

// NewLog returns an empty transcript.
func NewLog() *Log {
	return &Log{updated: time.Now()}
}

// Append adds a message to the end of the transcript. Messages without an ID
// are assigned one so audit entries stay addressable.
func (l *Log) Append(msg core.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if msg.ID == "" {
		msg.ID = core.NewID()
	}
	l.messages = append(l.messages, msg)
	l.updated = time.Now()
}

// AppendAll appends messages in order, preserving their relative ordering
// with respect to concurrent appenders.
func (l *Log) AppendAll(msgs ...core.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, msg := range msgs {
		if msg.ID == "" {
			msg.ID = core.NewID()
		}
		l.messages = append(l.messages, msg)
	}
	l.updated = time.Now()
}

// Say is a convenience that appends a new message with the given role and text.
func (l *Log) Say(role, text string) {
	l.Append(core.NewMessage(role, text))
}

// Messages returns a copy of the full transcript in append order.
func (l *Log) Messages() []core.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	msgs := make([]core.Message, len(l.messages))
	copy(msgs, l.messages)
	return msgs
}

// Tail returns a copy of the most recent n messages (all of them if the
// transcript is shorter). This is the usual conversation context window
// passed into artifact updates.
func (l *Log) Tail(n int) []core.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 {
		return []core.Message{}
	}
	start := len(l.messages) - n
	if start < 0 {
		start = 0
	}
	msgs := make([]core.Message, len(l.messages)-start)
	copy(msgs, l.messages[start:])
	return msgs
}

// Len returns the number of messages in the transcript.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Updated returns the time of the last append.
func (l *Log) Updated() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.updated
}
