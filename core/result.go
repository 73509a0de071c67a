package core

// UpdateResult is the outcome of a single artifact update call.
//
// UpdateSuccessful is true only when a value was committed during this call.
// Value carries the committed, normalized value in that case. Messages holds
// the ordered audit-trail entries produced by the call (exactly one on commit
// or on retry-budget exhaustion, none otherwise); callers append them to
// their transcript.
type UpdateResult struct {
	UpdateSuccessful bool      `json:"update_successful"`
	Value            any       `json:"value,omitempty"`
	Messages         []Message `json:"messages"`
}
