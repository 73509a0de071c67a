package schema

// UnansweredString is the literal rendering of the Unanswered sentinel used
// in prompt projections and snapshots.
const UnansweredString = "Unanswered"

type unansweredSentinel struct{}

// String returns the literal sentinel string.
func (unansweredSentinel) String() string { return UnansweredString }

// MarshalJSON renders the sentinel as its literal string so snapshots and
// projections round-trip through JSON.
func (unansweredSentinel) MarshalJSON() ([]byte, error) {
	return []byte(`"` + UnansweredString + `"`), nil
}

// Unanswered marks a field that has not yet been filled, or that was reset
// after its retry budget was exhausted. It is accepted by validation for
// every field regardless of kind.
var Unanswered = unansweredSentinel{}

// IsUnanswered reports whether v is the Unanswered sentinel. The literal
// string form is recognized too so values survive a JSON round-trip.
func IsUnanswered(v any) bool {
	switch s := v.(type) {
	case unansweredSentinel:
		return true
	case string:
		return s == UnansweredString
	default:
		return false
	}
}
