package artifact

import "fmt"

var (
	// ErrNotFound is returned when a snapshot for the given session / id pair
	// does not exist in the underlying store.
	ErrNotFound = fmt.Errorf("artifact not found")

	// ErrUnknownField is returned by Restore when a snapshot carries a field
	// that is not declared in the schema.
	ErrUnknownField = fmt.Errorf("unknown field")

	// ErrNoStore is returned by Load when the artifact was built without a
	// snapshot store.
	ErrNoStore = fmt.Errorf("no artifact store configured")
)
