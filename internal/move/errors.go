package move

import "errors"

// Orchestrator state errors
var (
	// ErrGestureInProgress indicates a drag was started while another
	// gesture had not resolved yet.
	ErrGestureInProgress = errors.New("another move gesture is in progress")

	// ErrNoMoveInFlight indicates Commit was called without an applied
	// optimistic move.
	ErrNoMoveInFlight = errors.New("no move in flight")
)
