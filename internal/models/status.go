package models

import "fmt"

// Status represents a workflow state on the kanban board.
// The set is fixed: statuses are not user-extensible at runtime, and each
// board column is bound to exactly one status.
type Status string

const (
	// StatusBacklog indicates the story has not been started.
	StatusBacklog Status = "backlog"
	// StatusInProgress indicates the story is being worked on.
	StatusInProgress Status = "in_progress"
	// StatusReview indicates the story is awaiting review.
	StatusReview Status = "review"
	// StatusTesting indicates the story is being verified.
	StatusTesting Status = "testing"
	// StatusDone indicates the story is complete.
	StatusDone Status = "done"
	// StatusBlocked indicates the story cannot proceed without intervention.
	StatusBlocked Status = "blocked"
	// StatusArchived indicates the story has been retired from the board.
	StatusArchived Status = "archived"
)

// AllStatuses lists every workflow status in board order.
var AllStatuses = []Status{
	StatusBacklog,
	StatusInProgress,
	StatusReview,
	StatusTesting,
	StatusDone,
	StatusBlocked,
	StatusArchived,
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusReview, StatusTesting,
		StatusDone, StatusBlocked, StatusArchived:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable column title for the status.
func (s Status) DisplayName() string {
	switch s {
	case StatusBacklog:
		return "Backlog"
	case StatusInProgress:
		return "In Progress"
	case StatusReview:
		return "Review"
	case StatusTesting:
		return "Testing"
	case StatusDone:
		return "Done"
	case StatusBlocked:
		return "Blocked"
	case StatusArchived:
		return "Archived"
	default:
		return string(s)
	}
}

// ParseStatus parses a string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return status, nil
}
