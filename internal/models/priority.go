package models

import "fmt"

// Priority represents how urgent a story is. Priorities are ordered:
// comparing two priorities numerically gives their relative urgency.
type Priority int

const (
	// PriorityLow is the default priority for new stories.
	PriorityLow Priority = iota + 1
	// PriorityMedium indicates moderately urgent work.
	PriorityMedium
	// PriorityHigh indicates important work that should be picked up soon.
	PriorityHigh
	// PriorityCritical indicates work that blocks everything else.
	PriorityCritical
)

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// ParsePriority parses a priority name into a Priority.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", s)
	}
}
