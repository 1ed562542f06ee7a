package types

// ID type aliases provide semantic meaning and reduce repetitive conversions.
// These aliases document what each value represents in the domain model.

// ProjectID identifies a unique project in the system
type ProjectID int

// StoryID identifies a work item on the board. Story IDs are opaque and
// stable; the daemon assigns them at creation time and they never change.
type StoryID string
