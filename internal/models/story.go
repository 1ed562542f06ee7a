package models

import (
	"encoding/json"
	"time"

	"github.com/tablerohq/tablero/internal/types"
)

// StoryType tags what kind of work item a story is.
type StoryType string

const (
	// StoryTypeUserStory is user-facing feature work.
	StoryTypeUserStory StoryType = "user_story"
	// StoryTypeEnabler is technical or infrastructure work.
	StoryTypeEnabler StoryType = "enabler"
)

// Story represents a single work item on the kanban board.
//
// The lifecycle timestamps (StartedAt, CompletedAt, BlockedAt) are each set
// at most once by the daemon when the story first enters the corresponding
// status, and are monotonically increasing when present.
type Story struct {
	ID                 types.StoryID   `json:"id"`
	ProjectID          types.ProjectID `json:"project_id"`
	Title              string          `json:"title"`
	Description        string          `json:"description,omitempty"`
	Type               StoryType       `json:"type"`
	Priority           Priority        `json:"priority"`
	Status             Status          `json:"status"`
	Estimate           *int            `json:"estimate,omitempty"`
	AcceptanceCriteria string          `json:"acceptance_criteria,omitempty"`
	BlockedReason      string          `json:"blocked_reason,omitempty"`
	Position           int             `json:"position"`
	CreatedAt          time.Time       `json:"created_at"`
	StartedAt          *time.Time      `json:"started_at,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	BlockedAt          *time.Time      `json:"blocked_at,omitempty"`
}

// Clone returns a deep copy of the story.
func (s *Story) Clone() *Story {
	out := *s
	if s.Estimate != nil {
		v := *s.Estimate
		out.Estimate = &v
	}
	out.StartedAt = cloneTime(s.StartedAt)
	out.CompletedAt = cloneTime(s.CompletedAt)
	out.BlockedAt = cloneTime(s.BlockedAt)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// MarshalJSON encodes the priority by name rather than ordinal so the wire
// format stays readable and stable if ordinals ever shift. Out-of-range
// values (notably the zero value of an unset field) encode as low so every
// marshaled priority parses back.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.IsValid() {
		p = PriorityLow
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a priority name.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParsePriority(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
