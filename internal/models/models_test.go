package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, s := range AllStatuses {
		parsed, err := ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q) returned error: %v", s, err)
		}
		if parsed != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, parsed, s)
		}
	}
}

func TestParseStatus_Unknown(t *testing.T) {
	t.Parallel()

	if _, err := ParseStatus("doing"); err == nil {
		t.Error("Expected error for unknown status 'doing'")
	}
	if Status("").IsValid() {
		t.Error("Empty status should not be valid")
	}
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical} {
		parsed, err := ParsePriority(p.String())
		if err != nil {
			t.Errorf("ParsePriority(%q) returned error: %v", p, err)
		}
		if parsed != p {
			t.Errorf("ParsePriority(%q) = %v, want %v", p.String(), parsed, p)
		}
	}

	if _, err := ParsePriority("urgent"); err == nil {
		t.Error("Expected error for unknown priority 'urgent'")
	}
}

func TestPriority_Ordering(t *testing.T) {
	t.Parallel()

	if !(PriorityLow < PriorityMedium && PriorityMedium < PriorityHigh && PriorityHigh < PriorityCritical) {
		t.Error("Priorities are not ordered Low < Medium < High < Critical")
	}
}

func TestStory_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	estimate := 5
	story := &Story{
		ID:        "story-1",
		ProjectID: 1,
		Title:     "Implement login",
		Type:      StoryTypeUserStory,
		Priority:  PriorityHigh,
		Status:    StatusInProgress,
		Estimate:  &estimate,
		CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		StartedAt: &started,
	}

	data, err := json.Marshal(story)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	// Priority goes over the wire by name, not ordinal
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal into map failed: %v", err)
	}
	if raw["priority"] != "high" {
		t.Errorf("Expected priority encoded as \"high\", got %v", raw["priority"])
	}

	var decoded Story
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Priority != PriorityHigh {
		t.Errorf("Expected PriorityHigh after round trip, got %v", decoded.Priority)
	}
	if decoded.Status != StatusInProgress {
		t.Errorf("Expected StatusInProgress after round trip, got %v", decoded.Status)
	}
}

// A story whose priority was never set still produces parseable JSON.
func TestPriority_ZeroValueRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(&Story{ID: "story-1", Title: "Untriaged"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Story
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Priority != PriorityLow {
		t.Errorf("Expected unset priority to round-trip as PriorityLow, got %v", decoded.Priority)
	}
}

func TestStory_Clone(t *testing.T) {
	t.Parallel()

	estimate := 3
	blocked := time.Now().UTC()
	story := &Story{
		ID:            "story-2",
		Title:         "Original",
		Status:        StatusBlocked,
		Estimate:      &estimate,
		BlockedAt:     &blocked,
		BlockedReason: "waiting on API keys",
	}

	clone := story.Clone()
	clone.Title = "Changed"
	*clone.Estimate = 8

	if story.Title != "Original" {
		t.Error("Clone mutation leaked into original title")
	}
	if *story.Estimate != 3 {
		t.Error("Clone mutation leaked into original estimate")
	}
	if clone.BlockedAt == story.BlockedAt {
		t.Error("Clone shares BlockedAt pointer with original")
	}
}

func TestBoardView_Clone(t *testing.T) {
	t.Parallel()

	limit := 2
	view := &BoardView{
		ProjectID: 1,
		Columns: []*BoardColumn{
			{
				Column:  &Column{Status: StatusBacklog, Name: "Backlog"},
				Stories: []*Story{{ID: "a", Title: "A", Status: StatusBacklog}},
			},
			{
				Column:  &Column{Status: StatusReview, Name: "Review", Limit: &limit},
				Stories: []*Story{},
			},
		},
		BlockedCount: 0,
	}

	clone := view.Clone()
	clone.Columns[0].Stories[0].Title = "mutated"
	*clone.Columns[1].Column.Limit = 99

	if view.Columns[0].Stories[0].Title != "A" {
		t.Error("Clone mutation leaked into original story")
	}
	if *view.Columns[1].Column.Limit != 2 {
		t.Error("Clone mutation leaked into original column limit")
	}
}
