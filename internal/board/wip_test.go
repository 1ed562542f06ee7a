package board

import (
	"testing"

	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/types"
)

func TestIndicator_NoLimit(t *testing.T) {
	t.Parallel()

	col := &models.Column{Status: models.StatusBacklog, Name: "Backlog"}
	for _, occupancy := range []int{0, 5, 500} {
		ind := Indicator(col, occupancy)
		if ind.Exceeded || ind.Warning {
			t.Errorf("Unlimited column flagged at occupancy %d: %+v", occupancy, ind)
		}
	}
}

func TestIndicator_Thresholds(t *testing.T) {
	t.Parallel()

	limit := 5
	col := &models.Column{Status: models.StatusInProgress, Limit: &limit}

	tests := []struct {
		occupancy int
		exceeded  bool
		warning   bool
	}{
		{0, false, false},
		{3, false, false},
		{4, false, true}, // 4 >= 0.8 * 5
		{5, false, true},
		{6, true, false},
	}

	for _, tc := range tests {
		ind := Indicator(col, tc.occupancy)
		if ind.Exceeded != tc.exceeded || ind.Warning != tc.warning {
			t.Errorf("occupancy %d: got %+v, want exceeded=%v warning=%v",
				tc.occupancy, ind, tc.exceeded, tc.warning)
		}
	}
}

func TestIndicator_LimitOne(t *testing.T) {
	t.Parallel()

	limit := 1
	col := &models.Column{Status: models.StatusReview, Limit: &limit}

	if ind := Indicator(col, 1); !ind.Warning || ind.Exceeded {
		t.Errorf("At limit 1/1 expected warning only, got %+v", ind)
	}
	if ind := Indicator(col, 2); !ind.Exceeded {
		t.Errorf("Over limit 2/1 expected exceeded, got %+v", ind)
	}
}

func TestStore_Indicator(t *testing.T) {
	t.Parallel()

	s := FromView(testView())

	// Review has limit 2 and no stories
	if ind := s.Indicator(models.StatusReview); ind.Exceeded || ind.Warning {
		t.Errorf("Empty limited column flagged: %+v", ind)
	}

	// Fill Review past its limit; the indicator flags the transient excess
	for _, id := range []string{"s1", "s2", "s3"} {
		story, err := s.StoryByID(types.StoryID(id))
		if err != nil {
			t.Fatalf("StoryByID(%s) failed: %v", id, err)
		}
		if _, err := s.RemoveStory(story.ID, story.Status); err != nil {
			t.Fatalf("RemoveStory failed: %v", err)
		}
		if err := s.InsertStory(story, models.StatusReview, nil); err != nil {
			t.Fatalf("InsertStory failed: %v", err)
		}
	}
	if ind := s.Indicator(models.StatusReview); !ind.Exceeded {
		t.Errorf("Expected exceeded at 3/2, got %+v", ind)
	}
}

func TestStore_Indicator_MissingColumn(t *testing.T) {
	t.Parallel()

	s := FromView(testView())
	if ind := s.Indicator(models.StatusArchived); ind.Exceeded || ind.Warning {
		t.Errorf("Missing column flagged: %+v", ind)
	}
}
