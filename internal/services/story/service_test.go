package story

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/tablerohq/tablero/internal/database"
	"github.com/tablerohq/tablero/internal/events"
	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/policy"
	"github.com/tablerohq/tablero/internal/types"
	_ "modernc.org/sqlite"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) published() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

// setupService creates a service over an in-memory database with one
// seeded project using the default workflow
func setupService(t *testing.T) (Service, *recordingPublisher, types.ProjectID, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := database.InitDB(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	project, err := database.CreateProject(ctx, db, "test project", "", policy.Default().Columns())
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}

	publisher := &recordingPublisher{}
	svc := NewService(db, policy.Default(), publisher)
	return svc, publisher, project.ID, db
}

func createStory(t *testing.T, svc Service, projectID types.ProjectID, title, criteria string) *models.Story {
	t.Helper()
	story, err := svc.CreateStory(context.Background(), CreateStoryRequest{
		ProjectID:          projectID,
		Title:              title,
		AcceptanceCriteria: criteria,
	})
	if err != nil {
		t.Fatalf("Failed to create story: %v", err)
	}
	return story
}

// moveThrough walks a story along a legal path to the target status
func moveThrough(t *testing.T, svc Service, storyID types.StoryID, path ...models.Status) *models.Story {
	t.Helper()
	var story *models.Story
	var err error
	for _, status := range path {
		story, err = svc.UpdateStoryStatus(context.Background(), storyID, status)
		if err != nil {
			t.Fatalf("Failed to move story to %v: %v", status, err)
		}
	}
	return story
}

// ============================================================================
// CREATE / READ
// ============================================================================

func TestCreateStory_StartsInBacklog(t *testing.T) {
	t.Parallel()
	svc, publisher, projectID, _ := setupService(t)

	story := createStory(t, svc, projectID, "add login form", "")

	if story.Status != models.StatusBacklog {
		t.Errorf("Expected new story in backlog, got %v", story.Status)
	}
	if story.Type != models.StoryTypeUserStory || story.Priority != models.PriorityMedium {
		t.Errorf("Expected defaults applied, got type=%v priority=%v", story.Type, story.Priority)
	}
	if got := publisher.published(); len(got) != 1 || got[0].Type != events.EventBoardChanged {
		t.Errorf("Expected one board_changed event, got %v", got)
	}
}

func TestCreateStory_Validation(t *testing.T) {
	t.Parallel()
	svc, _, projectID, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.CreateStory(ctx, CreateStoryRequest{ProjectID: projectID}); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("Expected ErrEmptyTitle, got %v", err)
	}
	if _, err := svc.CreateStory(ctx, CreateStoryRequest{Title: "x"}); !errors.Is(err, ErrInvalidProjectID) {
		t.Errorf("Expected ErrInvalidProjectID, got %v", err)
	}
	bad := -1
	if _, err := svc.CreateStory(ctx, CreateStoryRequest{ProjectID: projectID, Title: "x", Estimate: &bad}); !errors.Is(err, ErrInvalidEstimate) {
		t.Errorf("Expected ErrInvalidEstimate, got %v", err)
	}
	if _, err := svc.CreateStory(ctx, CreateStoryRequest{ProjectID: 999, Title: "x"}); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}
}

func TestGetBoard(t *testing.T) {
	t.Parallel()
	svc, _, projectID, _ := setupService(t)

	createStory(t, svc, projectID, "one", "")
	story := createStory(t, svc, projectID, "two", "")
	moveThrough(t, svc, story.ID, models.StatusInProgress, models.StatusBlocked)

	board, err := svc.GetBoard(context.Background(), projectID)
	if err != nil {
		t.Fatalf("GetBoard failed: %v", err)
	}

	if len(board.Columns) != len(models.AllStatuses) {
		t.Fatalf("Expected %d columns, got %d", len(models.AllStatuses), len(board.Columns))
	}
	occupancy := make(map[models.Status]int)
	for _, col := range board.Columns {
		occupancy[col.Column.Status] = col.Occupancy()
	}
	if occupancy[models.StatusBacklog] != 1 || occupancy[models.StatusBlocked] != 1 {
		t.Errorf("Unexpected occupancy: %v", occupancy)
	}
	if board.BlockedCount != 1 {
		t.Errorf("Expected blocked count 1, got %d", board.BlockedCount)
	}
}

func TestGetBoard_ProjectNotFound(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := setupService(t)

	if _, err := svc.GetBoard(context.Background(), 999); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound, got %v", err)
	}
}

func TestGetStory_NotFound(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := setupService(t)

	if _, err := svc.GetStory(context.Background(), types.StoryID(uuid.NewString())); !errors.Is(err, ErrStoryNotFound) {
		t.Errorf("Expected ErrStoryNotFound, got %v", err)
	}
}

// ============================================================================
// MOVES
// ============================================================================

func TestUpdateStoryStatus_LegalMove(t *testing.T) {
	t.Parallel()
	svc, publisher, projectID, _ := setupService(t)
	story := createStory(t, svc, projectID, "ready to start", "")

	moved, err := svc.UpdateStoryStatus(context.Background(), story.ID, models.StatusInProgress)
	if err != nil {
		t.Fatalf("UpdateStoryStatus failed: %v", err)
	}
	if moved.Status != models.StatusInProgress {
		t.Errorf("Expected in_progress, got %v", moved.Status)
	}
	if moved.StartedAt == nil {
		t.Error("Expected started_at stamped")
	}

	got := publisher.published()
	if len(got) != 2 {
		t.Fatalf("Expected 2 events (create + move), got %d", len(got))
	}
	if got[1].StoryID != story.ID {
		t.Errorf("Expected event for story %v, got %v", story.ID, got[1].StoryID)
	}
}

func TestUpdateStoryStatus_IllegalTransition(t *testing.T) {
	t.Parallel()
	svc, _, projectID, _ := setupService(t)
	story := createStory(t, svc, projectID, "no shortcuts", "")

	_, err := svc.UpdateStoryStatus(context.Background(), story.ID, models.StatusDone)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("Expected ErrIllegalTransition, got %v", err)
	}
}

func TestUpdateStoryStatus_StaleMove(t *testing.T) {
	t.Parallel()
	svc, _, projectID, _ := setupService(t)
	story := createStory(t, svc, projectID, "already there", "")

	_, err := svc.UpdateStoryStatus(context.Background(), story.ID, models.StatusBacklog)
	if !errors.Is(err, ErrStaleMove) {
		t.Errorf("Expected ErrStaleMove, got %v", err)
	}
}

func TestUpdateStoryStatus_WIPLimitEnforced(t *testing.T) {
	t.Parallel()
	svc, _, projectID, _ := setupService(t)

	// Default in_progress limit is 3
	for i := 0; i < 3; i++ {
		story := createStory(t, svc, projectID, "worker", "")
		moveThrough(t, svc, story.ID, models.StatusInProgress)
	}

	extra := createStory(t, svc, projectID, "one too many", "")
	_, err := svc.UpdateStoryStatus(context.Background(), extra.ID, models.StatusInProgress)
	if !errors.Is(err, ErrWIPLimitExceeded) {
		t.Errorf("Expected ErrWIPLimitExceeded, got %v", err)
	}
}

func TestUpdateStoryStatus_CompletionRequirements(t *testing.T) {
	t.Parallel()
	svc, _, projectID, _ := setupService(t)

	bare := createStory(t, svc, projectID, "no criteria", "")
	moveThrough(t, svc, bare.ID, models.StatusInProgress, models.StatusReview, models.StatusTesting)
	_, err := svc.UpdateStoryStatus(context.Background(), bare.ID, models.StatusDone)
	if !errors.Is(err, ErrCompletionRequirementsUnmet) {
		t.Errorf("Expected ErrCompletionRequirementsUnmet, got %v", err)
	}

	ready := createStory(t, svc, projectID, "with criteria", "all checks pass")
	moved := moveThrough(t, svc, ready.ID,
		models.StatusInProgress, models.StatusReview, models.StatusTesting, models.StatusDone)
	if moved.CompletedAt == nil {
		t.Error("Expected completed_at stamped")
	}
}

func TestUpdateStoryStatus_StoryNotFound(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := setupService(t)

	_, err := svc.UpdateStoryStatus(context.Background(), types.StoryID(uuid.NewString()), models.StatusInProgress)
	if !errors.Is(err, ErrStoryNotFound) {
		t.Errorf("Expected ErrStoryNotFound, got %v", err)
	}
}

func TestUpdateStoryStatus_UnknownColumn(t *testing.T) {
	t.Parallel()
	svc, _, projectID, _ := setupService(t)
	story := createStory(t, svc, projectID, "nowhere to go", "")

	_, err := svc.UpdateStoryStatus(context.Background(), story.ID, models.Status("limbo"))
	if !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

// ============================================================================
// POLICY EDITS
// ============================================================================

func TestSetColumnLimit(t *testing.T) {
	t.Parallel()
	svc, publisher, projectID, db := setupService(t)

	limit := 7
	if err := svc.SetColumnLimit(context.Background(), projectID, models.StatusReview, &limit); err != nil {
		t.Fatalf("SetColumnLimit failed: %v", err)
	}

	col, err := database.GetColumn(context.Background(), db, projectID, models.StatusReview)
	if err != nil {
		t.Fatalf("GetColumn failed: %v", err)
	}
	if col.Limit == nil || *col.Limit != 7 {
		t.Errorf("Expected persisted limit 7, got %v", col.Limit)
	}

	got := publisher.published()
	if len(got) != 1 || got[0].Type != events.EventPolicyChanged {
		t.Errorf("Expected one policy_changed event, got %v", got)
	}
}

// Limit edits are per-project column state; the shared policy keeps its
// defaults so later projects seed with the original limits.
func TestSetColumnLimit_DoesNotMutateSharedPolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := database.InitDB(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	pol := policy.Default()
	project, err := database.CreateProject(ctx, db, "first", "", pol.Columns())
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	svc := NewService(db, pol, nil)

	tightened := 1
	if err := svc.SetColumnLimit(ctx, project.ID, models.StatusReview, &tightened); err != nil {
		t.Fatalf("SetColumnLimit failed: %v", err)
	}

	if limit := pol.LimitFor(models.StatusReview); limit == nil || *limit != 2 {
		t.Errorf("Expected shared policy to keep its default review limit 2, got %v", limit)
	}

	second, err := database.CreateProject(ctx, db, "second", "", pol.Columns())
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	col, err := database.GetColumn(ctx, db, second.ID, models.StatusReview)
	if err != nil {
		t.Fatalf("GetColumn failed: %v", err)
	}
	if col.Limit == nil || *col.Limit != 2 {
		t.Errorf("Expected new project seeded with default limit 2, got %v", col.Limit)
	}
}

func TestSetColumnLimit_OutOfBounds(t *testing.T) {
	t.Parallel()
	svc, _, projectID, _ := setupService(t)

	zero := 0
	err := svc.SetColumnLimit(context.Background(), projectID, models.StatusReview, &zero)
	if !errors.Is(err, policy.ErrLimitOutOfBounds) {
		t.Errorf("Expected ErrLimitOutOfBounds, got %v", err)
	}
}

// ============================================================================
// DELETE
// ============================================================================

func TestDeleteStory(t *testing.T) {
	t.Parallel()
	svc, _, projectID, _ := setupService(t)
	story := createStory(t, svc, projectID, "short lived", "")

	if err := svc.DeleteStory(context.Background(), story.ID); err != nil {
		t.Fatalf("DeleteStory failed: %v", err)
	}
	if _, err := svc.GetStory(context.Background(), story.ID); !errors.Is(err, ErrStoryNotFound) {
		t.Errorf("Expected ErrStoryNotFound after delete, got %v", err)
	}
}
