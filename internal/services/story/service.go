// Package story implements the daemon's board operations. It is the source
// of truth: every move is re-validated here against the workflow policy
// before it is persisted, regardless of what the client already checked.
package story

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tablerohq/tablero/internal/database"
	"github.com/tablerohq/tablero/internal/events"
	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/policy"
	"github.com/tablerohq/tablero/internal/types"
)

// Service defines all story-related business operations
type Service interface {
	// Read operations
	GetBoard(ctx context.Context, projectID types.ProjectID) (*models.BoardView, error)
	GetStory(ctx context.Context, storyID types.StoryID) (*models.Story, error)

	// Write operations
	CreateStory(ctx context.Context, req CreateStoryRequest) (*models.Story, error)
	UpdateStoryStatus(ctx context.Context, storyID types.StoryID, status models.Status) (*models.Story, error)
	SetColumnLimit(ctx context.Context, projectID types.ProjectID, status models.Status, limit *int) error
	DeleteStory(ctx context.Context, storyID types.StoryID) error
}

// CreateStoryRequest encapsulates all data needed to create a story
type CreateStoryRequest struct {
	ProjectID          types.ProjectID
	Title              string
	Description        string
	Type               models.StoryType
	Priority           models.Priority
	Estimate           *int
	AcceptanceCriteria string
}

// service implements Service
type service struct {
	db        *sql.DB
	policy    *policy.Policy
	publisher events.Publisher
}

// NewService creates a new story service. publisher may be nil when event
// broadcasting is not wanted, e.g. in one-shot CLI commands.
func NewService(db *sql.DB, pol *policy.Policy, publisher events.Publisher) Service {
	return &service{
		db:        db,
		policy:    pol,
		publisher: publisher,
	}
}

// GetBoard assembles the full board view for a project, grouping stories
// under their columns in position order
func (s *service) GetBoard(ctx context.Context, projectID types.ProjectID) (*models.BoardView, error) {
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	if _, err := database.GetProject(ctx, s.db, projectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	columns, err := database.GetColumnsByProject(ctx, s.db, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	stories, err := database.GetStoriesByProject(ctx, s.db, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stories: %w", err)
	}

	byStatus := make(map[models.Status][]*models.Story)
	for _, story := range stories {
		byStatus[story.Status] = append(byStatus[story.Status], story)
	}

	view := &models.BoardView{ProjectID: projectID}
	for _, col := range columns {
		view.Columns = append(view.Columns, &models.BoardColumn{
			Column:  col,
			Stories: byStatus[col.Status],
		})
	}
	view.BlockedCount = len(byStatus[models.StatusBlocked])

	return view, nil
}

// GetStory retrieves a single story
func (s *service) GetStory(ctx context.Context, storyID types.StoryID) (*models.Story, error) {
	if storyID == "" {
		return nil, ErrInvalidStoryID
	}

	story, err := database.GetStory(ctx, s.db, storyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return story, nil
}

// CreateStory handles story creation with validation. New stories always
// start in the backlog.
func (s *service) CreateStory(ctx context.Context, req CreateStoryRequest) (*models.Story, error) {
	if err := validateCreateStory(req); err != nil {
		return nil, err
	}

	if _, err := database.GetProject(ctx, s.db, req.ProjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	storyType := req.Type
	if storyType == "" {
		storyType = models.StoryTypeUserStory
	}
	priority := req.Priority
	if priority == 0 {
		priority = models.PriorityMedium
	}

	position, err := database.CountStoriesByStatus(ctx, s.db, req.ProjectID, models.StatusBacklog)
	if err != nil {
		return nil, fmt.Errorf("failed to count backlog stories: %w", err)
	}

	story, err := database.CreateStory(ctx, s.db, &models.Story{
		ID:                 types.StoryID(uuid.NewString()),
		ProjectID:          req.ProjectID,
		Title:              req.Title,
		Description:        req.Description,
		Type:               storyType,
		Priority:           priority,
		Status:             models.StatusBacklog,
		Estimate:           req.Estimate,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Position:           position,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	s.publishBoardEvent(req.ProjectID, story.ID)

	return story, nil
}

// UpdateStoryStatus moves a story to a new column after re-validating the
// move against the workflow policy. Server-side validation is authoritative:
// clients validate optimistically, but two clients can race, so the same
// checks run again here against current state.
func (s *service) UpdateStoryStatus(ctx context.Context, storyID types.StoryID, status models.Status) (*models.Story, error) {
	if storyID == "" {
		return nil, ErrInvalidStoryID
	}
	if !status.IsValid() {
		return nil, ErrColumnNotFound
	}

	story, err := database.GetStory(ctx, s.db, storyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	if story.Status == status {
		return nil, ErrStaleMove
	}

	if !s.policy.HasColumn(status) {
		return nil, ErrColumnNotFound
	}
	if !s.policy.IsReachable(story.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrIllegalTransition, story.Status, status)
	}

	if ok, requirement := s.policy.CompletionRequirementsMet(story, status); !ok {
		return nil, fmt.Errorf("%w: %s is required", ErrCompletionRequirementsUnmet, requirement)
	}

	// The WIP headroom check and the stale-move check run inside the move
	// transaction; a concurrent move that wins the race surfaces here as
	// ErrStoryMoved or ErrColumnOverLimit.
	moved, err := database.UpdateStoryStatus(ctx, s.db, storyID, story.Status, status)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrColumnNotFound
		case errors.Is(err, database.ErrStoryMoved):
			return nil, ErrStaleMove
		case errors.Is(err, database.ErrColumnOverLimit):
			return nil, fmt.Errorf("%w: %v", ErrWIPLimitExceeded, err)
		}
		return nil, fmt.Errorf("failed to move story: %w", err)
	}

	s.publishBoardEvent(story.ProjectID, storyID)

	return moved, nil
}

// SetColumnLimit changes a column's WIP limit. Limits are policy, not
// state: lowering a limit below the column's occupancy is allowed and the
// column simply reports as over limit until stories drain.
func (s *service) SetColumnLimit(ctx context.Context, projectID types.ProjectID, status models.Status, limit *int) error {
	if projectID <= 0 {
		return ErrInvalidProjectID
	}
	// Bounds come from the policy, but the limit itself is per-project
	// state in the columns table. Mutating the shared policy here would
	// leak one project's edit into every other project's defaults.
	if err := s.policy.CheckLimit(status, limit); err != nil {
		return err
	}

	if err := database.SetColumnLimit(ctx, s.db, projectID, status, limit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrColumnNotFound
		}
		return fmt.Errorf("failed to set column limit: %w", err)
	}

	s.publishPolicyEvent(projectID)

	return nil
}

// DeleteStory handles story deletion
func (s *service) DeleteStory(ctx context.Context, storyID types.StoryID) error {
	if storyID == "" {
		return ErrInvalidStoryID
	}

	story, err := database.GetStory(ctx, s.db, storyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrStoryNotFound
		}
		return fmt.Errorf("failed to get story: %w", err)
	}

	if err := database.DeleteStory(ctx, s.db, storyID); err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}

	s.publishBoardEvent(story.ProjectID, storyID)

	return nil
}

// validateCreateStory validates a CreateStoryRequest
func validateCreateStory(req CreateStoryRequest) error {
	if req.ProjectID <= 0 {
		return ErrInvalidProjectID
	}
	if req.Title == "" {
		return ErrEmptyTitle
	}
	if len(req.Title) > 255 {
		return ErrTitleTooLong
	}
	if req.Estimate != nil && *req.Estimate <= 0 {
		return ErrInvalidEstimate
	}
	return nil
}

func (s *service) publishBoardEvent(projectID types.ProjectID, storyID types.StoryID) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.Event{
		Type:      events.EventBoardChanged,
		ProjectID: projectID,
		StoryID:   storyID,
		Timestamp: time.Now(),
	})
}

func (s *service) publishPolicyEvent(projectID types.ProjectID) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(events.Event{
		Type:      events.EventPolicyChanged,
		ProjectID: projectID,
		Timestamp: time.Now(),
	})
}
