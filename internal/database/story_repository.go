package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/types"
)

// ============================================================================
// Story Operations
// ============================================================================

const storyColumns = `id, project_id, title, description, type, priority, status,
	estimate, acceptance_criteria, blocked_reason, position,
	created_at, started_at, completed_at, blocked_at`

func scanStory(row interface{ Scan(...any) error }) (*models.Story, error) {
	story := &models.Story{}
	var estimate sql.NullInt64
	var startedAt, completedAt, blockedAt sql.NullTime

	err := row.Scan(
		&story.ID, &story.ProjectID, &story.Title, &story.Description,
		&story.Type, &story.Priority, &story.Status,
		&estimate, &story.AcceptanceCriteria, &story.BlockedReason, &story.Position,
		&story.CreatedAt, &startedAt, &completedAt, &blockedAt,
	)
	if err != nil {
		return nil, err
	}

	if estimate.Valid {
		e := int(estimate.Int64)
		story.Estimate = &e
	}
	story.StartedAt = nullTimePtr(startedAt)
	story.CompletedAt = nullTimePtr(completedAt)
	story.BlockedAt = nullTimePtr(blockedAt)

	return story, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

// CreateStory inserts a new story. The caller assigns the ID.
func CreateStory(ctx context.Context, db *sql.DB, story *models.Story) (*models.Story, error) {
	var estimate any
	if story.Estimate != nil {
		estimate = *story.Estimate
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO stories (id, project_id, title, description, type, priority, status,
			estimate, acceptance_criteria, blocked_reason, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		story.ID, story.ProjectID, story.Title, story.Description,
		story.Type, story.Priority, story.Status,
		estimate, story.AcceptanceCriteria, story.BlockedReason, story.Position,
	)
	if err != nil {
		return nil, err
	}

	// Retrieve the created story to get timestamps
	return GetStory(ctx, db, story.ID)
}

// GetStory retrieves a single story by ID
func GetStory(ctx context.Context, db *sql.DB, storyID types.StoryID) (*models.Story, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE id = ?`,
		storyID,
	)
	return scanStory(row)
}

// GetStoriesByProject retrieves all stories for a project, ordered by status
// then position
func GetStoriesByProject(ctx context.Context, db *sql.DB, projectID types.ProjectID) ([]*models.Story, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+storyColumns+` FROM stories
		 WHERE project_id = ?
		 ORDER BY status, position`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []*models.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}

	return stories, rows.Err()
}

// CountStoriesByStatus returns the number of stories in a given column
func CountStoriesByStatus(ctx context.Context, db *sql.DB, projectID types.ProjectID, status models.Status) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM stories WHERE project_id = ? AND status = ?",
		projectID, status,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStoryStatus moves a story to a new column inside a transaction,
// appending it to the end and stamping lifecycle timestamps the first time
// the story enters the relevant column.
//
// The stale-move and WIP headroom checks run inside the same transaction as
// the write so two concurrent moves cannot both observe headroom and
// overfill a column. from is the status the caller validated against; a
// mismatch returns ErrStoryMoved, a full destination ErrColumnOverLimit,
// and a destination without a column row sql.ErrNoRows.
func UpdateStoryStatus(ctx context.Context, db *sql.DB, storyID types.StoryID, from, to models.Status) (*models.Story, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	story, err := scanStory(tx.QueryRowContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE id = ?`,
		storyID,
	))
	if err != nil {
		return nil, err
	}
	if story.Status != from {
		return nil, fmt.Errorf("%w: now in %s", ErrStoryMoved, story.Status)
	}

	var limit sql.NullInt64
	err = tx.QueryRowContext(ctx,
		"SELECT wip_limit FROM columns WHERE project_id = ? AND status = ?",
		story.ProjectID, to,
	).Scan(&limit)
	if err != nil {
		return nil, err
	}

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM stories WHERE project_id = ? AND status = ?",
		story.ProjectID, to,
	).Scan(&position)
	if err != nil {
		return nil, err
	}
	if limit.Valid && int64(position) >= limit.Int64 {
		return nil, fmt.Errorf("%w: %s is at %d of %d", ErrColumnOverLimit, to, position, limit.Int64)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE stories SET status = ?, position = ? WHERE id = ?`,
		to, position, storyID,
	)
	if err != nil {
		return nil, err
	}

	stamp := func(column string) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE stories SET `+column+` = CURRENT_TIMESTAMP
			 WHERE id = ? AND `+column+` IS NULL`,
			storyID,
		)
		return err
	}
	switch to {
	case models.StatusInProgress:
		err = stamp("started_at")
	case models.StatusDone:
		err = stamp("completed_at")
	case models.StatusBlocked:
		err = stamp("blocked_at")
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return GetStory(ctx, db, storyID)
}

// UpdateStory updates a story's editable fields
func UpdateStory(ctx context.Context, db *sql.DB, storyID types.StoryID, title, description, acceptanceCriteria string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE stories
		 SET title = ?, description = ?, acceptance_criteria = ?
		 WHERE id = ?`,
		title, description, acceptanceCriteria, storyID,
	)
	return err
}

// DeleteStory removes a story from the database
func DeleteStory(ctx context.Context, db *sql.DB, storyID types.StoryID) error {
	_, err := db.ExecContext(ctx, "DELETE FROM stories WHERE id = ?", storyID)
	return err
}
