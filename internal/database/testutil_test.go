package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/policy"
	"github.com/tablerohq/tablero/internal/types"
	_ "modernc.org/sqlite"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database and runs migrations
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// seedTestProject creates a project with the default workflow columns
func seedTestProject(t *testing.T, db *sql.DB) types.ProjectID {
	t.Helper()
	project, err := CreateProject(context.Background(), db, "test project", "", policy.Default().Columns())
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return project.ID
}

// seedTestStory inserts a story into a project column
func seedTestStory(t *testing.T, db *sql.DB, projectID types.ProjectID, title string, status models.Status) *models.Story {
	t.Helper()
	story, err := CreateStory(context.Background(), db, &models.Story{
		ID:                 types.StoryID(uuid.NewString()),
		ProjectID:          projectID,
		Title:              title,
		Type:               models.StoryTypeUserStory,
		Priority:           models.PriorityMedium,
		Status:             status,
		AcceptanceCriteria: "renders without errors",
	})
	if err != nil {
		t.Fatalf("Failed to create test story: %v", err)
	}
	return story
}
