package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/policy"
)

func TestCreateProject_SeedsDefaultColumns(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	projectID := seedTestProject(t, db)

	columns, err := GetColumnsByProject(context.Background(), db, projectID)
	if err != nil {
		t.Fatalf("GetColumnsByProject failed: %v", err)
	}

	want := policy.Default().Columns()
	if len(columns) != len(want) {
		t.Fatalf("Expected %d columns, got %d", len(want), len(columns))
	}
	for i, col := range columns {
		if col.Status != want[i].Status {
			t.Errorf("Column %d: expected status %v, got %v", i, want[i].Status, col.Status)
		}
		if (col.Limit == nil) != (want[i].Limit == nil) {
			t.Errorf("Column %v: limit presence mismatch", col.Status)
		} else if col.Limit != nil && *col.Limit != *want[i].Limit {
			t.Errorf("Column %v: expected limit %d, got %d", col.Status, *want[i].Limit, *col.Limit)
		}
	}
}

func TestGetColumn(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	projectID := seedTestProject(t, db)

	col, err := GetColumn(context.Background(), db, projectID, models.StatusInProgress)
	if err != nil {
		t.Fatalf("GetColumn failed: %v", err)
	}
	if col.Limit == nil || *col.Limit != 3 {
		t.Errorf("Expected in_progress limit 3, got %v", col.Limit)
	}
}

func TestSetColumnLimit(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	projectID := seedTestProject(t, db)
	ctx := context.Background()

	limit := 5
	if err := SetColumnLimit(ctx, db, projectID, models.StatusReview, &limit); err != nil {
		t.Fatalf("SetColumnLimit failed: %v", err)
	}

	col, err := GetColumn(ctx, db, projectID, models.StatusReview)
	if err != nil {
		t.Fatalf("GetColumn failed: %v", err)
	}
	if col.Limit == nil || *col.Limit != 5 {
		t.Errorf("Expected limit 5, got %v", col.Limit)
	}
}

func TestSetColumnLimit_RemoveLimit(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	projectID := seedTestProject(t, db)
	ctx := context.Background()

	if err := SetColumnLimit(ctx, db, projectID, models.StatusInProgress, nil); err != nil {
		t.Fatalf("SetColumnLimit failed: %v", err)
	}

	col, err := GetColumn(ctx, db, projectID, models.StatusInProgress)
	if err != nil {
		t.Fatalf("GetColumn failed: %v", err)
	}
	if col.Limit != nil {
		t.Errorf("Expected unlimited column, got limit %d", *col.Limit)
	}
}

func TestSetColumnLimit_UnknownColumn(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	projectID := seedTestProject(t, db)

	limit := 2
	err := SetColumnLimit(context.Background(), db, projectID, models.Status("mystery"), &limit)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows, got %v", err)
	}
}

func TestListProjects(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	first := seedTestProject(t, db)
	second := seedTestProject(t, db)

	projects, err := ListProjects(context.Background(), db)
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(projects))
	}
	if projects[0].ID != first || projects[1].ID != second {
		t.Errorf("Expected projects ordered by ID, got %v then %v", projects[0].ID, projects[1].ID)
	}
}
