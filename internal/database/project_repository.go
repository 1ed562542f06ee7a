package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/types"
)

// ============================================================================
// Project Operations
// ============================================================================

// Project is a row in the projects table
type Project struct {
	ID          types.ProjectID
	Name        string
	Description string
	CreatedAt   time.Time
}

// CreateProject creates a project and seeds its columns from the given
// policy columns
func CreateProject(ctx context.Context, db *sql.DB, name, description string, columns []*models.Column) (*Project, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO projects (name, description) VALUES (?, ?)`,
		name, description,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	projectID := types.ProjectID(id)

	if err := seedColumns(ctx, db, projectID, columns); err != nil {
		return nil, err
	}

	return GetProject(ctx, db, projectID)
}

// GetProject retrieves a project by ID
func GetProject(ctx context.Context, db *sql.DB, projectID types.ProjectID) (*Project, error) {
	project := &Project{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM projects WHERE id = ?`,
		projectID,
	).Scan(&project.ID, &project.Name, &project.Description, &project.CreatedAt)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects retrieves all projects ordered by ID
func ListProjects(ctx context.Context, db *sql.DB) ([]*Project, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM projects ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(&project.ID, &project.Name, &project.Description, &project.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}
