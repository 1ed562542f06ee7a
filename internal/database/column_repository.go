package database

import (
	"context"
	"database/sql"

	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/types"
)

// ============================================================================
// Column Operations
// ============================================================================

// GetColumnsByProject retrieves a project's columns ordered by position
func GetColumnsByProject(ctx context.Context, db *sql.DB, projectID types.ProjectID) ([]*models.Column, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT status, name, wip_limit, position, description
		 FROM columns
		 WHERE project_id = ?
		 ORDER BY position`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []*models.Column
	for rows.Next() {
		col := &models.Column{}
		var limit sql.NullInt64
		if err := rows.Scan(&col.Status, &col.Name, &limit, &col.Position, &col.Description); err != nil {
			return nil, err
		}
		if limit.Valid {
			l := int(limit.Int64)
			col.Limit = &l
		}
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// GetColumn retrieves one column of a project by status
func GetColumn(ctx context.Context, db *sql.DB, projectID types.ProjectID, status models.Status) (*models.Column, error) {
	col := &models.Column{}
	var limit sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT status, name, wip_limit, position, description
		 FROM columns
		 WHERE project_id = ? AND status = ?`,
		projectID, status,
	).Scan(&col.Status, &col.Name, &limit, &col.Position, &col.Description)
	if err != nil {
		return nil, err
	}
	if limit.Valid {
		l := int(limit.Int64)
		col.Limit = &l
	}
	return col, nil
}

// SetColumnLimit updates a column's WIP limit. A nil limit removes it.
func SetColumnLimit(ctx context.Context, db *sql.DB, projectID types.ProjectID, status models.Status, limit *int) error {
	var value any
	if limit != nil {
		value = *limit
	}
	result, err := db.ExecContext(ctx,
		`UPDATE columns SET wip_limit = ? WHERE project_id = ? AND status = ?`,
		value, projectID, status,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// seedColumns inserts a project's columns from the given policy columns.
// Called for new projects so boards start with the default workflow.
func seedColumns(ctx context.Context, db *sql.DB, projectID types.ProjectID, columns []*models.Column) error {
	for _, col := range columns {
		var limit any
		if col.Limit != nil {
			limit = *col.Limit
		}
		_, err := db.ExecContext(ctx,
			`INSERT INTO columns (project_id, status, name, wip_limit, position, description)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			projectID, col.Status, col.Name, limit, col.Position, col.Description,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
