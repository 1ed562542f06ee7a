// Package board holds the in-memory board state for one project session.
// The store owns the live column and story collections; every read for
// rendering goes through Snapshot so external code can never corrupt it.
package board

import (
	"fmt"

	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/types"
)

// Store is the in-memory representation of one project's board. It is not
// safe for concurrent use; the UI session is the single writer.
type Store struct {
	projectID types.ProjectID
	columns   []*models.BoardColumn
	byStatus  map[models.Status]*models.BoardColumn
}

// FromView builds a store from a canonical board snapshot.
func FromView(view *models.BoardView) *Store {
	s := &Store{}
	s.Reset(view)
	return s
}

// Reset replaces the store's entire contents with the given snapshot.
// Used on load, on canonical refresh, and when rolling back a failed move.
func (s *Store) Reset(view *models.BoardView) {
	clone := view.Clone()
	s.projectID = clone.ProjectID
	s.columns = clone.Columns
	s.byStatus = make(map[models.Status]*models.BoardColumn, len(clone.Columns))
	for _, bc := range clone.Columns {
		s.byStatus[bc.Column.Status] = bc
	}
}

// ProjectID returns the project this store belongs to.
func (s *Store) ProjectID() types.ProjectID {
	return s.projectID
}

// FindColumn returns the column bound to the status.
func (s *Store) FindColumn(status models.Status) (*models.Column, error) {
	bc, ok := s.byStatus[status]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrColumnNotFound, status)
	}
	return bc.Column, nil
}

// Occupancy returns how many stories the column for the status holds.
// A missing column counts as zero occupants.
func (s *Store) Occupancy(status models.Status) int {
	bc, ok := s.byStatus[status]
	if !ok {
		return 0
	}
	return bc.Occupancy()
}

// StoryByID finds a story anywhere on the board.
func (s *Store) StoryByID(id types.StoryID) (*models.Story, error) {
	for _, bc := range s.columns {
		for _, story := range bc.Stories {
			if story.ID == id {
				return story, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrStoryNotFound, id)
}

// RemoveStory removes the story from the named column's ordered list.
// It fails if the story is not in that column, which guards against
// double-move races between optimistic mutations.
func (s *Store) RemoveStory(id types.StoryID, from models.Status) (*models.Story, error) {
	bc, ok := s.byStatus[from]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrColumnNotFound, from)
	}
	for i, story := range bc.Stories {
		if story.ID == id {
			bc.Stories = append(bc.Stories[:i], bc.Stories[i+1:]...)
			return story, nil
		}
	}
	return nil, fmt.Errorf("%w: story %s, column %s", models.ErrStoryNotInColumn, id, from)
}

// InsertStory places the story into the destination column and updates the
// story's status to match. A nil position appends to the end; otherwise the
// story is inserted at the given index (clamped to the list bounds).
func (s *Store) InsertStory(story *models.Story, into models.Status, at *int) error {
	bc, ok := s.byStatus[into]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrColumnNotFound, into)
	}

	story.Status = into

	if at == nil || *at >= len(bc.Stories) {
		bc.Stories = append(bc.Stories, story)
		return nil
	}
	idx := *at
	if idx < 0 {
		idx = 0
	}
	bc.Stories = append(bc.Stories, nil)
	copy(bc.Stories[idx+1:], bc.Stories[idx:])
	bc.Stories[idx] = story
	return nil
}

// Snapshot returns an immutable copy of the board for rendering. The
// board-wide blocked count is recomputed on every snapshot.
func (s *Store) Snapshot() *models.BoardView {
	view := &models.BoardView{
		ProjectID: s.projectID,
		Columns:   s.columns,
	}
	view.BlockedCount = s.Occupancy(models.StatusBlocked)
	return view.Clone()
}
