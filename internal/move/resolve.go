package move

import (
	"github.com/tablerohq/tablero/internal/board"
	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/types"
)

// DropTarget describes where a dragged story was released. Exactly one
// field is set: a drop directly on a column, or a drop on another story
// card. A zero DropTarget means the gesture ended outside any target.
type DropTarget struct {
	Column  *models.Status
	StoryID types.StoryID
}

// ResolveDestination maps a drop target to a destination status. Dropping
// on a story resolves to that story's current column. The second return is
// false when no valid destination could be resolved (cancelled gesture).
func ResolveDestination(store *board.Store, target DropTarget) (models.Status, bool) {
	if target.Column != nil {
		if _, err := store.FindColumn(*target.Column); err != nil {
			return "", false
		}
		return *target.Column, true
	}
	if target.StoryID != "" {
		story, err := store.StoryByID(target.StoryID)
		if err != nil {
			return "", false
		}
		return story.Status, true
	}
	return "", false
}
