package models

import "github.com/tablerohq/tablero/internal/types"

// BoardColumn pairs a column with the ordered stories it currently holds.
type BoardColumn struct {
	Column  *Column  `json:"column"`
	Stories []*Story `json:"stories"`
}

// Occupancy returns how many stories the column currently holds.
func (bc *BoardColumn) Occupancy() int {
	return len(bc.Stories)
}

// BoardView is the aggregate view of one project's board: ordered columns,
// each holding its ordered member stories, plus a board-wide count of
// blocked stories.
//
// A BoardView is constructed fresh from a canonical snapshot whenever the
// daemon is queried; between refreshes it is mutated locally only by the
// move orchestrator's optimistic updates. There is a single writer per
// client session.
type BoardView struct {
	ProjectID    types.ProjectID `json:"project_id"`
	Columns      []*BoardColumn  `json:"columns"`
	BlockedCount int             `json:"blocked_count"`
}

// Clone returns a deep copy of the board view.
func (v *BoardView) Clone() *BoardView {
	out := &BoardView{
		ProjectID:    v.ProjectID,
		Columns:      make([]*BoardColumn, len(v.Columns)),
		BlockedCount: v.BlockedCount,
	}
	for i, bc := range v.Columns {
		stories := make([]*Story, len(bc.Stories))
		for j, s := range bc.Stories {
			stories[j] = s.Clone()
		}
		out.Columns[i] = &BoardColumn{
			Column:  bc.Column.Clone(),
			Stories: stories,
		}
	}
	return out
}

// MoveIntent captures one in-flight drag gesture: which story is being
// moved and between which statuses. It is created at drag-start and
// discarded when the gesture resolves; it is never persisted.
type MoveIntent struct {
	StoryID types.StoryID
	From    Status
	To      Status
}
