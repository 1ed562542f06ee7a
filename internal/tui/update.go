package tui

import (
	"fmt"
	"log/slog"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/move"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case BoardLoadedMsg:
		m = m.adoptView(msg.View)
		return m, nil

	case BoardLoadFailedMsg:
		m.loading = false
		m.err = msg.Err
		m.notify(notifyError, "daemon unreachable: board may be stale")
		slog.Error("board load failed", "error", msg.Err)
		return m, nil

	case MoveResultMsg:
		return m.handleMoveResult(msg)

	case RefreshMsg:
		return m.handleRefresh(msg)

	case DetailRenderedMsg:
		m.detail = msg.Content
		m.detailVP = viewport.New()
		m.detailVP.SetWidth(min(m.width-12, 76))
		m.detailVP.SetHeight(min(m.height-8, 30))
		m.detailVP.SetContent(msg.Content)
		return m, nil
	}

	return m, nil
}

// ============================================================================
// KEY HANDLERS
// ============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The detail overlay swallows everything except close keys; other
	// keys scroll the viewport
	if m.detail != "" {
		switch msg.String() {
		case "esc", "q", "enter":
			m.detail = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.detailVP, cmd = m.detailVP.Update(msg)
		return m, cmd
	}

	m.clearNotification()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "h", "left":
		return m.handleNavigateLeft()
	case "l", "right":
		return m.handleNavigateRight()
	case "j", "down":
		return m.handleNavigateDown()
	case "k", "up":
		return m.handleNavigateUp()
	case " ", "g":
		return m.handleGrabOrDrop()
	case "esc":
		return m.handleCancelDrag()
	case "enter":
		return m.handleOpenDetail()
	case "r":
		m.loading = true
		return m, m.loadBoardCmd()
	}

	return m, nil
}

func (m Model) handleNavigateLeft() (tea.Model, tea.Cmd) {
	if m.selectedCol > 0 {
		m.selectedCol--
		m.selectedRow = 0
		m.clampCursor()
	}
	return m, nil
}

func (m Model) handleNavigateRight() (tea.Model, tea.Cmd) {
	if m.view != nil && m.selectedCol < len(m.view.Columns)-1 {
		m.selectedCol++
		m.selectedRow = 0
		m.clampCursor()
	}
	return m, nil
}

func (m Model) handleNavigateDown() (tea.Model, tea.Cmd) {
	if m.view == nil {
		return m, nil
	}
	stories := m.view.Columns[m.selectedCol].Stories
	if m.selectedRow < len(stories)-1 {
		m.selectedRow++
	}
	return m, nil
}

func (m Model) handleNavigateUp() (tea.Model, tea.Cmd) {
	if m.selectedRow > 0 {
		m.selectedRow--
	}
	return m, nil
}

// handleGrabOrDrop starts a gesture on the selected card, or resolves it
// when one is active. A successful drop applies the move to the board
// immediately and commits to the daemon in the background.
func (m Model) handleGrabOrDrop() (tea.Model, tea.Cmd) {
	if m.orch == nil {
		return m, nil
	}

	if _, dragging := m.orch.Dragging(); !dragging {
		story := m.SelectedStory()
		if story == nil {
			return m, nil
		}
		if err := m.orch.DragStart(story.ID); err != nil {
			m.notify(notifyWarning, err.Error())
			return m, nil
		}
		m.grabbedCol = m.selectedCol
		return m, nil
	}

	status, ok := m.SelectedStatus()
	if !ok {
		m.orch.CancelDrag()
		return m, nil
	}

	result := m.orch.Drop(move.DropTarget{Column: &status})
	switch result.Outcome {
	case DropNoOp:
		return m, nil
	case DropRejected:
		m.notify(notifyWarning, result.Message)
		m.selectedCol = m.grabbedCol
		m.clampCursor()
		return m, nil
	case DropApplied:
		m.view = m.store.Snapshot()
		m.selectedRow = max(len(m.view.Columns[m.selectedCol].Stories)-1, 0)
		return m, m.commitMoveCmd()
	default:
		return m, nil
	}
}

func (m Model) handleCancelDrag() (tea.Model, tea.Cmd) {
	if m.orch == nil {
		return m, nil
	}
	if _, dragging := m.orch.Dragging(); dragging {
		m.orch.CancelDrag()
		m.selectedCol = m.grabbedCol
		m.clampCursor()
	}
	return m, nil
}

func (m Model) handleOpenDetail() (tea.Model, tea.Cmd) {
	story := m.SelectedStory()
	if story == nil {
		return m, nil
	}
	return m, m.renderDetailCmd(story)
}

// ============================================================================
// RESULT HANDLERS
// ============================================================================

func (m Model) handleMoveResult(msg MoveResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// The orchestrator already restored the pre-move board
		m.view = m.store.Snapshot()
		m.clampCursor()
		m.notify(notifyError, fmt.Sprintf("move failed: %v", msg.Err))
		slog.Warn("move rolled back", "error", msg.Err)
		return m, nil
	}

	m.view = msg.View
	m.clampCursor()
	return m, nil
}

// handleRefresh reloads the board when the daemon reports a change. A
// refresh during an active gesture is deferred; the next event or manual
// refresh converges the board.
func (m Model) handleRefresh(msg RefreshMsg) (tea.Model, tea.Cmd) {
	resubscribe := m.waitForEventCmd()

	if m.orch != nil {
		if _, dragging := m.orch.Dragging(); dragging {
			return m, resubscribe
		}
	}
	return m, tea.Batch(m.loadBoardCmd(), resubscribe)
}

// Aliases so key handlers read naturally
const (
	DropNoOp     = move.DropNoOp
	DropRejected = move.DropRejected
	DropApplied  = move.DropApplied
)

func storyMarkdown(story *models.Story) string {
	md := "# " + story.Title + "\n\n"
	md += fmt.Sprintf("**%s** · %s · %s\n\n", story.Type, story.Priority, story.Status.DisplayName())
	if story.Estimate != nil {
		md += fmt.Sprintf("Estimate: %d points\n\n", *story.Estimate)
	}
	if story.Description != "" {
		md += story.Description + "\n\n"
	}
	if story.AcceptanceCriteria != "" {
		md += "## Acceptance Criteria\n\n" + story.AcceptanceCriteria + "\n"
	}
	if story.BlockedReason != "" {
		md += "## Blocked\n\n" + story.BlockedReason + "\n"
	}
	return md
}
