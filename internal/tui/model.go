// Package tui is the interactive board: columns of story cards driven by a
// grab-and-drop gesture, with live refresh from the daemon's event stream.
package tui

import (
	"context"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/tablerohq/tablero/internal/board"
	"github.com/tablerohq/tablero/internal/events"
	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/move"
	"github.com/tablerohq/tablero/internal/policy"
	"github.com/tablerohq/tablero/internal/types"
)

// notificationLevel grades the banner shown above the board
type notificationLevel int

const (
	notifyNone notificationLevel = iota
	notifyInfo
	notifyWarning
	notifyError
)

// Model is the board's Bubble Tea model. All board mutation goes through
// the orchestrator; the model only holds UI state and render snapshots.
type Model struct {
	ctx       context.Context
	projectID types.ProjectID
	remote    move.RemoteBoard
	policy    *policy.Policy
	store     *board.Store
	orch      *move.Orchestrator
	eventCh   <-chan events.Event

	// Render snapshot, replaced after every mutation or refresh
	view *models.BoardView

	width  int
	height int

	selectedCol int
	selectedRow int
	// grabbedCol remembers where the gesture started so esc can jump back
	grabbedCol int

	notifyLevel notificationLevel
	notifyText  string

	// detail holds the rendered overlay content, empty when closed. The
	// viewport scrolls long stories.
	detail   string
	detailVP viewport.Model

	loading bool
	err     error
}

// InitialModel builds the board model. eventCh may be nil when live
// refresh is disabled.
func InitialModel(ctx context.Context, projectID types.ProjectID, remote move.RemoteBoard, pol *policy.Policy, eventCh <-chan events.Event) Model {
	return Model{
		ctx:       ctx,
		projectID: projectID,
		remote:    remote,
		policy:    pol,
		eventCh:   eventCh,
		loading:   true,
	}
}

// Init kicks off the initial board load and the event subscription
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadBoardCmd(), m.waitForEventCmd())
}

// ============================================================================
// MESSAGES
// ============================================================================

// BoardLoadedMsg carries a fresh canonical board
type BoardLoadedMsg struct {
	View *models.BoardView
}

// BoardLoadFailedMsg reports a failed board fetch
type BoardLoadFailedMsg struct {
	Err error
}

// MoveResultMsg reports the outcome of a committed move
type MoveResultMsg struct {
	View *models.BoardView
	Err  error
}

// RefreshMsg signals that the daemon broadcast a board change
type RefreshMsg struct {
	Event events.Event
}

// DetailRenderedMsg carries the markdown-rendered story detail
type DetailRenderedMsg struct {
	Content string
}

// ============================================================================
// COMMANDS
// ============================================================================

func (m Model) loadBoardCmd() tea.Cmd {
	return func() tea.Msg {
		view, err := m.remote.FetchBoard(m.ctx, m.projectID)
		if err != nil {
			return BoardLoadFailedMsg{Err: err}
		}
		return BoardLoadedMsg{View: view}
	}
}

// commitMoveCmd pushes the applied move to the daemon. Runs off the event
// loop so the UI keeps rendering the optimistic board meanwhile.
func (m Model) commitMoveCmd() tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		view, err := orch.Commit(m.ctx)
		return MoveResultMsg{View: view, Err: err}
	}
}

// waitForEventCmd blocks on the event channel and resubscribes after each
// delivery
func (m Model) waitForEventCmd() tea.Cmd {
	if m.eventCh == nil {
		return nil
	}
	ch := m.eventCh
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return RefreshMsg{Event: event}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) renderDetailCmd(story *models.Story) tea.Cmd {
	return func() tea.Msg {
		content, err := glamour.Render(storyMarkdown(story), "dark")
		if err != nil {
			content = story.Title + "\n\n" + story.Description
		}
		return DetailRenderedMsg{Content: content}
	}
}

// ============================================================================
// ACCESSORS
// ============================================================================

// SelectedStory returns the story under the cursor, nil when the column
// is empty
func (m Model) SelectedStory() *models.Story {
	if m.view == nil || m.selectedCol >= len(m.view.Columns) {
		return nil
	}
	col := m.view.Columns[m.selectedCol]
	if m.selectedRow >= len(col.Stories) {
		return nil
	}
	return col.Stories[m.selectedRow]
}

// SelectedStatus returns the status of the column under the cursor
func (m Model) SelectedStatus() (models.Status, bool) {
	if m.view == nil || m.selectedCol >= len(m.view.Columns) {
		return "", false
	}
	return m.view.Columns[m.selectedCol].Column.Status, true
}

// Grabbed returns the story being moved, if a gesture is active
func (m Model) Grabbed() (types.StoryID, bool) {
	if m.orch == nil {
		return "", false
	}
	return m.orch.Dragging()
}

// Store exposes the board store for tests
func (m Model) Store() *board.Store {
	return m.store
}

// adoptView installs a fresh canonical board and rebuilds the store and
// orchestrator around it, keeping the cursor in bounds
func (m Model) adoptView(view *models.BoardView) Model {
	m.view = view
	m.store = board.FromView(view)
	m.orch = move.NewOrchestrator(m.policy, m.store, m.remote)
	m.loading = false
	m.clampCursor()
	return m
}

func (m *Model) clampCursor() {
	if m.view == nil || len(m.view.Columns) == 0 {
		m.selectedCol, m.selectedRow = 0, 0
		return
	}
	if m.selectedCol >= len(m.view.Columns) {
		m.selectedCol = len(m.view.Columns) - 1
	}
	stories := m.view.Columns[m.selectedCol].Stories
	if m.selectedRow >= len(stories) {
		m.selectedRow = max(len(stories)-1, 0)
	}
}

func (m *Model) notify(level notificationLevel, text string) {
	m.notifyLevel = level
	m.notifyText = text
}

func (m *Model) clearNotification() {
	m.notifyLevel = notifyNone
	m.notifyText = ""
}
