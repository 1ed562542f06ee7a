// Package move coordinates one drag-and-drop gesture end to end: validating
// the proposed transition, applying the optimistic board mutation, issuing
// the remote status change, and reconciling success or failure.
package move

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tablerohq/tablero/internal/board"
	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/policy"
	"github.com/tablerohq/tablero/internal/types"
)

// State labels where the orchestrator is in the gesture lifecycle.
type State int

const (
	// StateIdle means no gesture is active.
	StateIdle State = iota
	// StateDragging means a story has been picked up but not dropped.
	StateDragging
	// StateResolving means a drop is being resolved and validated.
	StateResolving
	// StateCommitted means the optimistic mutation has been applied; the
	// remote request confirmed it, or is still in flight.
	StateCommitted
	// StateRolledBack means the remote request failed and the board was
	// restored to its pre-move state.
	StateRolledBack
)

// String returns a short label for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateResolving:
		return "resolving"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// RemoteBoard is the slice of the daemon API the orchestrator needs: the
// canonical board snapshot and the one mutating call the core ever issues.
type RemoteBoard interface {
	FetchBoard(ctx context.Context, projectID types.ProjectID) (*models.BoardView, error)
	UpdateStoryStatus(ctx context.Context, storyID types.StoryID, status models.Status) (*models.Story, error)
}

// DropOutcome classifies how a drop resolved.
type DropOutcome int

const (
	// DropCancelled means no valid target was under the pointer; the
	// gesture ended with zero side effects.
	DropCancelled DropOutcome = iota
	// DropNoOp means the story was dropped on its own column; silently
	// absorbed, no mutation, no request.
	DropNoOp
	// DropRejected means the move is locally illegal; no mutation was
	// made and nothing was sent remotely.
	DropRejected
	// DropApplied means the optimistic mutation was applied; the caller
	// must now run Commit to confirm it remotely.
	DropApplied
)

// DropResult reports how a drop resolved, with the rejection reason and a
// user-facing message when applicable.
type DropResult struct {
	Outcome DropOutcome
	Reason  Reason
	Message string
	Intent  *models.MoveIntent
}

// Orchestrator drives the move state machine for one board session. It is
// not safe for concurrent use; a single pointer drives one gesture at a
// time, so no locking is needed.
type Orchestrator struct {
	policy  *policy.Policy
	store   *board.Store
	remote  RemoteBoard
	state   State
	intent  *models.MoveIntent
	preMove *models.BoardView
}

// NewOrchestrator wires the orchestrator to its collaborators.
func NewOrchestrator(pol *policy.Policy, store *board.Store, remote RemoteBoard) *Orchestrator {
	return &Orchestrator{
		policy: pol,
		store:  store,
		remote: remote,
		state:  StateIdle,
	}
}

// State returns the current gesture state.
func (o *Orchestrator) State() State {
	return o.state
}

// Dragging returns the story being dragged, if a gesture is active.
func (o *Orchestrator) Dragging() (types.StoryID, bool) {
	if o.intent == nil || (o.state != StateDragging && o.state != StateResolving) {
		return "", false
	}
	return o.intent.StoryID, true
}

// DragStart begins a gesture by pinning the dragged story. No mutation
// happens until the drop resolves. Starting a drag is only legal when no
// other gesture is between drag-start and commit.
func (o *Orchestrator) DragStart(storyID types.StoryID) error {
	switch o.state {
	case StateIdle, StateCommitted, StateRolledBack:
	default:
		return ErrGestureInProgress
	}

	story, err := o.store.StoryByID(storyID)
	if err != nil {
		return err
	}

	o.intent = &models.MoveIntent{StoryID: storyID, From: story.Status}
	o.preMove = nil
	o.state = StateDragging
	return nil
}

// CancelDrag abandons an unresolved gesture with zero side effects.
func (o *Orchestrator) CancelDrag() {
	if o.state == StateDragging || o.state == StateResolving {
		o.intent = nil
		o.state = StateIdle
	}
}

// Drop resolves the destination, validates the move, and applies the
// optimistic mutation when accepted. Rejected moves never mutate the board
// and never reach the daemon.
func (o *Orchestrator) Drop(target DropTarget) DropResult {
	if o.state != StateDragging || o.intent == nil {
		return DropResult{Outcome: DropCancelled}
	}
	o.state = StateResolving

	to, ok := ResolveDestination(o.store, target)
	if !ok {
		o.reset(StateIdle)
		return DropResult{Outcome: DropCancelled}
	}
	o.intent.To = to

	story, err := o.store.StoryByID(o.intent.StoryID)
	if err != nil {
		// The story vanished between drag-start and drop; treat as a
		// cancelled gesture rather than an error.
		slog.Warn("dragged story disappeared before drop", "story", o.intent.StoryID, "error", err)
		o.reset(StateIdle)
		return DropResult{Outcome: DropCancelled}
	}

	verdict := Validate(o.policy, o.store, story, o.intent.From, to)
	if !verdict.OK {
		intent := o.intent
		o.reset(StateIdle)
		if verdict.Reason == ReasonNoOp {
			return DropResult{Outcome: DropNoOp, Reason: ReasonNoOp, Intent: intent}
		}
		return DropResult{
			Outcome: DropRejected,
			Reason:  verdict.Reason,
			Message: verdict.Message,
			Intent:  intent,
		}
	}

	// Snapshot before mutating so a remote failure can restore the board
	// exactly as it was when the drag started.
	o.preMove = o.store.Snapshot()

	removed, err := o.store.RemoveStory(o.intent.StoryID, o.intent.From)
	if err != nil {
		slog.Error("optimistic remove failed", "story", o.intent.StoryID, "error", err)
		o.reset(StateIdle)
		return DropResult{Outcome: DropCancelled}
	}
	if err := o.store.InsertStory(removed, to, nil); err != nil {
		slog.Error("optimistic insert failed", "story", o.intent.StoryID, "error", err)
		o.store.Reset(o.preMove)
		o.reset(StateIdle)
		return DropResult{Outcome: DropCancelled}
	}

	o.state = StateCommitted
	return DropResult{Outcome: DropApplied, Intent: o.intent}
}

// Commit issues the remote status change for the applied move and
// reconciles the outcome. On success the board is refreshed from the
// canonical snapshot, which also picks up any server-side side effects.
// On failure the pre-move board is restored and the error is returned for
// the UI to surface. A move cannot be cancelled once the request is sent.
func (o *Orchestrator) Commit(ctx context.Context) (*models.BoardView, error) {
	if o.state != StateCommitted || o.intent == nil || o.preMove == nil {
		return nil, ErrNoMoveInFlight
	}
	intent := o.intent

	if _, err := o.remote.UpdateStoryStatus(ctx, intent.StoryID, intent.To); err != nil {
		o.store.Reset(o.preMove)
		o.reset(StateRolledBack)
		return nil, fmt.Errorf("move of %s to %s failed: %w", intent.StoryID, intent.To.DisplayName(), err)
	}

	view, err := o.remote.FetchBoard(ctx, o.store.ProjectID())
	if err != nil {
		// The move itself succeeded; keep the optimistic state and let the
		// next refresh converge on the canonical board.
		slog.Warn("board refresh after move failed", "project", o.store.ProjectID(), "error", err)
		o.reset(StateCommitted)
		return o.store.Snapshot(), nil
	}

	o.store.Reset(view)
	o.reset(StateCommitted)
	return o.store.Snapshot(), nil
}

// reset clears the gesture and records the terminal state.
func (o *Orchestrator) reset(state State) {
	o.intent = nil
	o.preMove = nil
	o.state = state
}
