package move

import (
	"fmt"

	"github.com/tablerohq/tablero/internal/board"
	"github.com/tablerohq/tablero/internal/models"
	"github.com/tablerohq/tablero/internal/policy"
)

// Reason classifies why a proposed move was rejected.
type Reason string

const (
	// ReasonNoOp means the story was dropped on its current column.
	// The UI treats this as a silent cancel, not an error.
	ReasonNoOp Reason = "no_op"
	// ReasonIllegalTransition means the destination is not reachable from
	// the source per the transition graph.
	ReasonIllegalTransition Reason = "illegal_transition"
	// ReasonWipLimitExceeded means the destination column is full.
	ReasonWipLimitExceeded Reason = "wip_limit_exceeded"
	// ReasonCompletionRequirementsUnmet means the story does not satisfy
	// the destination's completion requirements.
	ReasonCompletionRequirementsUnmet Reason = "completion_requirements_unmet"
)

// Verdict is the result of validating a proposed move.
type Verdict struct {
	OK      bool
	Reason  Reason
	Message string
}

// Accept is the verdict for a legal move.
var Accept = Verdict{OK: true}

func reject(reason Reason, message string) Verdict {
	return Verdict{Reason: reason, Message: message}
}

// Validate decides whether moving a story between two statuses is legal
// under the policy and the board's current occupancy. Checks run in order:
// same-column no-op, transition legality, WIP headroom, completion
// requirements. Occupancy is read from the store before any optimistic
// mutation for this move.
func Validate(pol *policy.Policy, store *board.Store, story *models.Story, from, to models.Status) Verdict {
	if from == to {
		return reject(ReasonNoOp, "")
	}

	if !pol.IsReachable(from, to) {
		return reject(ReasonIllegalTransition,
			fmt.Sprintf("stories cannot move from %s to %s", from.DisplayName(), to.DisplayName()))
	}

	// The canonical board carries the live limit, which may have been
	// edited on the daemon since this policy file was loaded.
	limit := pol.LimitFor(to)
	if col, err := store.FindColumn(to); err == nil && col.Limit != nil {
		limit = col.Limit
	}
	if limit != nil && store.Occupancy(to) >= *limit {
		return reject(ReasonWipLimitExceeded,
			fmt.Sprintf("%s is at its WIP limit of %d", to.DisplayName(), *limit))
	}

	if ok, requirement := pol.CompletionRequirementsMet(story, to); !ok {
		return reject(ReasonCompletionRequirementsUnmet,
			fmt.Sprintf("%s is required before a story can enter %s", requirement, to.DisplayName()))
	}

	return Accept
}
