// Package policy defines the board's workflow rules: which columns exist,
// their WIP limits, and which status transitions are legal. The policy is
// pure configuration plus predicates; it never touches board state.
package policy

import (
	"fmt"

	"github.com/tablerohq/tablero/internal/models"
)

// MaxLimit is the largest WIP limit a column may be configured with.
const MaxLimit = 100

// CompletionCheck decides whether a story satisfies the completion
// requirements of a destination status. When the requirements are unmet,
// the returned string names the missing requirement for user-facing
// messages. The policy supplies a default; callers may inject their own.
type CompletionCheck func(story *models.Story, to models.Status) (bool, string)

// Policy holds the column set, WIP limits, and transition graph for a board.
type Policy struct {
	columns     []*models.Column
	byStatus    map[models.Status]*models.Column
	transitions map[models.Status][]models.Status
	completion  CompletionCheck
}

// Default returns the compiled-in policy: the standard seven columns with
// WIP limits on the active stages and the default transition graph.
func Default() *Policy {
	inProgress, review, testing := 3, 2, 2
	p, err := New(
		[]*models.Column{
			{Status: models.StatusBacklog, Name: "Backlog", Position: 0},
			{Status: models.StatusInProgress, Name: "In Progress", Limit: &inProgress, Position: 1},
			{Status: models.StatusReview, Name: "Review", Limit: &review, Position: 2},
			{Status: models.StatusTesting, Name: "Testing", Limit: &testing, Position: 3},
			{Status: models.StatusDone, Name: "Done", Position: 4},
			{Status: models.StatusBlocked, Name: "Blocked", Position: 5},
			{Status: models.StatusArchived, Name: "Archived", Position: 6},
		},
		defaultTransitions(),
	)
	if err != nil {
		// The compiled-in policy is validated by tests; a failure here is a bug.
		panic(fmt.Sprintf("invalid default policy: %v", err))
	}
	return p
}

func defaultTransitions() map[models.Status][]models.Status {
	return map[models.Status][]models.Status{
		models.StatusBacklog:    {models.StatusInProgress, models.StatusArchived},
		models.StatusInProgress: {models.StatusReview, models.StatusBlocked, models.StatusBacklog},
		models.StatusReview:     {models.StatusTesting, models.StatusInProgress, models.StatusBlocked},
		models.StatusTesting:    {models.StatusDone, models.StatusInProgress, models.StatusBlocked},
		models.StatusDone:       {models.StatusArchived},
		models.StatusBlocked:    {models.StatusInProgress, models.StatusBacklog},
		models.StatusArchived:   {},
	}
}

// New builds a policy from a column set and transition graph.
// Columns must be unique per status; limits must be within bounds.
func New(columns []*models.Column, transitions map[models.Status][]models.Status) (*Policy, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	byStatus := make(map[models.Status]*models.Column, len(columns))
	ordered := make([]*models.Column, 0, len(columns))
	for _, col := range columns {
		if !col.Status.IsValid() {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, col.Status)
		}
		if _, exists := byStatus[col.Status]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, col.Status)
		}
		if err := checkLimit(col.Limit); err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Status, err)
		}
		c := col.Clone()
		byStatus[col.Status] = c
		ordered = append(ordered, c)
	}

	graph := make(map[models.Status][]models.Status, len(transitions))
	for from, tos := range transitions {
		if !from.IsValid() {
			return nil, fmt.Errorf("%w: transition source %q", models.ErrInvalidStatus, from)
		}
		for _, to := range tos {
			if !to.IsValid() {
				return nil, fmt.Errorf("%w: transition target %q", models.ErrInvalidStatus, to)
			}
		}
		graph[from] = append([]models.Status(nil), tos...)
	}

	return &Policy{
		columns:     ordered,
		byStatus:    byStatus,
		transitions: graph,
		completion:  defaultCompletionCheck,
	}, nil
}

// defaultCompletionCheck requires acceptance criteria before a story may
// enter Done.
func defaultCompletionCheck(story *models.Story, to models.Status) (bool, string) {
	if to == models.StatusDone && story.AcceptanceCriteria == "" {
		return false, "acceptance criteria"
	}
	return true, ""
}

// WithCompletionCheck replaces the completion-requirement predicate.
func (p *Policy) WithCompletionCheck(check CompletionCheck) *Policy {
	if check != nil {
		p.completion = check
	}
	return p
}

// Columns returns the policy's columns in board order. The returned
// columns are copies; mutating them does not affect the policy.
func (p *Policy) Columns() []*models.Column {
	out := make([]*models.Column, len(p.columns))
	for i, c := range p.columns {
		out[i] = c.Clone()
	}
	return out
}

// LimitFor returns the WIP limit for the status. nil means unlimited.
func (p *Policy) LimitFor(status models.Status) *int {
	col, ok := p.byStatus[status]
	if !ok || col.Limit == nil {
		return nil
	}
	v := *col.Limit
	return &v
}

// HasColumn returns true if the policy defines a column for the status.
func (p *Policy) HasColumn(status models.Status) bool {
	_, ok := p.byStatus[status]
	return ok
}

// IsReachable returns true if the transition graph allows moving a story
// from one status directly to another. The graph need not be symmetric.
func (p *Policy) IsReachable(from, to models.Status) bool {
	for _, next := range p.transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status has no outgoing transitions.
func (p *Policy) IsTerminal(status models.Status) bool {
	return len(p.transitions[status]) == 0
}

// CompletionRequirementsMet reports whether the story satisfies the
// completion requirements of the destination status. When unmet, the
// returned string names the missing requirement.
func (p *Policy) CompletionRequirementsMet(story *models.Story, to models.Status) (bool, string) {
	return p.completion(story, to)
}

// SetLimit replaces a column's WIP limit. Only the new value's bounds are
// validated; current occupancy is deliberately not checked, so a column may
// transiently exceed a freshly lowered limit until stories are moved out.
// The WIP indicator flags such columns as exceeded.
func (p *Policy) SetLimit(status models.Status, limit *int) error {
	col, ok := p.byStatus[status]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}
	if err := checkLimit(limit); err != nil {
		return err
	}
	if limit == nil {
		col.Limit = nil
		return nil
	}
	v := *limit
	col.Limit = &v
	return nil
}

// CheckLimit validates a prospective WIP limit for the status without
// applying it. Used where the canonical limit lives elsewhere and the
// policy only supplies the bounds.
func (p *Policy) CheckLimit(status models.Status, limit *int) error {
	if _, ok := p.byStatus[status]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, status)
	}
	return checkLimit(limit)
}

func checkLimit(limit *int) error {
	if limit == nil {
		return nil
	}
	if *limit < 1 || *limit > MaxLimit {
		return fmt.Errorf("%w: %d (allowed 1..%d)", ErrLimitOutOfBounds, *limit, MaxLimit)
	}
	return nil
}
