package board

import "github.com/tablerohq/tablero/internal/models"

// warningThreshold is the fraction of the WIP limit at which a column is
// flagged as approaching its limit.
const warningThreshold = 0.8

// WIPIndicator annotates a column's occupancy relative to its WIP limit.
// Derived and read-only; recomputed for every snapshot.
type WIPIndicator struct {
	// Exceeded is true when the column holds more stories than its limit.
	Exceeded bool
	// Warning is true when occupancy has reached 80% of the limit but the
	// limit is not yet exceeded.
	Warning bool
}

// Indicator computes the WIP indicator for a column at a given occupancy.
// Columns without a limit never warn or exceed.
func Indicator(col *models.Column, occupancy int) WIPIndicator {
	if col == nil || col.Limit == nil {
		return WIPIndicator{}
	}
	limit := *col.Limit
	if occupancy > limit {
		return WIPIndicator{Exceeded: true}
	}
	return WIPIndicator{Warning: float64(occupancy) >= warningThreshold*float64(limit)}
}

// Indicator computes the WIP indicator for the store's column bound to
// the status.
func (s *Store) Indicator(status models.Status) WIPIndicator {
	bc, ok := s.byStatus[status]
	if !ok {
		return WIPIndicator{}
	}
	return Indicator(bc.Column, bc.Occupancy())
}
