package models

// Column represents one board column, bound one-to-one with a Status.
// A board holds at most one column per status.
type Column struct {
	Status Status `json:"status"`
	Name   string `json:"name"`
	// Limit is the WIP limit for the column. nil means unlimited.
	Limit       *int   `json:"wip_limit,omitempty"`
	Position    int    `json:"position"`
	Description string `json:"description,omitempty"`
}

// Limited returns true if the column has a finite WIP limit.
func (c *Column) Limited() bool {
	return c.Limit != nil
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	out := *c
	if c.Limit != nil {
		v := *c.Limit
		out.Limit = &v
	}
	return &out
}
