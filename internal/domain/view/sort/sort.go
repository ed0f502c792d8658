// Package sort implements the single-column cycling sort stage of the
// table view.
package sort

import (
	"slices"
	"strings"

	"github.com/studyshelf/studyshelf/internal/domain/document"
	"github.com/studyshelf/studyshelf/internal/domain/view"
)

// Direction is the sort direction of the active column.
type Direction int

const (
	// None means no explicit sort; rows keep collection order.
	None Direction = iota
	// Ascending sorts oldest (or lexicographically smallest) first.
	Ascending
	// Descending sorts newest (or lexicographically largest) first.
	Descending
)

// String returns the wire name of the direction.
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// State tracks at most one sorted column. The zero value means unsorted.
type State struct {
	column    view.Column
	direction Direction
}

// Column returns the active sort column (empty when unsorted).
func (s State) Column() view.Column {
	if s.direction == None {
		return ""
	}
	return s.column
}

// Direction returns the active sort direction.
func (s State) Direction() Direction { return s.direction }

// Toggle advances the sort state for a column. A fresh column starts at
// Ascending; repeated toggles cycle Ascending, Descending, None. Toggling
// an unsortable column is a no-op, and selecting a new column discards the
// previous one entirely.
func (s *State) Toggle(col view.Column) {
	if !col.Sortable() {
		return
	}
	if s.direction == None || s.column != col {
		s.column = col
		s.direction = Ascending
		return
	}
	switch s.direction {
	case Ascending:
		s.direction = Descending
	default:
		s.column = ""
		s.direction = None
	}
}

// Reset returns the state to unsorted.
func (s *State) Reset() {
	s.column = ""
	s.direction = None
}

// Apply returns a sorted copy of rows. With no active sort the input order
// is preserved as-is. The sort is stable, so rows comparing equal keep their
// filtered order.
func (s State) Apply(rows []document.Document) []document.Document {
	out := make([]document.Document, len(rows))
	copy(out, rows)
	if s.direction == None {
		return out
	}
	slices.SortStableFunc(out, func(a, b document.Document) int {
		c := compare(s.column, &a, &b)
		if s.direction == Descending {
			c = -c
		}
		return c
	})
	return out
}

// compare orders two documents on one column: chronologically for date
// columns, lexicographically on the projection otherwise.
func compare(col view.Column, a, b *document.Document) int {
	switch col {
	case view.ColumnCreatedAt:
		return a.CreatedAt().Compare(b.CreatedAt())
	case view.ColumnUpdatedAt:
		return a.UpdatedAt().Compare(b.UpdatedAt())
	default:
		return strings.Compare(col.Project(a), col.Project(b))
	}
}
