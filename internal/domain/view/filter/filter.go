// Package filter implements the table-view filter registry: one optional
// global text filter plus at most one argument per filterable column, all
// combined with AND across columns.
package filter

import (
	"strings"
	"time"

	"github.com/studyshelf/studyshelf/internal/domain/document"
	"github.com/studyshelf/studyshelf/internal/domain/view"
)

// Kind discriminates the filter argument union.
type Kind int

const (
	// KindNone marks an absent argument (no constraint).
	KindNone Kind = iota
	// KindText is a case-insensitive substring match.
	KindText
	// KindTags requires every listed tag to be present on the document.
	KindTags
	// KindDateRange is an inclusive range over either date column.
	KindDateRange
)

// Argument is the tagged union of filter payloads. The zero value means
// "no constraint"; constructors that receive empty or malformed input
// collapse to it rather than erroring.
type Argument struct {
	kind  Kind
	text  string
	tags  []string
	start time.Time
	end   time.Time
}

// Text builds a substring argument. Whitespace-only input clears.
func Text(query string) Argument {
	query = strings.TrimSpace(query)
	if query == "" {
		return Argument{}
	}
	return Argument{kind: KindText, text: query}
}

// Tags builds a tag-intersection argument. Blank entries are dropped;
// an empty selection clears.
func Tags(tags []string) Argument {
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return Argument{}
	}
	return Argument{kind: KindTags, tags: kept}
}

// DateRange builds an inclusive date-range argument. Zero endpoints or an
// inverted range clear.
func DateRange(start, end time.Time) Argument {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return Argument{}
	}
	return Argument{kind: KindDateRange, start: start, end: end}
}

// Kind returns the argument's payload kind.
func (a Argument) Kind() Kind { return a.kind }

// IsZero reports whether the argument carries no constraint.
func (a Argument) IsZero() bool { return a.kind == KindNone }

// matches evaluates the argument against a single document's column.
func (a Argument) matches(col view.Column, d *document.Document) bool {
	switch a.kind {
	case KindText:
		return strings.Contains(
			strings.ToLower(col.Project(d)),
			strings.ToLower(a.text),
		)
	case KindTags:
		for _, t := range a.tags {
			if !d.HasTag(t) {
				return false
			}
		}
		return true
	case KindDateRange:
		// A document passes when either timestamp falls inside the range.
		return within(d.CreatedAt(), a.start, a.end) ||
			within(d.UpdatedAt(), a.start, a.end)
	default:
		return true
	}
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// accepts reports whether the argument kind fits the column: the tags column
// takes KindTags, date columns take KindDateRange, text columns take KindText.
func accepts(col view.Column, a Argument) bool {
	switch col {
	case view.ColumnTags:
		return a.kind == KindTags
	case view.ColumnCreatedAt, view.ColumnUpdatedAt:
		return a.kind == KindDateRange
	case view.ColumnTitle, view.ColumnContent:
		return a.kind == KindText
	default:
		return false
	}
}

// Registry holds the active filter state of one table view.
type Registry struct {
	global  string
	columns map[view.Column]Argument
}

// NewRegistry creates an empty registry (everything matches).
func NewRegistry() *Registry {
	return &Registry{columns: make(map[view.Column]Argument)}
}

// Set installs or replaces the argument for a column. A zero argument, an
// unfilterable column, or a kind mismatch clears the column instead.
func (r *Registry) Set(col view.Column, arg Argument) {
	if !col.Filterable() || arg.IsZero() || !accepts(col, arg) {
		delete(r.columns, col)
		return
	}
	r.columns[col] = arg
}

// Clear removes the column's filter.
func (r *Registry) Clear(col view.Column) {
	delete(r.columns, col)
}

// SetGlobal installs the global text filter. Whitespace-only input clears it.
func (r *Registry) SetGlobal(query string) {
	r.global = strings.TrimSpace(query)
}

// Global returns the current global filter text.
func (r *Registry) Global() string { return r.global }

// Column returns the active argument for a column (zero when unset).
func (r *Registry) Column(col view.Column) Argument {
	return r.columns[col]
}

// Active reports whether any filter is currently set.
func (r *Registry) Active() bool {
	return r.global != "" || len(r.columns) > 0
}

// ClearAll removes the global filter and every column filter.
func (r *Registry) ClearAll() {
	r.global = ""
	clear(r.columns)
}

// Matches reports whether a document passes every active filter: the global
// filter must match at least one visible column's projection, and each
// column argument must match its own column.
func (r *Registry) Matches(d *document.Document) bool {
	if r.global != "" {
		hit := false
		needle := strings.ToLower(r.global)
		for _, col := range view.VisibleColumns() {
			if strings.Contains(strings.ToLower(col.Project(d)), needle) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for col, arg := range r.columns {
		if !arg.matches(col, d) {
			return false
		}
	}
	return true
}

// Apply returns the documents passing Matches, preserving input order.
func (r *Registry) Apply(docs []document.Document) []document.Document {
	if !r.Active() {
		out := make([]document.Document, len(docs))
		copy(out, docs)
		return out
	}
	out := make([]document.Document, 0, len(docs))
	for i := range docs {
		if r.Matches(&docs[i]) {
			out = append(out, docs[i])
		}
	}
	return out
}
