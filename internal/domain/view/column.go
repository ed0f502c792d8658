// Package view defines the table-view column model shared by the filter,
// sort, and pagination stages.
package view

import (
	"strings"

	"github.com/studyshelf/studyshelf/internal/domain/document"
)

// DateDisplayFormat is how date cells render; the global filter matches
// against this projection so users can search what they see.
const DateDisplayFormat = "02/01/2006"

// Column identifies a table column.
type Column string

// Table columns. ColumnDelete is the action column: never filterable, never
// sortable, and excluded from the global text projection.
const (
	ColumnTitle     Column = "title"
	ColumnContent   Column = "content"
	ColumnTags      Column = "tags"
	ColumnCreatedAt Column = "createdAt"
	ColumnUpdatedAt Column = "updatedAt"
	ColumnDelete    Column = "delete"
)

// Columns lists every table column in display order.
func Columns() []Column {
	return []Column{
		ColumnTitle, ColumnContent, ColumnTags,
		ColumnCreatedAt, ColumnUpdatedAt, ColumnDelete,
	}
}

// VisibleColumns lists the columns whose projections participate in the
// global filter.
func VisibleColumns() []Column {
	return []Column{
		ColumnTitle, ColumnContent, ColumnTags,
		ColumnCreatedAt, ColumnUpdatedAt,
	}
}

// IsValid reports whether c names a known column.
func (c Column) IsValid() bool {
	switch c {
	case ColumnTitle, ColumnContent, ColumnTags,
		ColumnCreatedAt, ColumnUpdatedAt, ColumnDelete:
		return true
	}
	return false
}

// Filterable reports whether the column accepts a filter argument.
func (c Column) Filterable() bool {
	return c.IsValid() && c != ColumnDelete
}

// Sortable reports whether the column participates in sorting.
// Only the two date columns sort; the text columns are display-only,
// matching the source table's configuration.
func (c Column) Sortable() bool {
	return c == ColumnCreatedAt || c == ColumnUpdatedAt
}

// IsDate reports whether the column holds a timestamp.
func (c Column) IsDate() bool {
	return c == ColumnCreatedAt || c == ColumnUpdatedAt
}

// Project returns the column's string projection of a document, used for
// substring matching. Tags join with a single space; dates render in
// DateDisplayFormat; the delete column projects empty.
func (c Column) Project(d *document.Document) string {
	switch c {
	case ColumnTitle:
		return d.Title()
	case ColumnContent:
		return d.Content()
	case ColumnTags:
		return strings.Join(d.Tags(), " ")
	case ColumnCreatedAt:
		return d.CreatedAt().Format(DateDisplayFormat)
	case ColumnUpdatedAt:
		return d.UpdatedAt().Format(DateDisplayFormat)
	default:
		return ""
	}
}
