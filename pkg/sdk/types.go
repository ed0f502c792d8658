package studyshelf

import (
	"time"

	domdoc "github.com/studyshelf/studyshelf/internal/domain/document"
)

// Session is the outcome of a successful sign-up or log-in.
type Session struct {
	UserID string
	Email  string
	Token  string
}

// Fields are the writable attributes of a document.
type Fields struct {
	Title   string
	Content string
	Tags    []string
}

// Document is a stored record.
type Document struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Column names a table-view column.
type Column string

// Table-view columns.
const (
	ColumnTitle     Column = "title"
	ColumnContent   Column = "content"
	ColumnTags      Column = "tags"
	ColumnCreatedAt Column = "createdAt"
	ColumnUpdatedAt Column = "updatedAt"
)

// SortDirection is the table-view sort direction.
type SortDirection string

// Sort directions.
const (
	SortNone       SortDirection = "none"
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Page is one rendered page of the table view.
type Page struct {
	State         string
	Rows          []Document
	PageIndex     int
	PageCount     int
	PageSize      int
	TotalMatching int
	CanNext       bool
	CanPrevious   bool
	SortColumn    Column
	SortDirection SortDirection
	GlobalFilter  string
}

func fromInternalDocument(d domdoc.Document) Document {
	return Document{
		ID:        d.ID(),
		Title:     d.Title(),
		Content:   d.Content(),
		Tags:      d.Tags(),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
}
