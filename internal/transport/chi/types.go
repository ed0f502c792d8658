package chi

import (
	"fmt"
	"time"

	domdoc "github.com/studyshelf/studyshelf/internal/domain/document"
	"github.com/studyshelf/studyshelf/internal/domain/view/filter"
	viewuc "github.com/studyshelf/studyshelf/internal/usecase/view"
)

// Error response codes.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeDocumentNotFound   = "document_not_found"
	codeInvalidCredentials = "invalid_credentials"
	codeEmailTaken         = "email_taken"
	codeWeakPassword       = "weak_password"
	codeUnauthorized       = "unauthorized"
	codeInternalError      = "internal_error"
)

// errorResponse is the uniform error payload. EmptyFields carries the
// offending field names of a validation failure.
type errorResponse struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	EmptyFields []string `json:"emptyFields,omitempty"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type documentRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type documentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func documentToResponse(d *domdoc.Document) documentResponse {
	return documentResponse{
		ID:        d.ID(),
		Title:     d.Title(),
		Content:   d.Content(),
		Tags:      d.Tags(),
		CreatedAt: d.CreatedAt(),
		UpdatedAt: d.UpdatedAt(),
	}
}

type documentListResponse struct {
	Items []documentResponse `json:"items"`
	Total int                `json:"total"`
}

// dateRangeRequest bounds are inclusive. Date-only values are accepted and
// the end bound extends to the end of its day.
type dateRangeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type filterRequest struct {
	Column    string            `json:"column"`
	Text      string            `json:"text,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	DateRange *dateRangeRequest `json:"dateRange,omitempty"`
	Debounce  bool              `json:"debounce,omitempty"`
}

type globalFilterRequest struct {
	Query    string `json:"query"`
	Debounce bool   `json:"debounce,omitempty"`
}

type sortRequest struct {
	Column string `json:"column"`
}

type pageRequest struct {
	Action string `json:"action"`
	Index  int    `json:"index,omitempty"`
	Size   int    `json:"size,omitempty"`
}

type viewResponse struct {
	State         string             `json:"state"`
	Rows          []documentResponse `json:"rows"`
	PageIndex     int                `json:"pageIndex"`
	PageCount     int                `json:"pageCount"`
	PageSize      int                `json:"pageSize"`
	TotalMatching int                `json:"totalMatching"`
	CanNext       bool               `json:"canNext"`
	CanPrevious   bool               `json:"canPrevious"`
	SortColumn    string             `json:"sortColumn,omitempty"`
	SortDirection string             `json:"sortDirection"`
	GlobalFilter  string             `json:"globalFilter,omitempty"`
}

func snapshotToResponse(s viewuc.Snapshot) viewResponse {
	rows := make([]documentResponse, len(s.Rows))
	for i := range s.Rows {
		rows[i] = documentToResponse(&s.Rows[i])
	}
	return viewResponse{
		State:         string(s.State),
		Rows:          rows,
		PageIndex:     s.PageIndex,
		PageCount:     s.PageCount,
		PageSize:      s.PageSize,
		TotalMatching: s.TotalMatching,
		CanNext:       s.CanNext,
		CanPrevious:   s.CanPrevious,
		SortColumn:    string(s.SortColumn),
		SortDirection: s.SortDirection.String(),
		GlobalFilter:  s.GlobalFilter,
	}
}

type tagsResponse struct {
	Tags []string `json:"tags"`
}

type resetResponse struct {
	Message string `json:"message"`
}

// argumentFromRequest builds the filter argument from whichever payload
// field the request carries.
func argumentFromRequest(req filterRequest) (filter.Argument, error) {
	switch {
	case req.DateRange != nil:
		from, err := parseDateBound(req.DateRange.From, false)
		if err != nil {
			return filter.Argument{}, fmt.Errorf("dateRange.from: %w", err)
		}
		to, err := parseDateBound(req.DateRange.To, true)
		if err != nil {
			return filter.Argument{}, fmt.Errorf("dateRange.to: %w", err)
		}
		return filter.DateRange(from, to), nil
	case req.Tags != nil:
		return filter.Tags(req.Tags), nil
	default:
		return filter.Text(req.Text), nil
	}
}

// parseDateBound accepts RFC 3339 timestamps and bare dates. A bare end
// date stretches to the last instant of that day so the bound stays
// inclusive.
func parseDateBound(value string, isEnd bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	if isEnd {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
