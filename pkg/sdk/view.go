package studyshelf

import (
	"context"
	"fmt"
	"time"

	domview "github.com/studyshelf/studyshelf/internal/domain/view"
	"github.com/studyshelf/studyshelf/internal/domain/view/filter"
	viewuc "github.com/studyshelf/studyshelf/internal/usecase/view"
)

// View is the owner's table view: the collection pushed through global and
// per-column filters, a cycling single-column sort, and clamped pagination.
type View struct {
	ctrl *viewuc.Controller
}

// Load fetches the owner's collection into the view cache. Call once before
// reading; writes through the Shelf keep the cache current afterwards.
func (v *View) Load(ctx context.Context) error {
	if err := v.ctrl.Load(ctx); err != nil {
		return fmt.Errorf("load view: %w", err)
	}
	return nil
}

// Page returns the current page and view metadata.
func (v *View) Page() Page {
	snap := v.ctrl.Snapshot()
	rows := make([]Document, len(snap.Rows))
	for i := range snap.Rows {
		rows[i] = fromInternalDocument(snap.Rows[i])
	}
	return Page{
		State:         string(snap.State),
		Rows:          rows,
		PageIndex:     snap.PageIndex,
		PageCount:     snap.PageCount,
		PageSize:      snap.PageSize,
		TotalMatching: snap.TotalMatching,
		CanNext:       snap.CanNext,
		CanPrevious:   snap.CanPrevious,
		SortColumn:    Column(snap.SortColumn),
		SortDirection: SortDirection(snap.SortDirection.String()),
		GlobalFilter:  snap.GlobalFilter,
	}
}

// SetGlobalFilter matches rows where any visible column contains the query.
func (v *View) SetGlobalFilter(query string) {
	v.ctrl.SetGlobalFilter(query)
}

// SetGlobalFilterDebounced coalesces rapid global-filter edits; only the
// last value within the configured delay is applied.
func (v *View) SetGlobalFilterDebounced(query string) {
	v.ctrl.SetGlobalFilterDebounced(query)
}

// FilterText narrows a text column to rows containing the query.
// An empty query clears the column's filter.
func (v *View) FilterText(col Column, query string) {
	v.ctrl.SetFilter(domview.Column(col), filter.Text(query))
}

// FilterTextDebounced is FilterText with latest-wins coalescing.
func (v *View) FilterTextDebounced(col Column, query string) {
	v.ctrl.SetFilterDebounced(domview.Column(col), filter.Text(query))
}

// FilterTags narrows to rows carrying every selected tag.
// An empty selection clears the filter.
func (v *View) FilterTags(tags []string) {
	v.ctrl.SetFilter(domview.ColumnTags, filter.Tags(tags))
}

// FilterDateRange narrows to rows whose creation or modification date falls
// inside the inclusive range. Zero endpoints clear the filter.
func (v *View) FilterDateRange(from, to time.Time) {
	v.ctrl.SetFilter(domview.ColumnCreatedAt, filter.DateRange(from, to))
}

// ClearFilter removes one column's filter.
func (v *View) ClearFilter(col Column) {
	v.ctrl.SetFilter(domview.Column(col), filter.Argument{})
}

// ToggleSort cycles a date column through ascending, descending, and
// unsorted. Non-date columns are ignored.
func (v *View) ToggleSort(col Column) {
	v.ctrl.ToggleSort(domview.Column(col))
}

// SetPageSize changes the page size, keeping the cursor on a valid page.
func (v *View) SetPageSize(size int) { v.ctrl.SetPageSize(size) }

// GoToPage moves to the given page, clamped to the valid range.
func (v *View) GoToPage(index int) { v.ctrl.GoToPage(index) }

// NextPage advances one page, saturating at the last.
func (v *View) NextPage() { v.ctrl.NextPage() }

// PreviousPage moves back one page, saturating at the first.
func (v *View) PreviousPage() { v.ctrl.PreviousPage() }

// FirstPage moves to the first page.
func (v *View) FirstPage() { v.ctrl.FirstPage() }

// LastPage moves to the last page.
func (v *View) LastPage() { v.ctrl.LastPage() }

// Reset clears every filter and the sort, returns to the first page at the
// default size, and returns a confirmation message.
func (v *View) Reset() string { return v.ctrl.Reset() }
