// Package view orchestrates one owner's table view: a cached document
// collection pushed through the filter, sort, and pagination stages, with
// debounced text filters and in-place cache reconciliation on writes.
package view

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/studyshelf/studyshelf/internal/domain/document"
	domview "github.com/studyshelf/studyshelf/internal/domain/view"
	"github.com/studyshelf/studyshelf/internal/domain/view/filter"
	"github.com/studyshelf/studyshelf/internal/domain/view/page"
	vsort "github.com/studyshelf/studyshelf/internal/domain/view/sort"
)

// State is the view lifecycle state.
type State string

const (
	// StateIdle means the view has not loaded yet.
	StateIdle State = "idle"
	// StateLoading means a collection fetch is in flight.
	StateLoading State = "loading"
	// StateReady means the view holds a usable (possibly empty) page.
	StateReady State = "ready"
	// StateError means the last load failed; the cache is stale or empty.
	StateError State = "error"
)

// ResetConfirmation is the single event emitted by Reset.
const ResetConfirmation = "filters, sorting and pagination reset"

// Snapshot is an immutable view of the controller for rendering.
type Snapshot struct {
	State         State
	Rows          []document.Document
	PageIndex     int
	PageCount     int
	PageSize      int
	TotalMatching int
	CanNext       bool
	CanPrevious   bool
	SortColumn    domview.Column
	SortDirection vsort.Direction
	GlobalFilter  string
	Err           error
}

// Controller drives one owner's table view. All methods are safe for
// concurrent use; every read and mutation runs under one mutex so a
// snapshot never interleaves with a recompute.
type Controller struct {
	fetcher CollectionFetcher
	tags    TagIndex
	logger  *zap.Logger
	ownerID string

	globalDebounce time.Duration
	columnDebounce time.Duration
	sched          *scheduler

	mu      sync.Mutex
	epoch   uint64 // bumped by Reset; invalidates in-flight debounced edits
	state   State
	loadErr error
	cache   []document.Document
	matched []document.Document
	filters *filter.Registry
	sort    vsort.State
	page    page.State
}

// NewController creates an idle controller for one owner. tags may be nil.
func NewController(
	fetcher CollectionFetcher, tags TagIndex, logger *zap.Logger, ownerID string,
) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		fetcher: fetcher,
		tags:    tags,
		logger:  logger.With(zap.String("owner_id", ownerID)),
		ownerID: ownerID,
		sched:   newScheduler(),
		state:   StateIdle,
		filters: filter.NewRegistry(),
		page:    page.New(page.DefaultSize),
	}
}

// WithDebounce configures the deferred-filter delays. Zero delays make the
// debounced setters synchronous.
func (c *Controller) WithDebounce(global, column time.Duration) *Controller {
	c.globalDebounce = global
	c.columnDebounce = column
	return c
}

// WithPageSize sets the initial page size.
func (c *Controller) WithPageSize(size int) *Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = page.New(size)
	return c
}

// Load fetches the owner's collection and moves the view to Ready. On
// fetch failure the view lands in Error and keeps the previous cache.
// Filters, sort, and pagination survive a reload.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	docs, err := c.fetcher.ListByOwner(ctx, c.ownerID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateError
		c.loadErr = err
		c.logger.Warn("view load failed", zap.Error(err))
		return err
	}
	c.state = StateReady
	c.loadErr = nil
	c.cache = docs
	c.recompute("load")

	if c.tags != nil {
		c.tags.Refresh(ctx, c.ownerID, docs)
	}
	return nil
}

// Snapshot returns the current page and view metadata.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := c.page.Slice(c.matched)
	out := make([]document.Document, len(rows))
	copy(out, rows)

	return Snapshot{
		State:         c.state,
		Rows:          out,
		PageIndex:     c.page.Index(),
		PageCount:     c.page.Count(len(c.matched)),
		PageSize:      c.page.Size(),
		TotalMatching: len(c.matched),
		CanNext:       c.page.CanNext(len(c.matched)),
		CanPrevious:   c.page.CanPrevious(),
		SortColumn:    c.sort.Column(),
		SortDirection: c.sort.Direction(),
		GlobalFilter:  c.filters.Global(),
		Err:           c.loadErr,
	}
}

// SetFilter installs a column filter immediately and returns to the
// first page of the narrowed result set.
func (c *Controller) SetFilter(col domview.Column, arg filter.Argument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.Set(col, arg)
	c.page.First()
	c.recompute("filter")
}

// SetFilterDebounced coalesces rapid edits to one column's filter; only the
// last value within the delay window is applied. An edit scheduled before a
// Reset never applies, even if its timer has already fired.
func (c *Controller) SetFilterDebounced(col domview.Column, arg filter.Argument) {
	epoch := c.currentEpoch()
	c.sched.schedule("column:"+string(col), c.columnDebounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.epoch != epoch {
			return
		}
		c.filters.Set(col, arg)
		c.page.First()
		c.recompute("filter")
	})
}

// SetGlobalFilter installs the global text filter immediately.
func (c *Controller) SetGlobalFilter(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SetGlobal(query)
	c.page.First()
	c.recompute("global-filter")
}

// SetGlobalFilterDebounced coalesces rapid global-filter edits.
func (c *Controller) SetGlobalFilterDebounced(query string) {
	epoch := c.currentEpoch()
	c.sched.schedule("global", c.globalDebounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.epoch != epoch {
			return
		}
		c.filters.SetGlobal(query)
		c.page.First()
		c.recompute("global-filter")
	})
}

func (c *Controller) currentEpoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// ToggleSort cycles the sort state of a column.
func (c *Controller) ToggleSort(col domview.Column) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort.Toggle(col)
	c.recompute("sort")
}

// SetPageSize changes the page size, keeping the cursor on a valid page.
func (c *Controller) SetPageSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.SetSize(size, len(c.matched))
	c.logAction("page-size")
}

// GoToPage moves to the given page, clamped to the valid range.
func (c *Controller) GoToPage(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.GoTo(index, len(c.matched))
	c.logAction("page")
}

// NextPage advances one page, saturating at the last.
func (c *Controller) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.Next(len(c.matched))
	c.logAction("page")
}

// PreviousPage moves back one page, saturating at the first.
func (c *Controller) PreviousPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.Previous()
	c.logAction("page")
}

// FirstPage moves to the first page.
func (c *Controller) FirstPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.First()
	c.logAction("page")
}

// LastPage moves to the last page.
func (c *Controller) LastPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page.Last(len(c.matched))
	c.logAction("page")
}

// Reset clears every filter and the sort, returns to the first page at the
// default size, and returns the single confirmation event. Pending
// debounced filter edits are discarded.
func (c *Controller) Reset() string {
	c.sched.stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.filters.ClearAll()
	c.sort.Reset()
	c.page = page.New(page.DefaultSize)
	c.recompute("reset")
	return ResetConfirmation
}

// ApplyCreate prepends a freshly created document to the cache so the view
// reflects the write without a refetch.
func (c *Controller) ApplyCreate(doc document.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = append([]document.Document{doc}, c.cache...)
	c.recompute("create")
}

// ApplyUpdate replaces the cached document with the same ID in place.
// Unknown IDs are ignored.
func (c *Controller) ApplyUpdate(doc document.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.cache {
		if c.cache[i].ID() == doc.ID() {
			c.cache[i] = doc
			break
		}
	}
	c.recompute("update")
}

// ApplyDelete removes the document from the cache. When the removal empties
// the current page the cursor falls back to the previous page.
func (c *Controller) ApplyDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = slices.DeleteFunc(c.cache, func(d document.Document) bool {
		return d.ID() == id
	})
	c.recompute("delete")
}

// Close cancels pending debounced edits.
func (c *Controller) Close() {
	c.sched.stop()
}

// recompute runs the cache through filter and sort and re-clamps the page
// cursor. Callers must hold the mutex.
func (c *Controller) recompute(action string) {
	c.matched = c.sort.Apply(c.filters.Apply(c.cache))
	c.page.Clamp(len(c.matched))
	c.logAction(action)
}

func (c *Controller) logAction(action string) {
	c.logger.Debug("view action",
		zap.String("action", action),
		zap.Int("matching", len(c.matched)),
		zap.Int("page", c.page.Index()),
	)
}
