package view

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/studyshelf/studyshelf/internal/domain/document"
	domview "github.com/studyshelf/studyshelf/internal/domain/view"
	"github.com/studyshelf/studyshelf/internal/domain/view/filter"
	vsort "github.com/studyshelf/studyshelf/internal/domain/view/sort"
)

// --- Mocks ---

type mockFetcher struct {
	docs  []document.Document
	err   error
	calls int
}

func (m *mockFetcher) ListByOwner(_ context.Context, _ string) ([]document.Document, error) {
	m.calls++
	return m.docs, m.err
}

type mockTagIndex struct {
	refreshed int
	lastDocs  []document.Document
}

func (m *mockTagIndex) Refresh(_ context.Context, _ string, docs []document.Document) {
	m.refreshed++
	m.lastDocs = docs
}

var baseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// makeDocs builds n documents newest-first, the order a collection fetch
// returns them in.
func makeDocs(t *testing.T, n int) []document.Document {
	t.Helper()
	docs := make([]document.Document, 0, n)
	for i := n - 1; i >= 0; i-- {
		d, err := document.New("owner-1", document.Fields{
			Title:   fmt.Sprintf("doc-%02d", i),
			Content: fmt.Sprintf("content %d", i),
			Tags:    []string{"all", fmt.Sprintf("t%d", i%2)},
		}, baseTime.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("document.New: %v", err)
		}
		docs = append(docs, d)
	}
	return docs
}

func loadedController(t *testing.T, docs []document.Document) *Controller {
	t.Helper()
	c := NewController(&mockFetcher{docs: docs}, nil, zap.NewNop(), "owner-1")
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func rowTitles(s Snapshot) []string {
	out := make([]string, len(s.Rows))
	for i := range s.Rows {
		out[i] = s.Rows[i].Title()
	}
	return out
}

// --- Lifecycle ---

func TestLoad_TransitionsToReady(t *testing.T) {
	tags := &mockTagIndex{}
	c := NewController(&mockFetcher{docs: makeDocs(t, 5)}, tags, zap.NewNop(), "owner-1")

	if got := c.Snapshot().State; got != StateIdle {
		t.Fatalf("initial state = %v, want idle", got)
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	snap := c.Snapshot()
	if snap.State != StateReady {
		t.Errorf("state = %v, want ready", snap.State)
	}
	if snap.TotalMatching != 5 {
		t.Errorf("total = %d, want 5", snap.TotalMatching)
	}
	if tags.refreshed != 1 {
		t.Errorf("tag index refreshed %d times, want 1", tags.refreshed)
	}
}

func TestLoad_FailureLandsInError(t *testing.T) {
	boom := errors.New("store down")
	c := NewController(&mockFetcher{err: boom}, nil, zap.NewNop(), "owner-1")

	if err := c.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Load error = %v, want %v", err, boom)
	}
	snap := c.Snapshot()
	if snap.State != StateError {
		t.Errorf("state = %v, want error", snap.State)
	}
	if !errors.Is(snap.Err, boom) {
		t.Errorf("snapshot err = %v", snap.Err)
	}
}

func TestLoad_ReloadKeepsViewState(t *testing.T) {
	fetcher := &mockFetcher{docs: makeDocs(t, 9)}
	c := NewController(fetcher, nil, zap.NewNop(), "owner-1")
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	c.SetGlobalFilter("doc")
	c.ToggleSort(domview.ColumnCreatedAt)
	c.NextPage()

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	snap := c.Snapshot()
	if snap.GlobalFilter != "doc" || snap.SortDirection != vsort.Ascending || snap.PageIndex != 1 {
		t.Errorf("view state lost on reload: %+v", snap)
	}
}

// --- Default ordering and pagination ---

func TestSnapshot_DefaultPageIsNewestFirst(t *testing.T) {
	c := loadedController(t, makeDocs(t, 7))

	snap := c.Snapshot()
	if snap.PageSize != 3 {
		t.Fatalf("default page size = %d, want 3", snap.PageSize)
	}
	got := rowTitles(snap)
	want := []string{"doc-06", "doc-05", "doc-04"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
	if snap.PageCount != 3 || !snap.CanNext || snap.CanPrevious {
		t.Errorf("page metadata wrong: %+v", snap)
	}
}

func TestPagination_Navigation(t *testing.T) {
	c := loadedController(t, makeDocs(t, 7))

	c.LastPage()
	snap := c.Snapshot()
	if snap.PageIndex != 2 || len(snap.Rows) != 1 {
		t.Errorf("last page: index %d rows %d", snap.PageIndex, len(snap.Rows))
	}
	c.NextPage() // saturates
	if got := c.Snapshot().PageIndex; got != 2 {
		t.Errorf("next past last moved to %d", got)
	}
	c.FirstPage()
	c.PreviousPage() // saturates
	if got := c.Snapshot().PageIndex; got != 0 {
		t.Errorf("previous past first moved to %d", got)
	}
}

func TestSetPageSize_KeepsCursorValid(t *testing.T) {
	c := loadedController(t, makeDocs(t, 10))

	c.LastPage() // page 3 of 4
	c.SetPageSize(10)
	snap := c.Snapshot()
	if snap.PageIndex != 0 || len(snap.Rows) != 10 {
		t.Errorf("after resize: index %d rows %d", snap.PageIndex, len(snap.Rows))
	}
	c.SetPageSize(0)
	if got := c.Snapshot().PageSize; got != 3 {
		t.Errorf("size fallback = %d, want 3", got)
	}
}

// --- Filtering ---

func TestSetGlobalFilter_NarrowsAndResetsPage(t *testing.T) {
	c := loadedController(t, makeDocs(t, 9))
	c.NextPage()

	c.SetGlobalFilter("doc-03")
	snap := c.Snapshot()
	if snap.TotalMatching != 1 || snap.PageIndex != 0 {
		t.Errorf("matching %d page %d, want 1 and 0", snap.TotalMatching, snap.PageIndex)
	}
	if rowTitles(snap)[0] != "doc-03" {
		t.Errorf("rows = %v", rowTitles(snap))
	}

	c.SetGlobalFilter("")
	if got := c.Snapshot().TotalMatching; got != 9 {
		t.Errorf("cleared filter: matching = %d, want 9", got)
	}
}

func TestSetFilter_TagIntersectionAcrossPages(t *testing.T) {
	c := loadedController(t, makeDocs(t, 8))

	// Even-indexed docs carry tag t0.
	c.SetFilter(domview.ColumnTags, filter.Tags([]string{"all", "t0"}))
	snap := c.Snapshot()
	if snap.TotalMatching != 4 {
		t.Fatalf("matching = %d, want 4", snap.TotalMatching)
	}
	for _, title := range rowTitles(snap) {
		if title[len(title)-1]%2 != '0'%2 {
			t.Errorf("unexpected row %q", title)
		}
	}
}

func TestFiltersAndSortCompose(t *testing.T) {
	c := loadedController(t, makeDocs(t, 9))

	c.SetGlobalFilter("doc-0")
	c.SetFilter(domview.ColumnTags, filter.Tags([]string{"t1"}))
	c.ToggleSort(domview.ColumnCreatedAt) // ascending, oldest first

	snap := c.Snapshot()
	got := rowTitles(snap)
	want := []string{"doc-01", "doc-03", "doc-05"}
	if snap.TotalMatching != 4 || len(got) != 3 {
		t.Fatalf("matching %d rows %v", snap.TotalMatching, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDateRangeFilterNarrowsAcrossMonths(t *testing.T) {
	created := []time.Time{
		time.Date(2024, 6, 8, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 9, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	docs := make([]document.Document, 0, len(created))
	for _, ts := range created {
		d, err := document.New("owner-1", document.Fields{
			Title:   "notes " + ts.Format("02 Jan"),
			Content: "c",
			Tags:    []string{"all"},
		}, ts)
		if err != nil {
			t.Fatalf("document.New: %v", err)
		}
		docs = append(docs, d)
	}
	c := loadedController(t, docs)

	// A range covering only May keeps exactly the two May documents.
	c.SetFilter(domview.ColumnCreatedAt, filter.DateRange(
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC),
	))
	snap := c.Snapshot()
	if snap.TotalMatching != 2 || snap.PageIndex != 0 || snap.PageCount != 1 {
		t.Fatalf("May range: matching %d, page %d of %d",
			snap.TotalMatching, snap.PageIndex, snap.PageCount)
	}

	c.ToggleSort(domview.ColumnCreatedAt) // ascending, creation order
	got := rowTitles(c.Snapshot())
	want := []string{"notes 01 May", "notes 09 May"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("rows = %v, want %v", got, want)
	}
}

// --- Debounce ---

func TestSetGlobalFilterDebounced_LatestWins(t *testing.T) {
	c := loadedController(t, makeDocs(t, 9)).
		WithDebounce(20*time.Millisecond, 20*time.Millisecond)

	c.SetGlobalFilterDebounced("doc-01")
	c.SetGlobalFilterDebounced("doc-02")
	c.SetGlobalFilterDebounced("doc-03")

	if got := c.Snapshot().GlobalFilter; got != "" {
		t.Fatalf("filter applied before delay: %q", got)
	}

	deadline := time.After(2 * time.Second)
	for c.Snapshot().GlobalFilter == "" {
		select {
		case <-deadline:
			t.Fatal("debounced filter never applied")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got := c.Snapshot().GlobalFilter; got != "doc-03" {
		t.Errorf("applied %q, want last value doc-03", got)
	}
}

func TestSetFilterDebounced_ZeroDelayIsSynchronous(t *testing.T) {
	c := loadedController(t, makeDocs(t, 9))

	c.SetFilterDebounced(domview.ColumnTitle, filter.Text("doc-04"))
	if got := c.Snapshot().TotalMatching; got != 1 {
		t.Errorf("matching = %d, want 1", got)
	}
}

// --- Sort cycle through the controller ---

func TestToggleSort_FullCycleRestoresDefaultOrder(t *testing.T) {
	c := loadedController(t, makeDocs(t, 5))
	before := rowTitles(c.Snapshot())

	for i := 0; i < 3; i++ {
		c.ToggleSort(domview.ColumnUpdatedAt)
	}
	after := rowTitles(c.Snapshot())
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("order changed after full cycle: %v vs %v", before, after)
		}
	}
}

// --- Reset ---

func TestReset_ClearsEverythingAtOnce(t *testing.T) {
	c := loadedController(t, makeDocs(t, 9))

	c.SetGlobalFilter("doc")
	c.SetFilter(domview.ColumnTags, filter.Tags([]string{"t1"}))
	c.ToggleSort(domview.ColumnCreatedAt)
	c.SetPageSize(5)
	c.NextPage()

	if got := c.Reset(); got != ResetConfirmation {
		t.Errorf("Reset() = %q, want confirmation event", got)
	}

	snap := c.Snapshot()
	if snap.GlobalFilter != "" || snap.SortDirection != vsort.None ||
		snap.PageIndex != 0 || snap.PageSize != 3 || snap.TotalMatching != 9 {
		t.Errorf("reset left state behind: %+v", snap)
	}
}

func TestReset_DiscardsPendingDebouncedEdits(t *testing.T) {
	c := loadedController(t, makeDocs(t, 9)).
		WithDebounce(30*time.Millisecond, 30*time.Millisecond)

	c.SetGlobalFilterDebounced("doc-01")
	c.Reset()

	time.Sleep(80 * time.Millisecond)
	if got := c.Snapshot().GlobalFilter; got != "" {
		t.Errorf("pending edit applied after reset: %q", got)
	}
}

// A debounced edit whose timer has already fired but is still waiting on
// the controller lock must not survive a reset either.
func TestReset_DiscardsFiredButUnappliedDebouncedEdit(t *testing.T) {
	c := loadedController(t, makeDocs(t, 9)).
		WithDebounce(time.Millisecond, time.Millisecond)

	c.SetGlobalFilterDebounced("doc-01")

	// Park the deferred apply on the lock, then invalidate its epoch the
	// way Reset does before letting it through.
	c.mu.Lock()
	time.Sleep(30 * time.Millisecond)
	c.epoch++
	c.mu.Unlock()

	time.Sleep(30 * time.Millisecond)
	if got := c.Snapshot().GlobalFilter; got != "" {
		t.Errorf("stale debounced edit applied: %q", got)
	}
}

// --- Cache reconciliation ---

func TestApplyCreate_PrependsToDefaultOrder(t *testing.T) {
	c := loadedController(t, makeDocs(t, 4))

	d, err := document.New("owner-1", document.Fields{
		Title: "fresh", Content: "new", Tags: []string{"all"},
	}, baseTime.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("document.New: %v", err)
	}
	c.ApplyCreate(d)

	snap := c.Snapshot()
	if snap.TotalMatching != 5 || rowTitles(snap)[0] != "fresh" {
		t.Errorf("create not reflected: %v", rowTitles(snap))
	}
}

func TestApplyUpdate_ReplacesInPlace(t *testing.T) {
	docs := makeDocs(t, 3)
	c := loadedController(t, docs)

	target := docs[1]
	updated, err := target.WithFields(document.Fields{
		Title: "renamed", Content: "x", Tags: []string{"all"},
	}, baseTime.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("WithFields: %v", err)
	}
	c.ApplyUpdate(updated)

	snap := c.Snapshot()
	if snap.TotalMatching != 3 {
		t.Fatalf("update must not grow the cache: %d rows", snap.TotalMatching)
	}
	got := rowTitles(snap)
	if got[1] != "renamed" {
		t.Errorf("row order after update = %v, want renamed in place", got)
	}
}

func TestApplyDelete_EmptiedPageFallsBack(t *testing.T) {
	docs := makeDocs(t, 4)
	c := loadedController(t, docs)

	c.LastPage() // page 1 holds exactly doc-00
	last := docs[len(docs)-1]
	c.ApplyDelete(last.ID())

	snap := c.Snapshot()
	if snap.PageIndex != 0 {
		t.Errorf("page = %d, want fallback to 0", snap.PageIndex)
	}
	if snap.TotalMatching != 3 || len(snap.Rows) != 3 {
		t.Errorf("matching %d rows %d after delete", snap.TotalMatching, len(snap.Rows))
	}
}

func TestApplyDelete_UnknownIDIgnored(t *testing.T) {
	c := loadedController(t, makeDocs(t, 3))
	c.ApplyDelete("nope")
	if got := c.Snapshot().TotalMatching; got != 3 {
		t.Errorf("matching = %d, want 3", got)
	}
}

// --- Registry ---

func TestRegistry_OneControllerPerOwner(t *testing.T) {
	r := NewRegistry(&mockFetcher{}, nil, zap.NewNop())

	a := r.For("owner-a")
	if r.For("owner-a") != a {
		t.Error("same owner should get the same controller")
	}
	if r.For("owner-b") == a {
		t.Error("different owners must not share a controller")
	}

	r.Drop("owner-a")
	if r.For("owner-a") == a {
		t.Error("Drop should discard the controller")
	}
}
