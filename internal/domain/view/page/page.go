// Package page implements the clamped pagination stage of the table view.
package page

import "github.com/studyshelf/studyshelf/internal/domain/document"

// DefaultSize is the page size a view starts with and falls back to when a
// requested size is not positive.
const DefaultSize = 3

// State is a zero-based page cursor over a filtered result set.
type State struct {
	index int
	size  int
}

// New creates a cursor at the first page. A non-positive size falls back to
// DefaultSize.
func New(size int) State {
	if size <= 0 {
		size = DefaultSize
	}
	return State{size: size}
}

// Index returns the zero-based page index.
func (s State) Index() int { return s.index }

// Size returns the page size.
func (s State) Size() int { return s.size }

// Count returns the number of pages needed for resultCount rows. An empty
// result set still has one (empty) page.
func (s State) Count(resultCount int) int {
	if resultCount <= 0 {
		return 1
	}
	return (resultCount + s.size - 1) / s.size
}

// SetSize changes the page size and re-clamps the index against resultCount.
// A non-positive size falls back to DefaultSize.
func (s *State) SetSize(size, resultCount int) {
	if size <= 0 {
		size = DefaultSize
	}
	s.size = size
	s.Clamp(resultCount)
}

// GoTo moves to the given page index, clamped to the valid range.
func (s *State) GoTo(index, resultCount int) {
	s.index = index
	s.Clamp(resultCount)
}

// Next advances one page, saturating at the last page.
func (s *State) Next(resultCount int) { s.GoTo(s.index+1, resultCount) }

// Previous moves back one page, saturating at the first page.
func (s *State) Previous() {
	if s.index > 0 {
		s.index--
	}
}

// First moves to the first page.
func (s *State) First() { s.index = 0 }

// Last moves to the last page for resultCount rows.
func (s *State) Last(resultCount int) { s.GoTo(s.Count(resultCount)-1, resultCount) }

// Clamp pins the index into [0, Count-1]. Called whenever the result set
// shrinks so the cursor never points past the end.
func (s *State) Clamp(resultCount int) {
	if max := s.Count(resultCount) - 1; s.index > max {
		s.index = max
	}
	if s.index < 0 {
		s.index = 0
	}
}

// CanPrevious reports whether a previous page exists.
func (s State) CanPrevious() bool { return s.index > 0 }

// CanNext reports whether a next page exists for resultCount rows.
func (s State) CanNext(resultCount int) bool {
	return s.index < s.Count(resultCount)-1
}

// Slice returns the rows of the current page. The caller must have clamped
// the cursor against len(rows) first.
func (s State) Slice(rows []document.Document) []document.Document {
	start := s.index * s.size
	if start >= len(rows) {
		return nil
	}
	end := start + s.size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
