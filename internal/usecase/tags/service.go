// Package tags maintains each owner's tag universe, the suggestion list
// offered by the tag filter. The universe only ever moves from one
// non-empty value to another: an empty derivation keeps the last known
// suggestions so a cleared collection does not wipe them.
package tags

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/studyshelf/studyshelf/internal/domain/document"
)

// MaxEntryLength caps a tag recorded from free-form entry. Slightly looser
// than the stored-tag limit so near-miss entries still surface in
// suggestions for correction.
const MaxEntryLength = 16

// Service derives and serves per-owner tag universes, backed by an
// in-memory last-known map and a persistent cache.
type Service struct {
	cache  Cache
	logger *zap.Logger

	mu    sync.Mutex
	known map[string][]string
}

// New creates a tag service. cache may be nil for a purely in-memory universe.
func New(cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cache:  cache,
		logger: logger,
		known:  make(map[string][]string),
	}
}

// Derive returns the sorted union of every tag across the documents.
func Derive(docs []document.Document) []string {
	seen := make(map[string]struct{})
	for i := range docs {
		for _, t := range docs[i].Tags() {
			seen[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Refresh recomputes the owner's universe from a freshly loaded collection.
// An empty derivation is ignored, keeping the last non-empty universe.
func (s *Service) Refresh(ctx context.Context, ownerID string, docs []document.Document) {
	derived := Derive(docs)
	if len(derived) == 0 {
		return
	}
	s.remember(ctx, ownerID, derived)
}

// Tags returns the owner's universe: the in-memory value when present,
// otherwise the persisted one. A cache miss or failure yields an empty
// slice rather than an error; suggestions are best-effort.
func (s *Service) Tags(ctx context.Context, ownerID string) []string {
	s.mu.Lock()
	if tags, ok := s.known[ownerID]; ok {
		out := slices.Clone(tags)
		s.mu.Unlock()
		return out
	}
	s.mu.Unlock()

	if s.cache == nil {
		return nil
	}
	tags, err := s.cache.Get(ctx, ownerID)
	if err != nil || len(tags) == 0 {
		return nil
	}
	slices.Sort(tags)

	s.mu.Lock()
	s.known[ownerID] = tags
	out := slices.Clone(tags)
	s.mu.Unlock()
	return out
}

// RecordUsed folds a free-form tag entry into the universe so it is offered
// next time. Blank or over-length entries are dropped.
func (s *Service) RecordUsed(ctx context.Context, ownerID, tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || len(tag) > MaxEntryLength {
		return
	}

	s.mu.Lock()
	current := s.known[ownerID]
	if slices.Contains(current, tag) {
		s.mu.Unlock()
		return
	}
	merged := append(slices.Clone(current), tag)
	slices.Sort(merged)
	s.mu.Unlock()

	s.remember(ctx, ownerID, merged)
}

// remember stores a non-empty universe in memory and, best-effort, in the
// persistent cache.
func (s *Service) remember(ctx context.Context, ownerID string, tags []string) {
	s.mu.Lock()
	s.known[ownerID] = tags
	s.mu.Unlock()

	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, ownerID, tags); err != nil {
		s.logger.Warn("persist tag universe",
			zap.String("owner_id", ownerID), zap.Error(err))
	}
}
