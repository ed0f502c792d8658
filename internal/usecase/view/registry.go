package view

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry hands out one Controller per owner, created lazily on first use.
type Registry struct {
	fetcher CollectionFetcher
	tags    TagIndex
	logger  *zap.Logger

	pageSize       int
	globalDebounce time.Duration
	columnDebounce time.Duration

	mu      sync.Mutex
	byOwner map[string]*Controller
}

// NewRegistry creates a controller registry. tags may be nil.
func NewRegistry(fetcher CollectionFetcher, tags TagIndex, logger *zap.Logger) *Registry {
	return &Registry{
		fetcher: fetcher,
		tags:    tags,
		logger:  logger,
		byOwner: make(map[string]*Controller),
	}
}

// WithDefaults configures the page size and debounce delays applied to new
// controllers.
func (r *Registry) WithDefaults(pageSize int, global, column time.Duration) *Registry {
	r.pageSize = pageSize
	r.globalDebounce = global
	r.columnDebounce = column
	return r
}

// For returns the owner's controller, creating an idle one if needed.
func (r *Registry) For(ownerID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byOwner[ownerID]; ok {
		return c
	}
	c := NewController(r.fetcher, r.tags, r.logger, ownerID).
		WithDebounce(r.globalDebounce, r.columnDebounce).
		WithPageSize(r.pageSize)
	r.byOwner[ownerID] = c
	return c
}

// Drop discards the owner's controller, cancelling pending debounced edits.
// Used on logout so the next session starts from a clean view.
func (r *Registry) Drop(ownerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.byOwner[ownerID]; ok {
		c.Close()
		delete(r.byOwner, ownerID)
	}
}
