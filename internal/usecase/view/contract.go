package view

import (
	"context"

	"github.com/studyshelf/studyshelf/internal/domain/document"
)

// CollectionFetcher loads the owner's full document collection for the
// view cache.
type CollectionFetcher interface {
	ListByOwner(ctx context.Context, ownerID string) ([]document.Document, error)
}

// TagIndex is notified whenever the view cache is reloaded so the tag
// universe stays current. Implementations must tolerate empty collections.
type TagIndex interface {
	Refresh(ctx context.Context, ownerID string, docs []document.Document)
}
