package document

import (
	"context"

	domdoc "github.com/studyshelf/studyshelf/internal/domain/document"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Create(ctx context.Context, doc *domdoc.Document) error
	Get(ctx context.Context, id string) (domdoc.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domdoc.Document, error)
	Update(ctx context.Context, doc *domdoc.Document) error
	Delete(ctx context.Context, ownerID, id string) error
}
