package studyshelf

import (
	"context"
	"fmt"

	domdoc "github.com/studyshelf/studyshelf/internal/domain/document"
	documentuc "github.com/studyshelf/studyshelf/internal/usecase/document"
	tagsuc "github.com/studyshelf/studyshelf/internal/usecase/tags"
	viewuc "github.com/studyshelf/studyshelf/internal/usecase/view"
)

// Shelf is an owner-scoped handle over documents, tags, and the table view.
type Shelf struct {
	ownerID string
	docSvc  *documentuc.Service
	tagsSvc *tagsuc.Service
	views   *viewuc.Registry
}

// Create validates the fields and stores a new document. The table view
// and the tag universe pick the document up immediately.
func (s *Shelf) Create(ctx context.Context, f Fields) (Document, error) {
	doc, err := s.docSvc.Create(ctx, s.ownerID, domdoc.Fields(f))
	if err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}
	s.views.For(s.ownerID).ApplyCreate(doc)
	for _, tag := range doc.Tags() {
		s.tagsSvc.RecordUsed(ctx, s.ownerID, tag)
	}
	return fromInternalDocument(doc), nil
}

// Get retrieves a document by ID.
func (s *Shelf) Get(ctx context.Context, id string) (Document, error) {
	doc, err := s.docSvc.Get(ctx, s.ownerID, id)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return fromInternalDocument(doc), nil
}

// List returns the full collection, newest first.
func (s *Shelf) List(ctx context.Context) ([]Document, error) {
	docs, err := s.docSvc.ListByOwner(ctx, s.ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]Document, len(docs))
	for i := range docs {
		out[i] = fromInternalDocument(docs[i])
	}
	return out, nil
}

// Update replaces the writable fields of a document.
func (s *Shelf) Update(ctx context.Context, id string, f Fields) (Document, error) {
	doc, err := s.docSvc.Update(ctx, s.ownerID, id, domdoc.Fields(f))
	if err != nil {
		return Document{}, fmt.Errorf("update document: %w", err)
	}
	s.views.For(s.ownerID).ApplyUpdate(doc)
	for _, tag := range doc.Tags() {
		s.tagsSvc.RecordUsed(ctx, s.ownerID, tag)
	}
	return fromInternalDocument(doc), nil
}

// Delete removes a document and returns it.
func (s *Shelf) Delete(ctx context.Context, id string) (Document, error) {
	doc, err := s.docSvc.Delete(ctx, s.ownerID, id)
	if err != nil {
		return Document{}, fmt.Errorf("delete document: %w", err)
	}
	s.views.For(s.ownerID).ApplyDelete(doc.ID())
	return fromInternalDocument(doc), nil
}

// Tags returns the owner's tag universe, the suggestion list for the tag
// filter. Best-effort: an empty slice when nothing is known yet.
func (s *Shelf) Tags(ctx context.Context) []string {
	return s.tagsSvc.Tags(ctx, s.ownerID)
}

// View returns the owner's table view.
func (s *Shelf) View() *View {
	return &View{ctrl: s.views.For(s.ownerID)}
}
