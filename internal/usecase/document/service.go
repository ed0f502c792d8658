// Package document handles owner-scoped document CRUD.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/studyshelf/studyshelf/internal/domain"
	domdoc "github.com/studyshelf/studyshelf/internal/domain/document"
)

// Service validates and stores documents. Every operation is scoped to the
// calling owner; a document belonging to someone else behaves exactly like
// a missing one.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock overrides the timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates the fields and stores a new document for the owner.
func (s *Service) Create(ctx context.Context, ownerID string, f domdoc.Fields) (domdoc.Document, error) {
	doc, err := domdoc.New(ownerID, f, s.now().UTC())
	if err != nil {
		return domdoc.Document{}, err
	}
	if err := s.repo.Create(ctx, &doc); err != nil {
		return domdoc.Document{}, fmt.Errorf("store document: %w", err)
	}
	return doc, nil
}

// Get returns the owner's document by ID.
func (s *Service) Get(ctx context.Context, ownerID, id string) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	if doc.OwnerID() != ownerID {
		return domdoc.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

// ListByOwner returns the owner's full collection, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]domdoc.Document, error) {
	docs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Update replaces the writable fields of the owner's document and bumps
// its modification timestamp. Validation matches Create.
func (s *Service) Update(ctx context.Context, ownerID, id string, f domdoc.Fields) (domdoc.Document, error) {
	current, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return domdoc.Document{}, err
	}
	next, err := current.WithFields(f, s.now().UTC())
	if err != nil {
		return domdoc.Document{}, err
	}
	if err := s.repo.Update(ctx, &next); err != nil {
		return domdoc.Document{}, fmt.Errorf("update document: %w", err)
	}
	return next, nil
}

// Delete removes the owner's document and returns it.
func (s *Service) Delete(ctx context.Context, ownerID, id string) (domdoc.Document, error) {
	doc, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return domdoc.Document{}, err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return domdoc.Document{}, fmt.Errorf("delete document: %w", err)
	}
	return doc, nil
}
