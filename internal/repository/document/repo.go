// Package document persists documents as JSON values with a per-owner
// membership set for collection listing.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/studyshelf/studyshelf/internal/db"
	"github.com/studyshelf/studyshelf/internal/domain"
	domdoc "github.com/studyshelf/studyshelf/internal/domain/document"
)

// store is the consumer interface for documents (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/document.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a document repository with the given key prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) docKey(id string) string {
	return r.prefix + "doc:" + id
}

func (r *Repo) ownerKey(ownerID string) string {
	return r.prefix + "owner:" + ownerID + ":docs"
}

// Create stores a document and registers it in the owner's membership set.
func (r *Repo) Create(ctx context.Context, doc *domdoc.Document) error {
	data, err := json.Marshal(toDTO(doc))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	key := r.docKey(doc.ID())
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	if err := r.store.SAdd(ctx, r.ownerKey(doc.OwnerID()), doc.ID()); err != nil {
		return fmt.Errorf("register document %s: %w", doc.ID(), err)
	}
	return nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, id string) (domdoc.Document, error) {
	key := r.docKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domdoc.Document{}, domain.ErrDocumentNotFound
		}
		return domdoc.Document{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return decodeDoc(raw)
}

// ListByOwner returns the owner's full collection, newest first. Stale
// membership entries whose document is gone are skipped.
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]domdoc.Document, error) {
	ids, err := r.store.SMembers(ctx, r.ownerKey(ownerID))
	if err != nil {
		return nil, fmt.Errorf("list owner %s: %w", ownerID, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(id)
	}
	raws, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	docs := make([]domdoc.Document, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		doc, err := decodeDoc(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	slices.SortStableFunc(docs, func(a, b domdoc.Document) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})
	return docs, nil
}

// Update replaces a stored document.
func (r *Repo) Update(ctx context.Context, doc *domdoc.Document) error {
	data, err := json.Marshal(toDTO(doc))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	key := r.docKey(doc.ID())
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// Delete removes a document and its membership entry.
func (r *Repo) Delete(ctx context.Context, ownerID, id string) error {
	if err := r.store.Del(ctx, r.docKey(id)); err != nil {
		return fmt.Errorf("del %s: %w", id, err)
	}
	if err := r.store.SRem(ctx, r.ownerKey(ownerID), id); err != nil {
		return fmt.Errorf("unregister document %s: %w", id, err)
	}
	return nil
}
