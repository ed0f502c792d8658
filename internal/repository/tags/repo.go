// Package tags persists each owner's tag universe as a JSON array with a
// refresh TTL, implementing usecase/tags.Cache.
package tags

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/studyshelf/studyshelf/internal/db"
)

// store is the consumer interface for the tag cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repo implements usecase/tags.Cache.
type Repo struct {
	store  store
	prefix string
	ttl    time.Duration
}

// New creates a tag cache repository. Entries expire after ttl so stale
// universes age out on their own.
func New(s store, prefix string, ttl time.Duration) *Repo {
	return &Repo{store: s, prefix: prefix, ttl: ttl}
}

func (r *Repo) key(ownerID string) string {
	return r.prefix + "tags:" + ownerID
}

// Get returns the owner's persisted universe, nil when absent.
func (r *Repo) Get(ctx context.Context, ownerID string) ([]string, error) {
	raw, err := r.store.Get(ctx, r.key(ownerID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tags %s: %w", ownerID, err)
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return tags, nil
}

// Put stores the owner's universe, restarting the TTL.
func (r *Repo) Put(ctx context.Context, ownerID string, tags []string) error {
	data, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, r.key(ownerID), data, r.ttl); err != nil {
		return fmt.Errorf("put tags %s: %w", ownerID, err)
	}
	return nil
}
