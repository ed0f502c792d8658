package tags

import "context"

// Cache persists each owner's tag universe across restarts.
type Cache interface {
	Get(ctx context.Context, ownerID string) ([]string, error)
	Put(ctx context.Context, ownerID string, tags []string) error
}
