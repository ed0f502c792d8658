// Package user persists accounts as JSON values with an email index for
// login lookups.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/studyshelf/studyshelf/internal/db"
	"github.com/studyshelf/studyshelf/internal/domain"
	domuser "github.com/studyshelf/studyshelf/internal/domain/user"
)

// store is the consumer interface for accounts (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements usecase/auth.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a user repository with the given key prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) userKey(id string) string {
	return r.prefix + "user:" + id
}

func (r *Repo) emailKey(email string) string {
	return r.prefix + "email:" + email
}

// Create stores an account and its email index entry.
func (r *Repo) Create(ctx context.Context, u *domuser.User) error {
	data, err := json.Marshal(toDTO(u))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	key := r.userKey(u.ID())
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	if err := r.store.Set(ctx, r.emailKey(u.Email()), []byte(u.ID())); err != nil {
		return fmt.Errorf("index email: %w", err)
	}
	return nil
}

// GetByEmail resolves the email index and loads the account.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domuser.User, error) {
	id, err := r.store.Get(ctx, r.emailKey(email))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domuser.User{}, domain.ErrUserNotFound
		}
		return domuser.User{}, fmt.Errorf("resolve email: %w", err)
	}
	return r.getByID(ctx, string(id))
}

func (r *Repo) getByID(ctx context.Context, id string) (domuser.User, error) {
	key := r.userKey(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domuser.User{}, domain.ErrUserNotFound
		}
		return domuser.User{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return decodeUser(raw)
}

// decodeUser parses a JSON.GET payload, unwrapping the "$" path array.
func decodeUser(raw []byte) (domuser.User, error) {
	var wrapped []userDTO
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if len(wrapped) == 0 {
			return domuser.User{}, fmt.Errorf("empty json path result")
		}
		return wrapped[0].toDomain(), nil
	}
	var single userDTO
	if err := json.Unmarshal(raw, &single); err != nil {
		return domuser.User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return single.toDomain(), nil
}
