package auth

import (
	"context"

	"github.com/studyshelf/studyshelf/internal/domain/user"
)

// Repository defines the storage contract for user accounts.
type Repository interface {
	Create(ctx context.Context, u *user.User) error
	// GetByEmail returns domain.ErrUserNotFound for unregistered addresses.
	GetByEmail(ctx context.Context, email string) (user.User, error)
}
