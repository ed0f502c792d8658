package user

import (
	"time"

	domuser "github.com/studyshelf/studyshelf/internal/domain/user"
)

// userDTO is the stored JSON shape of an account.
type userDTO struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toDTO(u *domuser.User) userDTO {
	return userDTO{
		ID:           u.ID(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt(),
	}
}

func (d userDTO) toDomain() domuser.User {
	return domuser.Reconstruct(d.ID, d.Email, d.PasswordHash, d.CreatedAt)
}
