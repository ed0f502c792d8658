package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/studyshelf/studyshelf/internal/domain"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is the account aggregate.
type User struct {
	id           string
	email        string
	passwordHash string
	createdAt    time.Time
}

// New validates email and password policy and creates a User with a bcrypt hash.
func New(email, password string, bcryptCost int, now time.Time) (User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return User{}, domain.NewValidationError("email", "password")
	}
	if !emailRegex.MatchString(email) {
		return User{}, fmt.Errorf("%w: malformed email", domain.ErrInvalidCredentials)
	}
	if !IsStrongPassword(password) {
		return User{}, domain.ErrWeakPassword
	}

	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	return User{
		id:           uuid.NewString(),
		email:        email,
		passwordHash: string(hash),
		createdAt:    now,
	}, nil
}

// Reconstruct creates a User without validation (storage hydration).
func Reconstruct(id, email, passwordHash string, createdAt time.Time) User {
	return User{id: id, email: email, passwordHash: passwordHash, createdAt: createdAt}
}

// ID returns the user identifier.
func (u *User) ID() string { return u.id }

// Email returns the normalized email address.
func (u *User) Email() string { return u.email }

// PasswordHash returns the bcrypt hash for storage.
func (u *User) PasswordHash() string { return u.passwordHash }

// CreatedAt returns the registration timestamp.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// VerifyPassword reports whether the given password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsStrongPassword enforces the strength policy: at least MinPasswordLength
// chars with one lowercase, one uppercase, one digit, and one symbol.
func IsStrongPassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
