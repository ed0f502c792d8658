// Package auth handles account registration, login, and token verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studyshelf/studyshelf/internal/domain"
	"github.com/studyshelf/studyshelf/internal/domain/user"
)

// DefaultTokenTTL is how long issued tokens stay valid.
const DefaultTokenTTL = 3 * 24 * time.Hour

// Session is the outcome of a successful registration or login.
type Session struct {
	UserID string
	Email  string
	Token  string
}

// Service registers users and issues HS256-signed bearer tokens.
type Service struct {
	repo       Repository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

// New creates an auth service signing with the given secret.
func New(repo Repository, secret string) *Service {
	return &Service{
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: DefaultTokenTTL,
		now:      time.Now,
	}
}

// WithTokenTTL overrides the token lifetime.
func (s *Service) WithTokenTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.tokenTTL = ttl
	}
	return s
}

// WithBcryptCost overrides the password hashing cost.
func (s *Service) WithBcryptCost(cost int) *Service {
	s.bcryptCost = cost
	return s
}

// WithClock overrides the timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates an account and returns a live session. A taken email
// fails with ErrEmailTaken; weak passwords with ErrWeakPassword.
func (s *Service) Register(ctx context.Context, email, password string) (Session, error) {
	u, err := user.New(email, password, s.bcryptCost, s.now().UTC())
	if err != nil {
		return Session{}, err
	}

	_, err = s.repo.GetByEmail(ctx, u.Email())
	switch {
	case err == nil:
		return Session{}, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return Session{}, fmt.Errorf("check email: %w", err)
	}

	if err := s.repo.Create(ctx, &u); err != nil {
		return Session{}, fmt.Errorf("store user: %w", err)
	}
	return s.session(&u)
}

// Login verifies credentials and returns a live session. Unknown emails and
// wrong passwords both fail with ErrInvalidCredentials so the response
// never reveals which part was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.repo.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Session{}, domain.ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("get user: %w", err)
	}
	if !u.VerifyPassword(password) {
		return Session{}, domain.ErrInvalidCredentials
	}
	return s.session(&u)
}

// Verify parses a bearer token and returns the user ID it was issued to.
// Malformed, mis-signed, and expired tokens all fail with ErrUnauthorized.
func (s *Service) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !parsed.Valid {
		return "", domain.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}

func (s *Service) session(u *user.User) (Session, error) {
	now := s.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   u.ID(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{UserID: u.ID(), Email: u.Email(), Token: signed}, nil
}
