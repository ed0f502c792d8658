package domain

import (
	"errors"
	"strings"
)

var (
	// ErrDocumentNotFound signals a missing or foreign-owned document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrUserNotFound signals a lookup of an unregistered account.
	ErrUserNotFound = errors.New("user not found")
	// ErrValidation signals rejected input; use NewValidationError for field detail.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials signals a failed login. The message is deliberately
	// uniform for unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.New("incorrect log in details")
	// ErrEmailTaken signals a signup against an already registered email.
	ErrEmailTaken = errors.New("email address is not available")
	// ErrWeakPassword signals a password below the strength policy.
	ErrWeakPassword = errors.New("password does not meet strength requirements")
	// ErrUnauthorized signals a missing, expired, or invalid credential.
	// Callers must treat it as "user is logged out".
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError wraps ErrValidation with the named empty or malformed fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error naming the offending fields.
func NewValidationError(fields ...string) error {
	return &ValidationError{Fields: fields}
}
