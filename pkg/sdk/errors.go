package studyshelf

import "github.com/studyshelf/studyshelf/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDocumentNotFound   = domain.ErrDocumentNotFound
	ErrValidation         = domain.ErrValidation
	ErrInvalidCredentials = domain.ErrInvalidCredentials
	ErrEmailTaken         = domain.ErrEmailTaken
	ErrWeakPassword       = domain.ErrWeakPassword
	ErrUnauthorized       = domain.ErrUnauthorized
)
