package document

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/studyshelf/studyshelf/internal/domain"
)

// MaxTagLength is the maximum length of a single stored tag.
const MaxTagLength = 15

// Document is a user-authored record (immutable value object).
type Document struct {
	id        string
	ownerID   string
	title     string
	content   string
	tags      []string
	createdAt time.Time
	updatedAt time.Time
}

// Fields are the writable attributes of a document.
type Fields struct {
	Title   string
	Content string
	Tags    []string
}

// New validates the fields and creates a Document owned by ownerID.
// Title and content must be non-empty; tags must contain at least one entry,
// each trimmed and at most MaxTagLength chars. Violations are collected into
// a single ValidationError naming every offending field.
func New(ownerID string, f Fields, now time.Time) (Document, error) {
	tags, bad := normalizeTags(f.Tags)

	var empty []string
	if strings.TrimSpace(f.Title) == "" {
		empty = append(empty, "title")
	}
	if strings.TrimSpace(f.Content) == "" {
		empty = append(empty, "content")
	}
	if len(tags) == 0 || bad {
		empty = append(empty, "tags")
	}
	if len(empty) > 0 {
		return Document{}, domain.NewValidationError(empty...)
	}

	return Document{
		id:        uuid.NewString(),
		ownerID:   ownerID,
		title:     strings.TrimSpace(f.Title),
		content:   strings.TrimSpace(f.Content),
		tags:      tags,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, ownerID, title, content string, tags []string,
	createdAt, updatedAt time.Time,
) Document {
	return Document{
		id: id, ownerID: ownerID, title: title, content: content,
		tags: tags, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// WithFields returns a copy with the writable attributes replaced and
// updatedAt bumped. Validation matches New.
func (d *Document) WithFields(f Fields, now time.Time) (Document, error) {
	next, err := New(d.ownerID, f, now)
	if err != nil {
		return Document{}, err
	}
	next.id = d.id
	next.createdAt = d.createdAt
	return next, nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// OwnerID returns the owning user's identifier.
func (d *Document) OwnerID() string { return d.ownerID }

// Title returns the document title.
func (d *Document) Title() string { return d.title }

// Content returns the document text content.
func (d *Document) Content() string { return d.content }

// Tags returns the document's tags in entry order.
func (d *Document) Tags() []string { return d.tags }

// HasTag reports whether the document carries the given tag.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CreatedAt returns the creation timestamp.
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the last modification timestamp.
func (d *Document) UpdatedAt() time.Time { return d.updatedAt }

// normalizeTags trims each tag and drops duplicates, preserving entry order.
// bad is true when any entry is empty after trimming or exceeds MaxTagLength.
func normalizeTags(raw []string) (tags []string, bad bool) {
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" || len(t) > MaxTagLength {
			bad = true
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags, bad
}
