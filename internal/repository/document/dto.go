package document

import (
	"encoding/json"
	"fmt"
	"time"

	domdoc "github.com/studyshelf/studyshelf/internal/domain/document"
)

// docDTO is the stored JSON shape of a document.
type docDTO struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toDTO(doc *domdoc.Document) docDTO {
	return docDTO{
		ID:        doc.ID(),
		OwnerID:   doc.OwnerID(),
		Title:     doc.Title(),
		Content:   doc.Content(),
		Tags:      doc.Tags(),
		CreatedAt: doc.CreatedAt(),
		UpdatedAt: doc.UpdatedAt(),
	}
}

func (d docDTO) toDomain() domdoc.Document {
	return domdoc.Reconstruct(
		d.ID, d.OwnerID, d.Title, d.Content, d.Tags, d.CreatedAt, d.UpdatedAt,
	)
}

// decodeDoc parses a JSON.GET payload. A "$" path query wraps the value in
// a one-element array; a plain object is accepted too.
func decodeDoc(raw []byte) (domdoc.Document, error) {
	var wrapped []docDTO
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		if len(wrapped) == 0 {
			return domdoc.Document{}, fmt.Errorf("empty json path result")
		}
		return wrapped[0].toDomain(), nil
	}
	var single docDTO
	if err := json.Unmarshal(raw, &single); err != nil {
		return domdoc.Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return single.toDomain(), nil
}
