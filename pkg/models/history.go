package models

import "time"

// GenerationRecord is one entry in a user's generation history. Records are
// append-only and immutable once written; image fields reference blobs in the
// blob store and may be nil when no image accompanied the brief.
type GenerationRecord struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	Niche          string    `json:"niche" db:"niche"`
	Theme          string    `json:"theme" db:"theme"`
	BaseImageID    *string   `json:"base_image_id,omitempty" db:"base_image_id"`
	StyleImageID   *string   `json:"style_image_id,omitempty" db:"style_image_id"`
	ProductImageID *string   `json:"product_image_id,omitempty" db:"product_image_id"`
	Concepts       []Concept `json:"concepts" db:"concepts"`
}

// Clone returns a deep copy so callers cannot mutate stored history.
func (r *GenerationRecord) Clone() *GenerationRecord {
	if r == nil {
		return nil
	}

	copied := *r
	copied.BaseImageID = cloneStringPtr(r.BaseImageID)
	copied.StyleImageID = cloneStringPtr(r.StyleImageID)
	copied.ProductImageID = cloneStringPtr(r.ProductImageID)

	copied.Concepts = make([]Concept, len(r.Concepts))
	for i, c := range r.Concepts {
		copied.Concepts[i] = c
		copied.Concepts[i].Headline = cloneStringPtr(c.Headline)
		copied.Concepts[i].VideoPrompt = cloneStringPtr(c.VideoPrompt)
	}

	return &copied
}

// HydratedGenerationRecord is a history record with its blob references
// resolved. A reference that no longer resolves leaves the payload nil.
type HydratedGenerationRecord struct {
	GenerationRecord
	BaseImage    *string `json:"base_image"`
	StyleImage   *string `json:"style_image"`
	ProductImage *string `json:"product_image"`
}

// GenerationImages carries the optional image payloads of a brief on their
// way into the blob store.
type GenerationImages struct {
	Base    string
	Style   string
	Product string
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}
