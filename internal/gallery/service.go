package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexusvision/studio/internal/logging"
	"github.com/nexusvision/studio/internal/metrics"
	"github.com/nexusvision/studio/pkg/models"
)

// BlobStore is the payload tier holding image data.
type BlobStore interface {
	Put(ctx context.Context, payload string) (string, error)
	Get(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

// MetadataStore is the structured tier holding history, showcase and hero
// rows.
type MetadataStore interface {
	InsertHistory(ctx context.Context, record *models.GenerationRecord) error
	ListHistoryByUser(ctx context.Context, userID string) ([]*models.GenerationRecord, error)
	GetHistory(ctx context.Context, id string) (*models.GenerationRecord, error)

	CountShowcaseRow(ctx context.Context, row models.ShowcaseRow) (int, error)
	InsertShowcaseItems(ctx context.Context, items []*models.ShowcaseItem) error
	ListShowcase(ctx context.Context) ([]*models.ShowcaseItem, error)
	DeleteShowcaseItem(ctx context.Context, id string) (string, error)

	UpsertHeroExample(ctx context.Context, hero *models.HeroExample) error
	GetHeroExample(ctx context.Context) (*models.HeroExample, error)
}

// ShowcaseSubmission is one candidate image for a showcase row.
type ShowcaseSubmission struct {
	Payload  string `json:"payload" binding:"required"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Service manages the two-tier gallery: blob payloads in object storage,
// metadata rows in the database. Blobs are written before the rows that
// reference them so a reference never points at a payload that was not
// stored.
type Service struct {
	blobs BlobStore
	meta  MetadataStore
	log   *logging.Logger
}

// NewService creates a new gallery service
func NewService(blobs BlobStore, meta MetadataStore, log *logging.Logger) *Service {
	return &Service{
		blobs: blobs,
		meta:  meta,
		log:   log,
	}
}

// RecordGeneration appends a generation to the user's history. Image payloads
// are stored first; only the resulting blob IDs go into the record.
func (s *Service) RecordGeneration(ctx context.Context, userID string, brief *models.Brief, images models.GenerationImages, concepts []models.Concept) (*models.GenerationRecord, error) {
	record := &models.GenerationRecord{
		UserID:   userID,
		Niche:    brief.Niche,
		Theme:    brief.Theme,
		Concepts: concepts,
	}

	var err error
	if record.BaseImageID, err = s.putOptional(ctx, images.Base); err != nil {
		return nil, err
	}
	if record.StyleImageID, err = s.putOptional(ctx, images.Style); err != nil {
		return nil, err
	}
	if record.ProductImageID, err = s.putOptional(ctx, images.Product); err != nil {
		return nil, err
	}

	if err := s.meta.InsertHistory(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// ListHistory returns the user's generation history, most recent first.
func (s *Service) ListHistory(ctx context.Context, userID string) ([]*models.GenerationRecord, error) {
	return s.meta.ListHistoryByUser(ctx, userID)
}

// GetHydratedHistory returns a single history record with its image payloads
// resolved. A reference whose blob is gone leaves the payload nil rather than
// failing the whole record.
func (s *Service) GetHydratedHistory(ctx context.Context, id string) (*models.HydratedGenerationRecord, error) {
	record, err := s.meta.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	hydrated := &models.HydratedGenerationRecord{GenerationRecord: *record}

	if hydrated.BaseImage, err = s.getOptional(ctx, record.BaseImageID); err != nil {
		return nil, err
	}
	if hydrated.StyleImage, err = s.getOptional(ctx, record.StyleImageID); err != nil {
		return nil, err
	}
	if hydrated.ProductImage, err = s.getOptional(ctx, record.ProductImageID); err != nil {
		return nil, err
	}

	return hydrated, nil
}

// AddShowcaseItems adds a batch of curated images to a showcase row. The row
// is capped: submissions beyond the remaining capacity are rejected outright,
// not queued. Accepted items keep their submission order and list ahead of
// older batches.
func (s *Service) AddShowcaseItems(ctx context.Context, row models.ShowcaseRow, submissions []ShowcaseSubmission) ([]*models.ShowcaseItem, int, error) {
	if !row.Valid() {
		return nil, 0, fmt.Errorf("invalid showcase row %q", row)
	}

	count, err := s.meta.CountShowcaseRow(ctx, row)
	if err != nil {
		return nil, 0, err
	}

	capacity := models.MaxShowcaseRowItems - count
	if capacity < 0 {
		capacity = 0
	}

	rejected := 0
	if len(submissions) > capacity {
		rejected = len(submissions) - capacity
		submissions = submissions[:capacity]
	}

	items := make([]*models.ShowcaseItem, 0, len(submissions))
	for i, sub := range submissions {
		imageID, err := s.blobs.Put(ctx, sub.Payload)
		if err != nil {
			return nil, 0, err
		}

		items = append(items, &models.ShowcaseItem{
			Title:      sub.Title,
			Category:   sub.Category,
			ImageID:    imageID,
			Row:        row,
			BatchIndex: i,
		})
	}

	if len(items) > 0 {
		if err := s.meta.InsertShowcaseItems(ctx, items); err != nil {
			return nil, 0, err
		}
	}

	metrics.ShowcaseItemsAcceptedTotal.Add(float64(len(items)))
	metrics.ShowcaseItemsRejectedTotal.Add(float64(rejected))

	if rejected > 0 {
		s.log.Warnf("showcase row %s full: rejected %d of %d submissions", row, rejected, rejected+len(items))
	}

	return items, rejected, nil
}

// ListShowcaseItems returns all showcase items with payloads resolved, newest
// batch first. Items whose blob is gone are dropped from the listing.
func (s *Service) ListShowcaseItems(ctx context.Context) ([]*models.HydratedShowcaseItem, error) {
	items, err := s.meta.ListShowcase(ctx)
	if err != nil {
		return nil, err
	}

	hydrated := make([]*models.HydratedShowcaseItem, 0, len(items))
	for _, item := range items {
		payload, err := s.blobs.Get(ctx, item.ImageID)
		if errors.Is(err, models.ErrBlobNotFound) {
			s.log.WithField("item_id", item.ID).Warn("dropping showcase item with dangling blob")
			continue
		}
		if err != nil {
			return nil, err
		}

		hydrated = append(hydrated, &models.HydratedShowcaseItem{
			ShowcaseItem: *item,
			ImageURL:     payload,
		})
	}

	return hydrated, nil
}

// DeleteShowcaseItem removes an item from the showcase. The metadata row is
// authoritative: once it is gone the delete succeeded, and the blob is
// reclaimed best-effort.
func (s *Service) DeleteShowcaseItem(ctx context.Context, id string) error {
	imageID, err := s.meta.DeleteShowcaseItem(ctx, id)
	if err != nil {
		return err
	}

	if imageID != "" {
		if err := s.blobs.Delete(ctx, imageID); err != nil {
			s.log.WithField("item_id", id).ErrorWithErr("failed to reclaim showcase blob", err)
		}
	}

	return nil
}

// SetHeroExample replaces the landing-page hero example. A non-empty image
// payload is stored and referenced; an empty one clears the reference.
func (s *Service) SetHeroExample(ctx context.Context, input, prompt, caption, imagePayload string) (*models.HeroExample, error) {
	hero := &models.HeroExample{
		Input:   input,
		Prompt:  prompt,
		Caption: caption,
	}

	if imagePayload != "" {
		imageID, err := s.blobs.Put(ctx, imagePayload)
		if err != nil {
			return nil, err
		}
		hero.ImageID = imageID
	}

	if err := s.meta.UpsertHeroExample(ctx, hero); err != nil {
		return nil, err
	}

	return hero, nil
}

// GetHeroExample returns the hero example with defaults filled in for any
// missing field, so the landing page always has content. A dangling or absent
// image reference yields a nil image.
func (s *Service) GetHeroExample(ctx context.Context) (*models.HydratedHeroExample, error) {
	hero, err := s.meta.GetHeroExample(ctx)
	if err != nil {
		return nil, err
	}
	if hero == nil {
		hero = &models.HeroExample{}
	}

	hydrated := &models.HydratedHeroExample{
		Input:   hero.Input,
		Prompt:  hero.Prompt,
		Caption: hero.Caption,
	}
	if hydrated.Input == "" {
		hydrated.Input = models.DefaultHeroInput
	}
	if hydrated.Prompt == "" {
		hydrated.Prompt = models.DefaultHeroPrompt
	}
	if hydrated.Caption == "" {
		hydrated.Caption = models.DefaultHeroCaption
	}

	if hero.ImageID != "" {
		if hydrated.Image, err = s.getOptional(ctx, &hero.ImageID); err != nil {
			return nil, err
		}
	}

	return hydrated, nil
}

// putOptional stores a payload when present, returning the blob ID or nil.
func (s *Service) putOptional(ctx context.Context, payload string) (*string, error) {
	if payload == "" {
		return nil, nil
	}

	id, err := s.blobs.Put(ctx, payload)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// getOptional resolves a blob reference, mapping a missing blob to nil.
func (s *Service) getOptional(ctx context.Context, id *string) (*string, error) {
	if id == nil {
		return nil, nil
	}

	payload, err := s.blobs.Get(ctx, *id)
	if errors.Is(err, models.ErrBlobNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &payload, nil
}
