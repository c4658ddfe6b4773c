package generation

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"

	"github.com/nexusvision/studio/internal/logging"
	"github.com/nexusvision/studio/internal/metrics"
	"github.com/nexusvision/studio/pkg/models"
)

// PromptGenerator produces concepts from a brief.
type PromptGenerator interface {
	Generate(ctx context.Context, brief *models.Brief) ([]models.Concept, error)
}

// CreditDebiter charges the user for a generation.
type CreditDebiter interface {
	Debit(ctx context.Context, userID string, amount int) (*models.User, error)
}

// HistoryRecorder appends the finished generation to the user's history.
type HistoryRecorder interface {
	RecordGeneration(ctx context.Context, userID string, brief *models.Brief, images models.GenerationImages, concepts []models.Concept) (*models.GenerationRecord, error)
}

// Result is the outcome of a completed generation pipeline.
type Result struct {
	Concepts []models.Concept         `json:"concepts"`
	Record   *models.GenerationRecord `json:"record"`
	User     *models.User             `json:"user"`
}

// Service runs the generate pipeline in a fixed order: produce concepts,
// debit the credit, record history. Each stage runs only after the previous
// one succeeded, so a failed generation never charges the user and a failed
// debit never leaves a history record.
type Service struct {
	generator PromptGenerator
	credits   CreditDebiter
	history   HistoryRecorder
	log       *logging.Logger
}

// NewService creates a new generation service
func NewService(generator PromptGenerator, credits CreditDebiter, history HistoryRecorder, log *logging.Logger) *Service {
	return &Service{
		generator: generator,
		credits:   credits,
		history:   history,
		log:       log,
	}
}

// Generate runs the full pipeline for one brief.
func (s *Service) Generate(ctx context.Context, userID string, brief *models.Brief) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "generation.pipeline")
	defer span.Finish()
	span.SetTag("user_id", userID)

	start := time.Now()

	concepts, err := s.generator.Generate(ctx, brief)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("generation_failed").Inc()
		s.log.WithUserID(userID).ErrorWithErr("generation failed", err)
		return nil, err
	}

	user, err := s.credits.Debit(ctx, userID, 1)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("debit_failed").Inc()
		s.log.WithUserID(userID).ErrorWithErr("credit debit failed", err)
		return nil, err
	}

	images := models.GenerationImages{
		Base:    brief.BaseImage,
		Style:   brief.StyleImage,
		Product: brief.ProductImage,
	}

	record, err := s.history.RecordGeneration(ctx, userID, brief, images, concepts)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("record_failed").Inc()
		s.log.WithUserID(userID).ErrorWithErr("history record failed", err)
		return nil, err
	}

	metrics.GenerationsTotal.WithLabelValues("success").Inc()
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	s.log.LogGenerationEvent(userID, brief.Niche, brief.Theme, "success", len(concepts))

	return &Result{
		Concepts: concepts,
		Record:   record,
		User:     user,
	}, nil
}
