package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/nexusvision/studio/internal/logging"
	"github.com/nexusvision/studio/internal/metrics"
	"github.com/nexusvision/studio/pkg/models"
)

// Publisher hands notifications to the queue for asynchronous processing.
type Publisher interface {
	PublishPaymentNotification(ctx context.Context, notification *models.PaymentNotification) error
}

// Purchaser applies a confirmed purchase to the entitlement ledger.
type Purchaser interface {
	Purchase(ctx context.Context, userID string, planID models.PlanID) (*models.User, error)
}

// Service is the webhook intake: it accepts gateway notifications, filters
// the noise and enqueues the rest. Entitlement changes happen in the worker,
// never in the request path.
type Service struct {
	publisher Publisher
	log       *logging.Logger
}

// NewService creates a new payment intake service
func NewService(publisher Publisher, log *logging.Logger) *Service {
	return &Service{
		publisher: publisher,
		log:       log,
	}
}

// Intake accepts a gateway notification. Non-payment events are acknowledged
// and dropped so the gateway stops resending them.
func (s *Service) Intake(ctx context.Context, notification *models.PaymentNotification) error {
	if notification.Type != "payment" {
		metrics.PaymentNotificationsTotal.WithLabelValues("ignored").Inc()
		s.log.WithField("type", notification.Type).Debug("ignoring non-payment notification")
		return nil
	}

	notification.ReceivedAt = time.Now()

	if err := s.publisher.PublishPaymentNotification(ctx, notification); err != nil {
		metrics.PaymentNotificationsTotal.WithLabelValues("enqueue_failed").Inc()
		return fmt.Errorf("failed to enqueue payment notification: %w", err)
	}

	metrics.PaymentNotificationsTotal.WithLabelValues("enqueued").Inc()
	return nil
}

// Processor consumes queued notifications and applies them to the ledger.
type Processor struct {
	purchaser Purchaser
	log       *logging.Logger
}

// NewProcessor creates a new payment processor
func NewProcessor(purchaser Purchaser, log *logging.Logger) *Processor {
	return &Processor{
		purchaser: purchaser,
		log:       log,
	}
}

// Process applies one notification. The external reference is trusted as
// carried in the notification; it is not reconciled against the gateway's
// payment record by data_id. A malformed reference is dropped rather than
// retried; ledger failures propagate so the message is redelivered.
func (p *Processor) Process(ctx context.Context, notification *models.PaymentNotification) error {
	userID, planID, err := DecodeReference(notification.ExternalReference)
	if err != nil {
		metrics.PaymentNotificationsTotal.WithLabelValues("malformed").Inc()
		p.log.ErrorWithErr("dropping malformed payment notification", err)
		return nil
	}

	user, err := p.purchaser.Purchase(ctx, userID, planID)
	if err != nil {
		metrics.PaymentNotificationsTotal.WithLabelValues("apply_failed").Inc()
		return fmt.Errorf("failed to apply payment for user %s: %w", userID, err)
	}

	metrics.PaymentNotificationsTotal.WithLabelValues("applied").Inc()
	p.log.WithUserID(user.ID).WithPlan(string(planID)).Info("payment applied")

	return nil
}
