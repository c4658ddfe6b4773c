package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexusvision/studio/internal/logging"
	"github.com/nexusvision/studio/internal/metrics"
	"github.com/nexusvision/studio/pkg/models"
)

// maxUpdateRetries bounds the reload-and-retry loop around optimistic
// version conflicts.
const maxUpdateRetries = 3

// UserStore is the metadata tier the ledger mutates.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// SessionStore keeps the current-session snapshot in sync with the ledger.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Set(ctx context.Context, user *models.User) error
}

// Service is the entitlement ledger: plan catalog lookups and credit balance
// mutation.
type Service struct {
	store    UserStore
	sessions SessionStore
	log      *logging.Logger
}

// NewService creates a new entitlement service
func NewService(store UserStore, sessions SessionStore, log *logging.Logger) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		log:      log,
	}
}

// Purchase assigns the plan and adds its credit grant to the user's existing
// balance. Switching plans is a cumulative top-up, not a reset. Concurrent
// writers are resolved by reloading on version conflicts.
func (s *Service) Purchase(ctx context.Context, userID string, planID models.PlanID) (*models.User, error) {
	plan, ok := LookupPlan(planID)
	if !ok {
		return nil, models.ErrUnknownPlan
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		user, err := s.store.GetUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		user.Plan = planID
		user.Credits = user.Credits.Add(plan.Credits)

		if err := s.store.UpdateUser(ctx, user); err != nil {
			if errors.Is(err, models.ErrVersionConflict) {
				continue
			}
			return nil, err
		}

		s.refreshSession(ctx, user)
		metrics.PlanPurchasesTotal.WithLabelValues(string(planID)).Inc()
		s.log.LogCreditEvent(userID, "purchase", plan.Credits, user.Credits.String())

		return user, nil
	}

	return nil, fmt.Errorf("failed to apply purchase after %d attempts: %w", maxUpdateRetries, models.ErrVersionConflict)
}

// Debit subtracts amount credits (default 1) from the user's balance. The
// privileged bypass identity is a no-op returning itself unchanged; a metered
// user with an exhausted balance fails with ErrInsufficientCredits before
// anything is persisted.
func (s *Service) Debit(ctx context.Context, userID string, amount int) (*models.User, error) {
	if amount <= 0 {
		amount = 1
	}

	if userID == models.AdminUserID {
		return s.bypassIdentity(ctx)
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		user, err := s.store.GetUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		debited, err := user.Credits.Debit(amount)
		if err != nil {
			metrics.CreditDebitRejectionsTotal.Inc()
			return nil, err
		}
		user.Credits = debited

		if err := s.store.UpdateUser(ctx, user); err != nil {
			if errors.Is(err, models.ErrVersionConflict) {
				continue
			}
			return nil, err
		}

		s.refreshSession(ctx, user)
		metrics.CreditsDebitedTotal.Add(float64(amount))
		s.log.LogCreditEvent(userID, "debit", amount, user.Credits.String())

		return user, nil
	}

	return nil, fmt.Errorf("failed to apply debit after %d attempts: %w", maxUpdateRetries, models.ErrVersionConflict)
}

// bypassIdentity returns the privileged identity unchanged. It prefers the
// live session snapshot so name and email survive; the fallback carries the
// fixed id and the unlimited balance.
func (s *Service) bypassIdentity(ctx context.Context) (*models.User, error) {
	snapshot, err := s.sessions.Get(ctx, models.AdminUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bypass session: %w", err)
	}
	if snapshot != nil {
		return snapshot, nil
	}

	return &models.User{
		ID:      models.AdminUserID,
		Credits: models.UnlimitedCredits(),
		Plan:    models.PlanUltra,
		IsAdmin: true,
	}, nil
}

// refreshSession updates the current-session snapshot. Session refresh is
// best-effort: the ledger mutation already persisted.
func (s *Service) refreshSession(ctx context.Context, user *models.User) {
	if err := s.sessions.Set(ctx, user); err != nil {
		s.log.WithUserID(user.ID).ErrorWithErr("failed to refresh session snapshot", err)
	}
}
