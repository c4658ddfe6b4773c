package auth

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nexusvision/studio/internal/logging"
	"github.com/nexusvision/studio/internal/metrics"
	"github.com/nexusvision/studio/pkg/models"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

// UserStore is the durable identity tier.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore holds the current-session snapshot per user.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Set(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error
}

// BypassCredentials is the privileged login pair that resolves to the fixed
// admin identity without touching the user table.
type BypassCredentials struct {
	Email    string
	Password string
	Name     string
}

// Service handles registration, login and session lifecycle.
type Service struct {
	store    UserStore
	sessions SessionStore
	bypass   BypassCredentials
	log      *logging.Logger
}

// NewService creates a new auth service
func NewService(store UserStore, sessions SessionStore, bypass BypassCredentials, log *logging.Logger) *Service {
	return &Service{
		store:    store,
		sessions: sessions,
		bypass:   bypass,
		log:      log,
	}
}

// Register creates a new account on the free plan with the starting credit
// grant and opens a session for it.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	user := &models.User{
		Name:    name,
		Email:   email,
		Credits: models.Metered(5),
		Plan:    models.PlanFree,
		Avatar:  AvatarURL(name),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.sessions.Set(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	metrics.RegistrationsTotal.Inc()
	s.log.WithUserID(user.ID).Info("user registered")

	return user, nil
}

// Login resolves credentials to an identity and opens a session. The
// privileged pair short-circuits to the fixed admin identity and never reads
// the user table. All other logins resolve by email only; the password is
// accepted as-is and not verified against a stored secret.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == s.bypass.Email && password == s.bypass.Password {
		admin := s.adminIdentity()
		if err := s.sessions.Set(ctx, admin); err != nil {
			return nil, fmt.Errorf("failed to open session: %w", err)
		}

		metrics.LoginsTotal.WithLabelValues("bypass").Inc()
		s.log.WithUserID(admin.ID).Info("privileged login")

		return admin, nil
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	if err := s.sessions.Set(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.WithUserID(user.ID).Info("user logged in")

	return user, nil
}

// Logout closes the user's session. Logging out an already-closed session is
// not an error.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// Current returns the session snapshot for the user, or nil when no session
// is open.
func (s *Service) Current(ctx context.Context, userID string) (*models.User, error) {
	return s.sessions.Get(ctx, userID)
}

// adminIdentity builds the fixed privileged identity. It exists only as a
// session snapshot, never as a user row.
func (s *Service) adminIdentity() *models.User {
	return &models.User{
		ID:      models.AdminUserID,
		Name:    s.bypass.Name,
		Email:   s.bypass.Email,
		Credits: models.UnlimitedCredits(),
		Plan:    models.PlanUltra,
		Avatar:  AvatarURL("admin"),
		IsAdmin: true,
	}
}

// AvatarURL derives a deterministic avatar from a seed string.
func AvatarURL(seed string) string {
	return fmt.Sprintf("%s?seed=%s", avatarBaseURL, url.QueryEscape(seed))
}
