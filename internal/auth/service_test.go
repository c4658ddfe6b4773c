package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nexusvision/studio/internal/logging"
	"github.com/nexusvision/studio/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	byEmail map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*models.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return models.ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Version = 1
	f.byEmail[user.Email] = user.Clone()
	return nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return user.Clone(), nil
}

type fakeSessionStore struct {
	sessions map[string]*models.User
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.User)}
}

func (f *fakeSessionStore) Get(ctx context.Context, userID string) (*models.User, error) {
	return f.sessions[userID].Clone(), nil
}

func (f *fakeSessionStore) Set(ctx context.Context, user *models.User) error {
	f.sessions[user.ID] = user.Clone()
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, userID string) error {
	delete(f.sessions, userID)
	return nil
}

var testBypass = BypassCredentials{
	Email:    "admin@example.com",
	Password: "super-secret",
	Name:     "Admin",
}

func testService(store UserStore, sessions SessionStore) *Service {
	log, _ := logging.NewDefaultLogger()
	return NewService(store, sessions, testBypass, log)
}

func TestRegister(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := testService(newFakeUserStore(), sessions)

	user, err := svc.Register(context.Background(), "Ana Souza", "ana@example.com", "pw")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.PlanFree, user.Plan)
	assert.Equal(t, 5, user.Credits.Amount)
	assert.False(t, user.Credits.Unlimited)
	assert.False(t, user.IsAdmin)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=Ana+Souza", user.Avatar)

	// Registration opens a session
	snapshot, _ := sessions.Get(context.Background(), user.ID)
	require.NotNil(t, snapshot)
	assert.Equal(t, user.Email, snapshot.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := testService(newFakeUserStore(), newFakeSessionStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Ana", "ana@example.com", "pw2")
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := testService(store, sessions)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Ana", "ana@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, registered.ID))

	user, err := svc.Login(ctx, "ana@example.com", "anything")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	snapshot, _ := sessions.Get(ctx, user.ID)
	require.NotNil(t, snapshot)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := testService(newFakeUserStore(), newFakeSessionStore())

	_, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestLoginBypassPair(t *testing.T) {
	store := newFakeUserStore()
	sessions := newFakeSessionStore()
	svc := testService(store, sessions)

	admin, err := svc.Login(context.Background(), testBypass.Email, testBypass.Password)
	require.NoError(t, err)

	assert.Equal(t, models.AdminUserID, admin.ID)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.Credits.Unlimited)
	assert.Equal(t, models.PlanUltra, admin.Plan)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=admin", admin.Avatar)

	// The bypass identity never reaches the user table
	_, err = store.GetUserByEmail(context.Background(), testBypass.Email)
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	snapshot, _ := sessions.Get(context.Background(), models.AdminUserID)
	require.NotNil(t, snapshot)
	assert.True(t, snapshot.Credits.Unlimited)
}

func TestLoginBypassRequiresBothFields(t *testing.T) {
	svc := testService(newFakeUserStore(), newFakeSessionStore())

	_, err := svc.Login(context.Background(), testBypass.Email, "wrong-password")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestLogoutIsIdempotent(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := testService(newFakeUserStore(), sessions)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ana", "ana@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID))
	require.NoError(t, svc.Logout(ctx, user.ID))

	current, err := svc.Current(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, current)
}
