package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nexusvision/studio/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Store keeps the current-session user snapshot in Redis, keyed by user id.
// Entitlement mutations refresh the snapshot so the session always reflects
// the latest persisted balance. The privileged bypass identity lives only
// here, never in the users table.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new session store
func NewStore(host string, port int, password string, db int, ttl time.Duration) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Store{client: client, ttl: ttl}, nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Set stores the session snapshot for a user
func (s *Store) Set(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal session user: %w", err)
	}

	key := sessionKey(user.ID)
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

// Get retrieves the session snapshot for a user; nil on a miss.
func (s *Store) Get(ctx context.Context, userID string) (*models.User, error) {
	data, err := s.client.Get(ctx, sessionKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // No active session
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session user: %w", err)
	}

	return &user, nil
}

// Delete clears a user's session. Deleting an absent session is a no-op, so
// logout stays idempotent.
func (s *Store) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}

// Health check
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}
