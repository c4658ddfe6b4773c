package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nexusvision/studio/pkg/models"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	// Create a mini Redis server for testing
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	store, err := NewStore(mr.Host(), mr.Server().Addr().Port, "", 0, time.Hour)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create session store: %v", err)
	}

	return store, mr
}

func TestNewStore(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestStore_SetGetDelete(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()

	user := &models.User{
		ID:      "user-1",
		Name:    "Ana",
		Email:   "ana@example.com",
		Credits: models.Metered(5),
		Plan:    models.PlanFree,
	}

	// Test Set
	if err := store.Set(ctx, user); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Test Get
	retrieved, err := store.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if retrieved == nil {
		t.Fatal("Retrieved session should not be nil")
	}
	if retrieved.Email != user.Email {
		t.Errorf("Expected email %s, got %s", user.Email, retrieved.Email)
	}
	if retrieved.Credits.Amount != 5 || retrieved.Credits.Unlimited {
		t.Errorf("Expected 5 metered credits, got %v", retrieved.Credits)
	}

	// Test Get for a user with no session
	missing, err := store.Get(ctx, "nobody")
	if err != nil {
		t.Fatalf("Get for missing session should not error: %v", err)
	}
	if missing != nil {
		t.Error("Missing session should return nil")
	}

	// Test Delete
	if err := store.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	deleted, err := store.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get after delete failed: %v", err)
	}
	if deleted != nil {
		t.Error("Deleted session should return nil")
	}

	// Deleting again is a no-op
	if err := store.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Second Delete should be a no-op: %v", err)
	}
}

func TestStore_UnlimitedCreditsRoundTrip(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()

	admin := &models.User{
		ID:      models.AdminUserID,
		Name:    "Admin",
		Email:   "admin@example.com",
		Credits: models.UnlimitedCredits(),
		Plan:    models.PlanUltra,
		IsAdmin: true,
	}

	if err := store.Set(ctx, admin); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	retrieved, err := store.Get(ctx, models.AdminUserID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if retrieved == nil {
		t.Fatal("Retrieved session should not be nil")
	}
	if !retrieved.Credits.Unlimited {
		t.Error("Admin session should keep unlimited credits")
	}
	if !retrieved.IsAdmin {
		t.Error("Admin session should keep the admin flag")
	}
}
