// ABOUTME: Tests for user provisioning and sync settings
// ABOUTME: Covers first-use creation, stability across calls, and lookback bounds
package db

import (
	"testing"

	"github.com/google/uuid"

	"github.com/harperreed/pulse/models"
)

func TestGetDefaultUserCreatesOnFirstUse(t *testing.T) {
	db := setupTestDB(t)

	user, err := GetDefaultUser(db)
	if err != nil {
		t.Fatalf("GetDefaultUser failed: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("User ID was not set")
	}
	if user.SyncLookbackDays != models.DefaultSyncLookbackDays {
		t.Errorf("SyncLookbackDays = %d, want %d", user.SyncLookbackDays, models.DefaultSyncLookbackDays)
	}

	// Second call returns the same user, not a new one
	again, err := GetDefaultUser(db)
	if err != nil {
		t.Fatalf("Second GetDefaultUser failed: %v", err)
	}
	if again.ID != user.ID {
		t.Errorf("GetDefaultUser created a second user: %s vs %s", again.ID, user.ID)
	}
}

func TestGetUserNotFound(t *testing.T) {
	db := setupTestDB(t)

	user, err := GetUser(db, uuid.New())
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if user != nil {
		t.Errorf("Expected nil for unknown user, got %+v", user)
	}
}

func TestUpdateUserEmail(t *testing.T) {
	db := setupTestDB(t)

	user, err := GetDefaultUser(db)
	if err != nil {
		t.Fatalf("GetDefaultUser failed: %v", err)
	}

	if err := UpdateUserEmail(db, user.ID, "  Me@Example.COM "); err != nil {
		t.Fatalf("UpdateUserEmail failed: %v", err)
	}

	reloaded, err := GetUser(db, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if reloaded.Email != "me@example.com" {
		t.Errorf("Email = %q, want normalized me@example.com", reloaded.Email)
	}
}

func TestUpdateSyncLookbackDays(t *testing.T) {
	db := setupTestDB(t)

	user, err := GetDefaultUser(db)
	if err != nil {
		t.Fatalf("GetDefaultUser failed: %v", err)
	}

	if err := UpdateSyncLookbackDays(db, user.ID, 90); err != nil {
		t.Fatalf("UpdateSyncLookbackDays failed: %v", err)
	}

	reloaded, err := GetUser(db, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if reloaded.SyncLookbackDays != 90 {
		t.Errorf("SyncLookbackDays = %d, want 90", reloaded.SyncLookbackDays)
	}

	for _, days := range []int{0, -1, 366, 10000} {
		if err := UpdateSyncLookbackDays(db, user.ID, days); err == nil {
			t.Errorf("Expected error for out-of-range lookback %d", days)
		}
	}

	// Bounds themselves are valid
	if err := UpdateSyncLookbackDays(db, user.ID, models.MinSyncLookbackDays); err != nil {
		t.Errorf("Min lookback rejected: %v", err)
	}
	if err := UpdateSyncLookbackDays(db, user.ID, models.MaxSyncLookbackDays); err != nil {
		t.Errorf("Max lookback rejected: %v", err)
	}
}
