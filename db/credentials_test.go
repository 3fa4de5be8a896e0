// ABOUTME: Tests for credential storage
// ABOUTME: Covers missing credential, upsert replacement, and refresh token persistence
package db

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pulse/models"
)

func TestGetCredentialMissing(t *testing.T) {
	db := setupTestDB(t)

	cred, err := GetCredential(db, uuid.New())
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if cred != nil {
		t.Errorf("Expected nil for unknown user, got %+v", cred)
	}
}

func TestPutCredentialUpserts(t *testing.T) {
	db := setupTestDB(t)
	user := testUser(t, db)

	expiry := time.Now().Add(time.Hour)
	err := PutCredential(db, &models.Credential{
		UserID:       user.ID,
		AccessToken:  "first",
		RefreshToken: "refresh-1",
		ExpiresAt:    expiry,
	})
	if err != nil {
		t.Fatalf("PutCredential failed: %v", err)
	}

	cred, err := GetCredential(db, user.ID)
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if cred.AccessToken != "first" || cred.RefreshToken != "refresh-1" {
		t.Errorf("Unexpected credential: %+v", cred)
	}

	// Replacing the same user's credential overwrites, never duplicates
	err = PutCredential(db, &models.Credential{
		UserID:      user.ID,
		AccessToken: "second",
		ExpiresAt:   expiry.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Second PutCredential failed: %v", err)
	}

	cred, err = GetCredential(db, user.ID)
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if cred.AccessToken != "second" {
		t.Errorf("AccessToken = %q, want second", cred.AccessToken)
	}
	if cred.RefreshToken != "" {
		t.Errorf("RefreshToken = %q, want cleared", cred.RefreshToken)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM credentials`).Scan(&count); err != nil {
		t.Fatalf("Failed to count credentials: %v", err)
	}
	if count != 1 {
		t.Errorf("Credential rows = %d, want 1", count)
	}
}
