// ABOUTME: User database operations
// ABOUTME: Handles local user provisioning and sync settings
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pulse/models"
)

// GetUser retrieves a user by ID. Returns nil when not found.
func GetUser(db *sql.DB, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	var idStr string
	var email sql.NullString

	err := db.QueryRow(`
		SELECT id, email, sync_lookback_days, created_at, updated_at
		FROM users WHERE id = ?
	`, id.String()).Scan(&idStr, &email, &user.SyncLookbackDays, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	if email.Valid {
		user.Email = email.String
	}

	return user, nil
}

// GetDefaultUser returns the single local user, creating it on first use.
// This is a single-profile tool; multi-user scoping exists in the schema so
// every query stays owner-bound.
func GetDefaultUser(db *sql.DB) (*models.User, error) {
	user := &models.User{}
	var idStr string
	var email sql.NullString

	err := db.QueryRow(`
		SELECT id, email, sync_lookback_days, created_at, updated_at
		FROM users ORDER BY created_at LIMIT 1
	`).Scan(&idStr, &email, &user.SyncLookbackDays, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		now := time.Now()
		user = &models.User{
			ID:               uuid.New(),
			SyncLookbackDays: models.DefaultSyncLookbackDays,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		_, err = db.Exec(`
			INSERT INTO users (id, email, sync_lookback_days, created_at, updated_at)
			VALUES (?, NULL, ?, ?, ?)
		`, user.ID.String(), user.SyncLookbackDays, user.CreatedAt, user.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	user.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	if email.Valid {
		user.Email = email.String
	}

	return user, nil
}

// UpdateUserEmail records the user's own address, learned from the Gmail
// profile during sync. Used to drop self-addressed mail in discovery.
func UpdateUserEmail(db *sql.DB, userID uuid.UUID, email string) error {
	_, err := db.Exec(`
		UPDATE users SET email = ?, updated_at = ? WHERE id = ?
	`, strings.ToLower(strings.TrimSpace(email)), time.Now(), userID.String())
	return err
}

// UpdateSyncLookbackDays sets the user's lookback window, bounded to 1-365 days.
func UpdateSyncLookbackDays(db *sql.DB, userID uuid.UUID, days int) error {
	if days < models.MinSyncLookbackDays || days > models.MaxSyncLookbackDays {
		return fmt.Errorf("sync lookback days must be between %d and %d, got %d",
			models.MinSyncLookbackDays, models.MaxSyncLookbackDays, days)
	}

	_, err := db.Exec(`
		UPDATE users SET sync_lookback_days = ?, updated_at = ? WHERE id = ?
	`, days, time.Now(), userID.String())
	return err
}
