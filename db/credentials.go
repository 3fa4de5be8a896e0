// ABOUTME: Credential database operations
// ABOUTME: Stores the per-user Google token pair read and written by the sync package
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pulse/models"
)

// GetCredential retrieves a user's stored token pair. Returns nil when the
// user has never authenticated.
func GetCredential(db *sql.DB, userID uuid.UUID) (*models.Credential, error) {
	cred := &models.Credential{}
	var userIDStr string
	var refreshToken sql.NullString

	err := db.QueryRow(`
		SELECT user_id, access_token, refresh_token, expires_at, updated_at
		FROM credentials WHERE user_id = ?
	`, userID.String()).Scan(&userIDStr, &cred.AccessToken, &refreshToken,
		&cred.ExpiresAt, &cred.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	cred.UserID, err = uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	if refreshToken.Valid {
		cred.RefreshToken = refreshToken.String
	}

	return cred, nil
}

// PutCredential creates or replaces a user's token pair.
func PutCredential(db *sql.DB, cred *models.Credential) error {
	cred.UpdatedAt = time.Now()

	_, err := db.Exec(`
		INSERT INTO credentials (user_id, access_token, refresh_token, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`, cred.UserID.String(), cred.AccessToken, cred.RefreshToken, cred.ExpiresAt, cred.UpdatedAt)

	return err
}
