// ABOUTME: OAuth configuration and credential lifecycle for Google APIs
// ABOUTME: Ensures a valid access token exists before any signal source call
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/models"
)

// refreshedTokenTTL is assumed when the token endpoint omits an expiry.
const refreshedTokenTTL = time.Hour

// NewOAuthConfig creates OAuth2 config for Google APIs.
// Users must create their own OAuth app in Google Cloud Console;
// credentials come from GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET.
func NewOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  "http://localhost:8080/oauth/callback",
		Scopes: []string{
			"https://www.googleapis.com/auth/gmail.readonly",
			"https://www.googleapis.com/auth/calendar.readonly",
		},
		Endpoint: google.Endpoint,
	}
}

// EnsureAccessToken returns a valid access token for the user, refreshing and
// persisting the stored credential when it has expired. Called once per
// reconciliation run, before any adapter call.
//
// Returns ErrNoCredential when the user never authenticated, and
// ErrAuthExpired when the credential cannot be refreshed (no refresh token,
// or the refresh itself failed).
func EnsureAccessToken(database *sql.DB, config *oauth2.Config, userID uuid.UUID, now time.Time) (string, error) {
	cred, err := db.GetCredential(database, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load credential: %w", err)
	}
	if cred == nil {
		return "", ErrNoCredential
	}

	if cred.ExpiresAt.After(now) {
		return cred.AccessToken, nil
	}

	if cred.RefreshToken == "" {
		return "", ErrAuthExpired
	}

	source := config.TokenSource(context.Background(), &oauth2.Token{
		RefreshToken: cred.RefreshToken,
	})
	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %v: %w", err, ErrAuthExpired)
	}

	cred.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		// Google occasionally rotates the refresh token
		cred.RefreshToken = token.RefreshToken
	}
	if token.Expiry.IsZero() {
		cred.ExpiresAt = now.Add(refreshedTokenTTL)
	} else {
		cred.ExpiresAt = token.Expiry
	}

	if err := db.PutCredential(database, cred); err != nil {
		return "", fmt.Errorf("failed to persist refreshed credential: %w", err)
	}

	return cred.AccessToken, nil
}

// SaveAuthorizedToken persists a token pair obtained from the interactive
// OAuth flow.
func SaveAuthorizedToken(database *sql.DB, userID uuid.UUID, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("token cannot be nil")
	}

	expiry := token.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(refreshedTokenTTL)
	}

	return db.PutCredential(database, &models.Credential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    expiry,
	})
}
