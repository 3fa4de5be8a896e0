// ABOUTME: Top-level reconciliation run wiring
// ABOUTME: Validates the credential once, builds per-run clients, and invokes the reconciler
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/models"
)

// Run executes one full reconciliation for the user: ensure a valid access
// token (once, before any adapter call), construct fresh API clients from
// it, and run the primary and discovery passes. A credential failure aborts
// the run; everything else degrades per contact.
func Run(ctx context.Context, database *sql.DB, user *models.User) (*models.SyncReport, error) {
	config := NewOAuthConfig()

	token, err := EnsureAccessToken(database, config, user.ID, time.Now())
	if err != nil {
		return nil, err
	}

	gmailService, err := NewGmailService(ctx, token)
	if err != nil {
		return nil, err
	}

	calendarService, err := NewCalendarService(ctx, token)
	if err != nil {
		return nil, err
	}

	// Learn the user's own address for self-filtering in discovery
	userEmail := user.Email
	if profile, err := gmailService.Users.GetProfile("me").Do(); err == nil && profile.EmailAddress != "" {
		userEmail = profile.EmailAddress
		if userEmail != user.Email {
			if err := db.UpdateUserEmail(database, user.ID, userEmail); err != nil {
				log.Printf("failed to store user email: %v", err)
			}
		}
	}

	reconciler := &Reconciler{
		DB:       database,
		Email:    &GmailSource{Service: gmailService},
		Calendar: &CalendarSource{Service: calendarService},
		Scan: func(lookbackDays int) ([]RecipientSignal, error) {
			if userEmail == "" {
				return nil, fmt.Errorf("user email unknown; cannot filter self-addressed mail")
			}
			return ScanSentRecipients(gmailService, userEmail, lookbackDays, time.Now())
		},
	}

	return reconciler.Reconcile(user)
}
