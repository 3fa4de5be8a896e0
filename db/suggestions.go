// ABOUTME: Suggested contact database operations
// ABOUTME: Handles discovery candidates, status transitions, and promotion to contacts
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pulse/cadence"
	"github.com/harperreed/pulse/models"
)

// CreateSuggestion inserts a new discovery candidate in pending status.
func CreateSuggestion(db *sql.DB, s *models.SuggestedContact) error {
	s.ID = uuid.New()
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	s.Email = NormalizeEmail(s.Email)
	if s.Status == "" {
		s.Status = models.SuggestionPending
	}

	_, err := db.Exec(`
		INSERT INTO suggested_contacts (id, user_id, email, name, last_emailed,
			email_count, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID.String(), s.UserID.String(), s.Email, s.Name, s.LastEmailed,
		s.EmailCount, s.Status, s.CreatedAt, s.UpdatedAt)

	return err
}

func scanSuggestion(row interface{ Scan(...interface{}) error }) (*models.SuggestedContact, error) {
	s := &models.SuggestedContact{}
	var idStr, userIDStr string
	var name sql.NullString

	err := row.Scan(&idStr, &userIDStr, &s.Email, &name, &s.LastEmailed,
		&s.EmailCount, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	s.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse suggestion ID: %w", err)
	}
	s.UserID, err = uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	if name.Valid {
		s.Name = name.String
	}

	return s, nil
}

const suggestionColumns = `id, user_id, email, name, last_emailed, email_count,
	status, created_at, updated_at`

// GetSuggestion retrieves a suggestion by ID scoped to its owner. Returns nil
// when not found.
func GetSuggestion(db *sql.DB, userID, id uuid.UUID) (*models.SuggestedContact, error) {
	row := db.QueryRow(`
		SELECT `+suggestionColumns+` FROM suggested_contacts
		WHERE id = ? AND user_id = ?
	`, id.String(), userID.String())

	s, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// ListSuggestions returns a user's suggestions in one status. Pending
// suggestions rank by email count then recency; rejected ones by recency of
// review.
func ListSuggestions(db *sql.DB, userID uuid.UUID, status string, limit int) ([]models.SuggestedContact, error) {
	if limit <= 0 {
		limit = 20
	}

	order := "email_count DESC, last_emailed DESC"
	if status == models.SuggestionRejected {
		order = "updated_at DESC"
	}

	rows, err := db.Query(`
		SELECT `+suggestionColumns+` FROM suggested_contacts
		WHERE user_id = ? AND status = ?
		ORDER BY `+order+`
		LIMIT ?
	`, userID.String(), status, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var suggestions []models.SuggestedContact
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, *s)
	}

	return suggestions, rows.Err()
}

// FindSuggestionByEmail looks up a suggestion by normalized email for one
// user, any status. Returns nil when not found.
func FindSuggestionByEmail(db *sql.DB, userID uuid.UUID, email string) (*models.SuggestedContact, error) {
	row := db.QueryRow(`
		SELECT `+suggestionColumns+` FROM suggested_contacts
		WHERE user_id = ? AND email = ?
	`, userID.String(), NormalizeEmail(email))

	s, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

// ListSuggestionEmails returns the set of already-suggested normalized
// addresses for a user, regardless of status. Used by discovery dedup.
func ListSuggestionEmails(db *sql.DB, userID uuid.UUID) (map[string]struct{}, error) {
	rows, err := db.Query(`
		SELECT email FROM suggested_contacts WHERE user_id = ?
	`, userID.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	emails := make(map[string]struct{})
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails[email] = struct{}{}
	}

	return emails, rows.Err()
}

// SetSuggestionStatus transitions a suggestion between pending and rejected.
func SetSuggestionStatus(db *sql.DB, userID, id uuid.UUID, status string) error {
	if status != models.SuggestionPending && status != models.SuggestionRejected {
		return fmt.Errorf("unknown suggestion status: %s", status)
	}

	result, err := db.Exec(`
		UPDATE suggested_contacts SET status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, status, time.Now(), id.String(), userID.String())
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("suggestion not found: %s", id)
	}

	return nil
}

// PromoteSuggestion converts a suggestion into a tracked contact and removes
// the suggestion, as one transaction. The new contact is seeded with the
// suggestion's last-emailed timestamp and classified from it.
func PromoteSuggestion(db *sql.DB, s *models.SuggestedContact, company string, targetCadenceDays int) (*models.Contact, error) {
	if targetCadenceDays <= 0 {
		targetCadenceDays = models.DefaultTargetCadenceDays
	}

	now := time.Now()
	name := s.Name
	if name == "" {
		// Fall back to the local part of the address
		name = strings.SplitN(s.Email, "@", 2)[0]
		if name == "" {
			name = s.Email
		}
	}

	contact := &models.Contact{
		ID:                uuid.New(),
		UserID:            s.UserID,
		Name:              name,
		Email:             NormalizeEmail(s.Email),
		Company:           company,
		TargetCadenceDays: targetCadenceDays,
		VarianceBuffer:    cadence.DefaultVarianceBuffer,
		LastInteraction:   s.LastEmailed,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	contact.Status = cadence.Classify(contact.LastInteraction, contact.TargetCadenceDays, contact.VarianceBuffer, now)

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.Exec(`
		INSERT INTO contacts (id, user_id, name, email, company, target_cadence_days,
			variance_buffer, last_interaction, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.UserID.String(), contact.Name, contact.Email,
		contact.Company, contact.TargetCadenceDays, contact.VarianceBuffer,
		contact.LastInteraction, string(contact.Status), contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	_, err = tx.Exec(`DELETE FROM suggested_contacts WHERE id = ?`, s.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to delete suggestion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit promotion: %w", err)
	}

	return contact, nil
}
