// ABOUTME: Contact database operations
// ABOUTME: Handles CRUD, owner-scoped lookups, and the atomic interaction write
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/pulse/cadence"
	"github.com/harperreed/pulse/models"
)

// NormalizeEmail converts an email address to its storage-key form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateContact inserts a new tracked contact. Fills defaults for cadence
// settings, last interaction, and status when unset.
func CreateContact(db *sql.DB, contact *models.Contact) error {
	contact.ID = uuid.New()
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	contact.Email = NormalizeEmail(contact.Email)

	if contact.TargetCadenceDays <= 0 {
		contact.TargetCadenceDays = models.DefaultTargetCadenceDays
	}
	if contact.VarianceBuffer <= 0 {
		contact.VarianceBuffer = cadence.DefaultVarianceBuffer
	}
	if contact.LastInteraction.IsZero() {
		contact.LastInteraction = now
	}
	if !contact.Status.Valid() {
		contact.Status = cadence.Classify(contact.LastInteraction, contact.TargetCadenceDays, contact.VarianceBuffer, now)
	}

	_, err := db.Exec(`
		INSERT INTO contacts (id, user_id, name, email, company, target_cadence_days,
			variance_buffer, last_interaction, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.UserID.String(), contact.Name, contact.Email,
		contact.Company, contact.TargetCadenceDays, contact.VarianceBuffer,
		contact.LastInteraction, string(contact.Status), contact.CreatedAt, contact.UpdatedAt)

	return err
}

func scanContact(row interface{ Scan(...interface{}) error }) (*models.Contact, error) {
	c := &models.Contact{}
	var idStr, userIDStr, status string
	var company sql.NullString

	err := row.Scan(&idStr, &userIDStr, &c.Name, &c.Email, &company,
		&c.TargetCadenceDays, &c.VarianceBuffer, &c.LastInteraction, &status,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}
	c.UserID, err = uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	if company.Valid {
		c.Company = company.String
	}
	c.Status = cadence.Status(status)

	return c, nil
}

const contactColumns = `id, user_id, name, email, company, target_cadence_days,
	variance_buffer, last_interaction, status, created_at, updated_at`

// GetContact retrieves a contact by ID scoped to its owner. Returns nil when
// not found.
func GetContact(db *sql.DB, userID, id uuid.UUID) (*models.Contact, error) {
	row := db.QueryRow(`
		SELECT `+contactColumns+` FROM contacts WHERE id = ? AND user_id = ?
	`, id.String(), userID.String())

	contact, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return contact, err
}

// FindContactByEmail looks up a contact by normalized email for one user.
// Returns nil when not found.
func FindContactByEmail(db *sql.DB, userID uuid.UUID, email string) (*models.Contact, error) {
	row := db.QueryRow(`
		SELECT `+contactColumns+` FROM contacts WHERE user_id = ? AND email = ?
	`, userID.String(), NormalizeEmail(email))

	contact, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return contact, err
}

// ListContacts returns all tracked contacts for a user, oldest interaction first.
func ListContacts(db *sql.DB, userID uuid.UUID) ([]models.Contact, error) {
	rows, err := db.Query(`
		SELECT `+contactColumns+` FROM contacts
		WHERE user_id = ?
		ORDER BY last_interaction ASC
	`, userID.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

// UpdateContact updates a contact's editable fields.
func UpdateContact(db *sql.DB, contact *models.Contact) error {
	contact.UpdatedAt = time.Now()
	contact.Email = NormalizeEmail(contact.Email)

	_, err := db.Exec(`
		UPDATE contacts
		SET name = ?, email = ?, company = ?, target_cadence_days = ?,
			variance_buffer = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, contact.Name, contact.Email, contact.Company, contact.TargetCadenceDays,
		contact.VarianceBuffer, contact.UpdatedAt, contact.ID.String(), contact.UserID.String())

	return err
}

// DeleteContact removes a contact; its interaction history cascades.
func DeleteContact(db *sql.DB, userID, id uuid.UUID) error {
	_, err := db.Exec(`DELETE FROM contacts WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	return err
}

// RecordInteraction appends an interaction and advances the contact's
// last_interaction and status in a single transaction: either both writes
// land or neither does.
func RecordInteraction(db *sql.DB, contact *models.Contact, source string, timestamp time.Time, status cadence.Status) (*models.Interaction, error) {
	if !models.ValidSource(source) {
		return nil, fmt.Errorf("unknown interaction source: %s", source)
	}

	interaction := &models.Interaction{
		ID:        ulid.Make().String(),
		ContactID: contact.ID,
		Source:    source,
		Timestamp: timestamp,
		CreatedAt: time.Now(),
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	_, err = tx.Exec(`
		INSERT INTO interactions (id, contact_id, source, timestamp, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, interaction.ID, interaction.ContactID.String(), interaction.Source,
		interaction.Timestamp, interaction.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert interaction: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE contacts SET last_interaction = ?, status = ?, updated_at = ?
		WHERE id = ?
	`, timestamp, string(status), interaction.CreatedAt, contact.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit interaction: %w", err)
	}

	contact.LastInteraction = timestamp
	contact.Status = status
	contact.UpdatedAt = interaction.CreatedAt

	return interaction, nil
}
