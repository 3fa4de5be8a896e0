// ABOUTME: Interaction history queries
// ABOUTME: Read-only access to the append-only interaction log
package db

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/harperreed/pulse/models"
)

// GetInteractionHistory retrieves recent interactions for a contact, newest first.
func GetInteractionHistory(db *sql.DB, contactID uuid.UUID, limit int) ([]models.Interaction, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.Query(`
		SELECT id, contact_id, source, timestamp, created_at
		FROM interactions
		WHERE contact_id = ?
		ORDER BY timestamp DESC
		LIMIT ?
	`, contactID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var interactions []models.Interaction
	for rows.Next() {
		var i models.Interaction
		var contactIDStr string
		if err := rows.Scan(&i.ID, &contactIDStr, &i.Source, &i.Timestamp, &i.CreatedAt); err != nil {
			return nil, err
		}
		i.ContactID, err = uuid.Parse(contactIDStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse contact ID: %w", err)
		}
		interactions = append(interactions, i)
	}

	return interactions, rows.Err()
}

// CountInteractions returns the number of interactions recorded for a contact.
func CountInteractions(db *sql.DB, contactID uuid.UUID) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM interactions WHERE contact_id = ?`,
		contactID.String()).Scan(&count)
	return count, err
}
