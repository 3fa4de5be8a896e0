// ABOUTME: Reminder database operations
// ABOUTME: Handles dated outreach nudges per contact, due queries, and status transitions
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pulse/models"
)

// startOfDay strips the time component; reminder due dates are date-only.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// CreateReminder inserts a reminder for a contact. The due date is stored at
// start of day; status defaults to pending.
func CreateReminder(db *sql.DB, r *models.Reminder) error {
	r.ID = uuid.New()
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.DueDate = startOfDay(r.DueDate)
	if r.Status == "" {
		r.Status = models.ReminderPending
	}
	if !models.ValidReminderStatus(r.Status) {
		return fmt.Errorf("unknown reminder status: %s", r.Status)
	}

	_, err := db.Exec(`
		INSERT INTO reminders (id, user_id, contact_id, due_date, note, status,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID.String(), r.UserID.String(), r.ContactID.String(), r.DueDate,
		r.Note, r.Status, r.CreatedAt, r.UpdatedAt)

	return err
}

func scanReminder(row interface{ Scan(...interface{}) error }) (*models.Reminder, error) {
	r := &models.Reminder{}
	var idStr, userIDStr, contactIDStr string
	var note sql.NullString

	err := row.Scan(&idStr, &userIDStr, &contactIDStr, &r.DueDate, &note,
		&r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	r.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reminder ID: %w", err)
	}
	r.UserID, err = uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	r.ContactID, err = uuid.Parse(contactIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contact ID: %w", err)
	}
	if note.Valid {
		r.Note = note.String
	}

	return r, nil
}

const reminderColumns = `id, user_id, contact_id, due_date, note, status,
	created_at, updated_at`

// GetReminder retrieves a reminder by ID scoped to its owner. Returns nil
// when not found.
func GetReminder(db *sql.DB, userID, id uuid.UUID) (*models.Reminder, error) {
	row := db.QueryRow(`
		SELECT `+reminderColumns+` FROM reminders
		WHERE id = ? AND user_id = ?
	`, id.String(), userID.String())

	r, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// ListPendingReminders returns a user's pending reminders joined with their
// contacts, soonest due date first.
func ListPendingReminders(db *sql.DB, userID uuid.UUID) ([]models.ReminderWithContact, error) {
	rows, err := db.Query(`
		SELECT r.id, r.user_id, r.contact_id, r.due_date, r.note, r.status,
		       r.created_at, r.updated_at, c.name, c.email, c.company
		FROM reminders r
		INNER JOIN contacts c ON c.id = r.contact_id
		WHERE r.user_id = ? AND r.status = ?
		ORDER BY r.due_date ASC
	`, userID.String(), models.ReminderPending)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var reminders []models.ReminderWithContact
	for rows.Next() {
		var rc models.ReminderWithContact
		var idStr, userIDStr, contactIDStr string
		var note, company sql.NullString

		err := rows.Scan(&idStr, &userIDStr, &contactIDStr, &rc.DueDate, &note,
			&rc.Status, &rc.CreatedAt, &rc.UpdatedAt,
			&rc.ContactName, &rc.ContactEmail, &company)
		if err != nil {
			return nil, err
		}

		rc.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse reminder ID: %w", err)
		}
		rc.UserID, err = uuid.Parse(userIDStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse user ID: %w", err)
		}
		rc.ContactID, err = uuid.Parse(contactIDStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse contact ID: %w", err)
		}
		if note.Valid {
			rc.Note = note.String
		}
		if company.Valid {
			rc.ContactCompany = company.String
		}

		reminders = append(reminders, rc)
	}

	return reminders, rows.Err()
}

// CountDueReminders counts pending reminders whose due date is today or
// earlier relative to now.
func CountDueReminders(db *sql.DB, userID uuid.UUID, now time.Time) (int, error) {
	endOfToday := startOfDay(now).AddDate(0, 0, 1)

	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM reminders
		WHERE user_id = ? AND status = ? AND due_date < ?
	`, userID.String(), models.ReminderPending, endOfToday).Scan(&count)

	return count, err
}

// SetReminderStatus transitions a reminder between pending, dismissed, and
// completed.
func SetReminderStatus(db *sql.DB, userID, id uuid.UUID, status string) error {
	if !models.ValidReminderStatus(status) {
		return fmt.Errorf("unknown reminder status: %s", status)
	}

	result, err := db.Exec(`
		UPDATE reminders SET status = ?, updated_at = ?
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
		return fmt.Errorf("reminder not found: %s", id)
	}

	return nil
}

// RescheduleReminder moves a reminder's due date, stored at start of day.
func RescheduleReminder(db *sql.DB, userID, id uuid.UUID, due time.Time) error {
	result, err := db.Exec(`
		UPDATE reminders SET due_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, startOfDay(due), time.Now(), id.String(), userID.String())
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("reminder not found: %s", id)
	}

	return nil
}

// DeleteReminder removes a reminder scoped to its owner.
func DeleteReminder(db *sql.DB, userID, id uuid.UUID) error {
	result, err := db.Exec(`
		DELETE FROM reminders WHERE id = ? AND user_id = ?
	`, id.String(), userID.String())
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("reminder not found: %s", id)
	}

	return nil
}
