// ABOUTME: Data models for cadence tracking entities
// ABOUTME: Defines User, Contact, Interaction, SuggestedContact, Credential, and SyncReport
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pulse/cadence"
)

// User owns a set of tracked contacts and per-user sync settings.
type User struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email,omitempty"`
	SyncLookbackDays int       `json:"sync_lookback_days"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Contact is a tracked relationship whose communication cadence is monitored.
// Unique per user by normalized email. LastInteraction only moves forward:
// reconciliation never regresses it.
type Contact struct {
	ID                uuid.UUID      `json:"id"`
	UserID            uuid.UUID      `json:"user_id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Company           string         `json:"company,omitempty"`
	TargetCadenceDays int            `json:"target_cadence_days"`
	VarianceBuffer    float64        `json:"variance_buffer"`
	LastInteraction   time.Time      `json:"last_interaction"`
	Status            cadence.Status `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// Interaction source constants.
const (
	SourceManual   = "manual"
	SourceGmail    = "gmail"
	SourceCalendar = "calendar"
)

// Interaction is an append-only record of a detected or manual touchpoint.
// Never mutated; deleted only by cascade when its contact is deleted.
type Interaction struct {
	ID        string    `json:"id"` // ULID, time-sortable
	ContactID uuid.UUID `json:"contact_id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// Suggestion status constants.
const (
	SuggestionPending  = "pending"
	SuggestionRejected = "rejected"
)

// SuggestedContact is a discovered, not-yet-tracked address mined from
// outbound mail. Unique per user by normalized email.
type SuggestedContact struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name,omitempty"`
	LastEmailed time.Time `json:"last_emailed"`
	EmailCount  int       `json:"email_count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Reminder status constants.
const (
	ReminderPending   = "pending"
	ReminderDismissed = "dismissed"
	ReminderCompleted = "completed"
)

// Reminder is a dated nudge to reach out to a contact. Due dates carry no
// time component; a reminder counts as due once its date is today or earlier.
type Reminder struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ContactID uuid.UUID `json:"contact_id"`
	DueDate   time.Time `json:"due_date"`
	Note      string    `json:"note,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReminderWithContact is a reminder joined with the contact it points at,
// for list views.
type ReminderWithContact struct {
	Reminder
	ContactName    string `json:"contact_name"`
	ContactEmail   string `json:"contact_email"`
	ContactCompany string `json:"contact_company,omitempty"`
}

// Credential holds a user's Google token pair. Mutated only by the
// credential lifecycle manager in the sync package.
type Credential struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SyncOutcome records what happened to one contact during a reconciliation run.
type SyncOutcome struct {
	ContactID          uuid.UUID  `json:"contact_id"`
	ContactName        string     `json:"contact_name"`
	Updated            bool       `json:"updated"`
	Failed             bool       `json:"failed,omitempty"`
	Error              string     `json:"error,omitempty"`
	Source             string     `json:"source,omitempty"`
	NewLastInteraction *time.Time `json:"new_last_interaction,omitempty"`
}

// SyncReport is the result of one reconciliation run: primary-pass outcomes
// plus the best-effort discovery count.
type SyncReport struct {
	TotalConsidered int           `json:"total_considered"`
	UpdatedCount    int           `json:"updated_count"`
	NewSuggestions  int           `json:"new_suggestions"`
	DiscoveryError  string        `json:"discovery_error,omitempty"`
	LookbackDays    int           `json:"lookback_days"`
	Outcomes        []SyncOutcome `json:"outcomes"`
}

// Default contact and sync settings.
const (
	DefaultTargetCadenceDays = 30
	DefaultSyncLookbackDays  = 30
	MinSyncLookbackDays      = 1
	MaxSyncLookbackDays      = 365
)

// ValidSource reports whether s is a known interaction source.
func ValidSource(s string) bool {
	return s == SourceManual || s == SourceGmail || s == SourceCalendar
}

// ValidReminderStatus reports whether s is a known reminder status.
func ValidReminderStatus(s string) bool {
	return s == ReminderPending || s == ReminderDismissed || s == ReminderCompleted
}
