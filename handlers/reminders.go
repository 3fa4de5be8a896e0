// ABOUTME: Reminder MCP tool handlers
// ABOUTME: Implements add_reminder, list_reminders, update_reminder, and delete_reminder tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/models"
)

type ReminderHandlers struct {
	db *sql.DB
}

func NewReminderHandlers(database *sql.DB) *ReminderHandlers {
	return &ReminderHandlers{db: database}
}

type ReminderOutput struct {
	ID           string `json:"id"`
	ContactID    string `json:"contact_id"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	DueDate      string `json:"due_date"`
	Note         string `json:"note,omitempty"`
	Status       string `json:"status"`
}

type AddReminderInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	DueDate   string `json:"due_date" jsonschema:"When to be reminded, as YYYY-MM-DD (required)"`
	Note      string `json:"note,omitempty" jsonschema:"What the reminder is about"`
}

func (h *ReminderHandlers) AddReminder(_ context.Context, request *mcp.CallToolRequest, input AddReminderInput) (*mcp.CallToolResult, ReminderOutput, error) {
	if input.ContactID == "" {
		return nil, ReminderOutput{}, fmt.Errorf("contact_id is required")
	}
	if input.DueDate == "" {
		return nil, ReminderOutput{}, fmt.Errorf("due_date is required")
	}

	due, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, ReminderOutput{}, err
	}

	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, ReminderOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, ReminderOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	contact, err := db.GetContact(h.db, user.ID, contactID)
	if err != nil {
		return nil, ReminderOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ReminderOutput{}, fmt.Errorf("contact not found")
	}

	reminder := &models.Reminder{
		UserID:    user.ID,
		ContactID: contact.ID,
		DueDate:   due,
		Note:      input.Note,
	}
	if err := db.CreateReminder(h.db, reminder); err != nil {
		return nil, ReminderOutput{}, fmt.Errorf("failed to create reminder: %w", err)
	}

	output := reminderToOutput(reminder)
	output.ContactName = contact.Name
	output.ContactEmail = contact.Email
	return nil, output, nil
}

type ListRemindersInput struct{}

type ListRemindersOutput struct {
	Reminders []ReminderOutput `json:"reminders"`
	DueCount  int              `json:"due_count"`
}

func (h *ReminderHandlers) ListReminders(_ context.Context, request *mcp.CallToolRequest, input ListRemindersInput) (*mcp.CallToolResult, ListRemindersOutput, error) {
	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, ListRemindersOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	reminders, err := db.ListPendingReminders(h.db, user.ID)
	if err != nil {
		return nil, ListRemindersOutput{}, fmt.Errorf("failed to list reminders: %w", err)
	}

	dueCount, err := db.CountDueReminders(h.db, user.ID, time.Now())
	if err != nil {
		return nil, ListRemindersOutput{}, fmt.Errorf("failed to count due reminders: %w", err)
	}

	result := make([]ReminderOutput, len(reminders))
	for i := range reminders {
		result[i] = reminderToOutput(&reminders[i].Reminder)
		result[i].ContactName = reminders[i].ContactName
		result[i].ContactEmail = reminders[i].ContactEmail
	}

	return nil, ListRemindersOutput{Reminders: result, DueCount: dueCount}, nil
}

type UpdateReminderInput struct {
	ID      string `json:"id" jsonschema:"Reminder ID (required)"`
	Status  string `json:"status,omitempty" jsonschema:"New status (pending, dismissed, completed)"`
	DueDate string `json:"due_date,omitempty" jsonschema:"New due date as YYYY-MM-DD"`
}

func (h *ReminderHandlers) UpdateReminder(_ context.Context, request *mcp.CallToolRequest, input UpdateReminderInput) (*mcp.CallToolResult, ReminderOutput, error) {
	if input.ID == "" {
		return nil, ReminderOutput{}, fmt.Errorf("id is required")
	}
	if input.Status == "" && input.DueDate == "" {
		return nil, ReminderOutput{}, fmt.Errorf("status or due_date is required")
	}
	if input.Status != "" && !models.ValidReminderStatus(input.Status) {
		return nil, ReminderOutput{}, fmt.Errorf("unknown reminder status: %s", input.Status)
	}

	user, reminder, err := h.load(input.ID)
	if err != nil {
		return nil, ReminderOutput{}, err
	}

	if input.Status != "" {
		if err := db.SetReminderStatus(h.db, user.ID, reminder.ID, input.Status); err != nil {
			return nil, ReminderOutput{}, fmt.Errorf("failed to update reminder: %w", err)
		}
		reminder.Status = input.Status
	}

	if input.DueDate != "" {
		due, err := parseDueDate(input.DueDate)
		if err != nil {
			return nil, ReminderOutput{}, err
		}
		if err := db.RescheduleReminder(h.db, user.ID, reminder.ID, due); err != nil {
			return nil, ReminderOutput{}, fmt.Errorf("failed to reschedule reminder: %w", err)
		}
		reminder.DueDate = due
	}

	output := reminderToOutput(reminder)
	if contact, err := db.GetContact(h.db, user.ID, reminder.ContactID); err == nil && contact != nil {
		output.ContactName = contact.Name
		output.ContactEmail = contact.Email
	}
	return nil, output, nil
}

type DeleteReminderInput struct {
	ID string `json:"id" jsonschema:"Reminder ID (required)"`
}

type DeleteReminderOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ReminderHandlers) DeleteReminder(_ context.Context, request *mcp.CallToolRequest, input DeleteReminderInput) (*mcp.CallToolResult, DeleteReminderOutput, error) {
	if input.ID == "" {
		return nil, DeleteReminderOutput{}, fmt.Errorf("id is required")
	}

	user, reminder, err := h.load(input.ID)
	if err != nil {
		return nil, DeleteReminderOutput{}, err
	}

	if err := db.DeleteReminder(h.db, user.ID, reminder.ID); err != nil {
		return nil, DeleteReminderOutput{}, fmt.Errorf("failed to delete reminder: %w", err)
	}

	return nil, DeleteReminderOutput{
		Success: true,
		Message: fmt.Sprintf("Deleted reminder due %s", reminder.DueDate.Format("2006-01-02")),
	}, nil
}

func (h *ReminderHandlers) load(id string) (*models.User, *models.Reminder, error) {
	reminderID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid id: %w", err)
	}

	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	reminder, err := db.GetReminder(h.db, user.ID, reminderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	if reminder == nil {
		return nil, nil, fmt.Errorf("reminder not found")
	}

	return user, reminder, nil
}

// parseDueDate accepts a plain date or a full RFC3339 timestamp; only the
// date part is kept either way.
func parseDueDate(s string) (time.Time, error) {
	if due, err := time.Parse("2006-01-02", s); err == nil {
		return due, nil
	}
	if due, err := time.Parse(time.RFC3339, s); err == nil {
		return due, nil
	}
	return time.Time{}, fmt.Errorf("invalid due date %q (use YYYY-MM-DD)", s)
}

func reminderToOutput(r *models.Reminder) ReminderOutput {
	return ReminderOutput{
		ID:        r.ID.String(),
		ContactID: r.ContactID.String(),
		DueDate:   r.DueDate.Format("2006-01-02"),
		Note:      r.Note,
		Status:    r.Status,
	}
}
