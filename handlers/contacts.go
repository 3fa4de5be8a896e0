// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, list_contacts, update_contact, delete_contact, and check_in tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pulse/cadence"
	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/models"
)

type ContactHandlers struct {
	db *sql.DB
}

func NewContactHandlers(database *sql.DB) *ContactHandlers {
	return &ContactHandlers{db: database}
}

type AddContactInput struct {
	Name              string  `json:"name" jsonschema:"Contact name (required)"`
	Email             string  `json:"email" jsonschema:"Contact email address (required, unique)"`
	Company           string  `json:"company,omitempty" jsonschema:"Company or affiliation"`
	TargetCadenceDays int     `json:"target_cadence_days,omitempty" jsonschema:"Desired days between touchpoints (default 30)"`
	VarianceBuffer    float64 `json:"variance_buffer,omitempty" jsonschema:"Fractional tolerance around the cadence (default 0.15)"`
}

type ContactOutput struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Company           string  `json:"company,omitempty"`
	TargetCadenceDays int     `json:"target_cadence_days"`
	VarianceBuffer    float64 `json:"variance_buffer"`
	LastInteraction   string  `json:"last_interaction"`
	LastContacted     string  `json:"last_contacted"`
	Status            string  `json:"status"`
	DaysSince         int     `json:"days_since"`
	Suggestion        string  `json:"suggestion,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

func (h *ContactHandlers) AddContact(_ context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Name == "" {
		return nil, ContactOutput{}, fmt.Errorf("name is required")
	}
	if input.Email == "" {
		return nil, ContactOutput{}, fmt.Errorf("email is required")
	}

	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	existing, err := db.FindContactByEmail(h.db, user.ID, input.Email)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to check for existing contact: %w", err)
	}
	if existing != nil {
		return nil, ContactOutput{}, fmt.Errorf("a contact with email %s already exists", existing.Email)
	}

	contact := &models.Contact{
		UserID:            user.ID,
		Name:              input.Name,
		Email:             input.Email,
		Company:           input.Company,
		TargetCadenceDays: input.TargetCadenceDays,
		VarianceBuffer:    input.VarianceBuffer,
	}

	if err := db.CreateContact(h.db, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return nil, contactToOutput(contact, time.Now()), nil
}

type ListContactsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by cadence status (healthy, in_window, overdue)"`
}

type ListContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) ListContacts(_ context.Context, request *mcp.CallToolRequest, input ListContactsInput) (*mcp.CallToolResult, ListContactsOutput, error) {
	if input.Status != "" && !cadence.Status(input.Status).Valid() {
		return nil, ListContactsOutput{}, fmt.Errorf("unknown status filter: %s", input.Status)
	}

	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, ListContactsOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	contacts, err := db.ListContacts(h.db, user.ID)
	if err != nil {
		return nil, ListContactsOutput{}, fmt.Errorf("failed to list contacts: %w", err)
	}

	now := time.Now()
	models.RefreshStatuses(contacts, now)
	models.SortByUrgency(contacts)

	result := make([]ContactOutput, 0, len(contacts))
	for i := range contacts {
		if input.Status != "" && string(contacts[i].Status) != input.Status {
			continue
		}
		result = append(result, contactToOutput(&contacts[i], now))
	}

	return nil, ListContactsOutput{Contacts: result}, nil
}

type UpdateContactInput struct {
	ID                string  `json:"id" jsonschema:"Contact ID (required)"`
	Name              string  `json:"name,omitempty" jsonschema:"Updated contact name"`
	Email             string  `json:"email,omitempty" jsonschema:"Updated email address"`
	Company           string  `json:"company,omitempty" jsonschema:"Updated company"`
	TargetCadenceDays int     `json:"target_cadence_days,omitempty" jsonschema:"Updated target cadence in days"`
	VarianceBuffer    float64 `json:"variance_buffer,omitempty" jsonschema:"Updated variance buffer"`
}

func (h *ContactHandlers) UpdateContact(_ context.Context, request *mcp.CallToolRequest, input UpdateContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	contactID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	contact, err := db.GetContact(h.db, user.ID, contactID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ContactOutput{}, fmt.Errorf("contact not found")
	}

	// Update fields if provided
	if input.Name != "" {
		contact.Name = input.Name
	}
	if input.Email != "" {
		contact.Email = input.Email
	}
	if input.Company != "" {
		contact.Company = input.Company
	}
	if input.TargetCadenceDays > 0 {
		contact.TargetCadenceDays = input.TargetCadenceDays
	}
	if input.VarianceBuffer > 0 {
		contact.VarianceBuffer = input.VarianceBuffer
	}

	if err := db.UpdateContact(h.db, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to update contact: %w", err)
	}

	// Cadence settings changed; the label may have too
	now := time.Now()
	contact.Status = cadence.Classify(contact.LastInteraction, contact.TargetCadenceDays, contact.VarianceBuffer, now)

	return nil, contactToOutput(contact, now), nil
}

type DeleteContactInput struct {
	ID string `json:"id" jsonschema:"Contact ID (required)"`
}

type DeleteContactOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ContactHandlers) DeleteContact(_ context.Context, request *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteContactOutput, error) {
	if input.ID == "" {
		return nil, DeleteContactOutput{}, fmt.Errorf("id is required")
	}

	contactID, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	contact, err := db.GetContact(h.db, user.ID, contactID)
	if err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("contact not found")
	}

	if err := db.DeleteContact(h.db, user.ID, contactID); err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil, DeleteContactOutput{
		Success: true,
		Message: fmt.Sprintf("Deleted contact: %s", contact.Name),
	}, nil
}

type CheckInInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Timestamp string `json:"timestamp,omitempty" jsonschema:"When the touchpoint happened (RFC3339, defaults to now)"`
}

func (h *ContactHandlers) CheckIn(_ context.Context, request *mcp.CallToolRequest, input CheckInInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ContactID == "" {
		return nil, ContactOutput{}, fmt.Errorf("contact_id is required")
	}

	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	contact, err := db.GetContact(h.db, user.ID, contactID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ContactOutput{}, fmt.Errorf("contact not found")
	}

	now := time.Now()
	timestamp := now
	if input.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, input.Timestamp)
		if err != nil {
			return nil, ContactOutput{}, fmt.Errorf("invalid timestamp format (use RFC3339): %w", err)
		}
		timestamp = parsed
	}

	// Manual check-ins may also backdate, but never regress the contact
	if !timestamp.After(contact.LastInteraction) {
		return nil, contactToOutput(contact, now), nil
	}

	status := cadence.Classify(timestamp, contact.TargetCadenceDays, contact.VarianceBuffer, now)
	if _, err := db.RecordInteraction(h.db, contact, models.SourceManual, timestamp, status); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to record check-in: %w", err)
	}

	return nil, contactToOutput(contact, now), nil
}

type ContactHistoryInput struct {
	ContactID string `json:"contact_id" jsonschema:"Contact ID (required)"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of interactions (default 10)"`
}

type InteractionOutput struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

type ContactHistoryOutput struct {
	Contact      ContactOutput       `json:"contact"`
	Interactions []InteractionOutput `json:"interactions"`
}

func (h *ContactHandlers) GetContactHistory(_ context.Context, request *mcp.CallToolRequest, input ContactHistoryInput) (*mcp.CallToolResult, ContactHistoryOutput, error) {
	if input.ContactID == "" {
		return nil, ContactHistoryOutput{}, fmt.Errorf("contact_id is required")
	}

	contactID, err := uuid.Parse(input.ContactID)
	if err != nil {
		return nil, ContactHistoryOutput{}, fmt.Errorf("invalid contact_id: %w", err)
	}

	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, ContactHistoryOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	contact, err := db.GetContact(h.db, user.ID, contactID)
	if err != nil {
		return nil, ContactHistoryOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, ContactHistoryOutput{}, fmt.Errorf("contact not found")
	}

	interactions, err := db.GetInteractionHistory(h.db, contactID, input.Limit)
	if err != nil {
		return nil, ContactHistoryOutput{}, fmt.Errorf("failed to load history: %w", err)
	}

	output := ContactHistoryOutput{Contact: contactToOutput(contact, time.Now())}
	for _, interaction := range interactions {
		output.Interactions = append(output.Interactions, InteractionOutput{
			ID:        interaction.ID,
			Source:    interaction.Source,
			Timestamp: interaction.Timestamp.Format(time.RFC3339),
		})
	}

	return nil, output, nil
}

func contactToOutput(contact *models.Contact, now time.Time) ContactOutput {
	status := cadence.Classify(contact.LastInteraction, contact.TargetCadenceDays, contact.VarianceBuffer, now)

	return ContactOutput{
		ID:                contact.ID.String(),
		Name:              contact.Name,
		Email:             contact.Email,
		Company:           contact.Company,
		TargetCadenceDays: contact.TargetCadenceDays,
		VarianceBuffer:    contact.VarianceBuffer,
		LastInteraction:   contact.LastInteraction.Format(time.RFC3339),
		LastContacted:     cadence.FormatLastContacted(contact.LastInteraction, now),
		Status:            string(status),
		DaysSince:         cadence.DaysSince(contact.LastInteraction, now),
		Suggestion:        cadence.OutreachSuggestion(status, contact.Name, contact.TargetCadenceDays),
		CreatedAt:         contact.CreatedAt.Format(time.RFC3339),
	}
}
