// ABOUTME: Tests for contact MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/pulse/cadence"
	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func TestAddContactHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	_, output, err := handler.AddContact(context.Background(), nil, AddContactInput{
		Name:    "John Doe",
		Email:   "John@Example.com",
		Company: "Acme",
	})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	if output.Name != "John Doe" {
		t.Errorf("Expected name 'John Doe', got %v", output.Name)
	}
	if output.Email != "john@example.com" {
		t.Errorf("Expected normalized email, got %v", output.Email)
	}
	if output.ID == "" {
		t.Error("ID was not set")
	}
	if output.TargetCadenceDays != models.DefaultTargetCadenceDays {
		t.Errorf("Expected default cadence, got %d", output.TargetCadenceDays)
	}
	if output.Status != string(cadence.StatusHealthy) {
		t.Errorf("New contact status = %s, want healthy", output.Status)
	}
}

func TestAddContactHandlerValidation(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	_, _, err := handler.AddContact(context.Background(), nil, AddContactInput{Email: "x@example.com"})
	if err == nil {
		t.Error("Expected error for missing name")
	}

	_, _, err = handler.AddContact(context.Background(), nil, AddContactInput{Name: "X"})
	if err == nil {
		t.Error("Expected error for missing email")
	}
}

func TestAddContactHandlerDuplicate(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	input := AddContactInput{Name: "John", Email: "john@example.com"}
	if _, _, err := handler.AddContact(context.Background(), nil, input); err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	input.Email = "JOHN@example.com"
	if _, _, err := handler.AddContact(context.Background(), nil, input); err == nil {
		t.Error("Expected error for duplicate email")
	}
}

func TestListContactsHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	user, err := db.GetDefaultUser(database)
	if err != nil {
		t.Fatalf("GetDefaultUser failed: %v", err)
	}

	now := time.Now()
	overdue := &models.Contact{UserID: user.ID, Name: "Overdue", Email: "overdue@example.com",
		LastInteraction: now.AddDate(0, 0, -60)}
	healthy := &models.Contact{UserID: user.ID, Name: "Healthy", Email: "healthy@example.com",
		LastInteraction: now.AddDate(0, 0, -2)}
	for _, c := range []*models.Contact{healthy, overdue} {
		if err := db.CreateContact(database, c); err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}
	}

	_, output, err := handler.ListContacts(context.Background(), nil, ListContactsInput{})
	if err != nil {
		t.Fatalf("ListContacts failed: %v", err)
	}
	if len(output.Contacts) != 2 {
		t.Fatalf("Expected 2 contacts, got %d", len(output.Contacts))
	}
	// Most urgent first
	if output.Contacts[0].Name != "Overdue" {
		t.Errorf("Expected Overdue first, got %s", output.Contacts[0].Name)
	}
	if output.Contacts[0].Status != string(cadence.StatusOverdue) {
		t.Errorf("Status = %s, want overdue", output.Contacts[0].Status)
	}
	if output.Contacts[0].Suggestion == "" {
		t.Error("Overdue contact should carry an outreach suggestion")
	}

	// Status filter
	_, filtered, err := handler.ListContacts(context.Background(), nil, ListContactsInput{Status: "overdue"})
	if err != nil {
		t.Fatalf("ListContacts with filter failed: %v", err)
	}
	if len(filtered.Contacts) != 1 || filtered.Contacts[0].Name != "Overdue" {
		t.Errorf("Unexpected filtered result: %+v", filtered.Contacts)
	}

	_, _, err = handler.ListContacts(context.Background(), nil, ListContactsInput{Status: "bogus"})
	if err == nil {
		t.Error("Expected error for unknown status filter")
	}
}

func TestUpdateContactHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	_, created, err := handler.AddContact(context.Background(), nil, AddContactInput{
		Name: "John", Email: "john@example.com",
	})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	_, updated, err := handler.UpdateContact(context.Background(), nil, UpdateContactInput{
		ID:                created.ID,
		Name:              "John Jones",
		TargetCadenceDays: 7,
	})
	if err != nil {
		t.Fatalf("UpdateContact failed: %v", err)
	}
	if updated.Name != "John Jones" || updated.TargetCadenceDays != 7 {
		t.Errorf("Unexpected update result: %+v", updated)
	}

	_, _, err = handler.UpdateContact(context.Background(), nil, UpdateContactInput{ID: "not-a-uuid"})
	if err == nil {
		t.Error("Expected error for invalid id")
	}
}

func TestDeleteContactHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	_, created, err := handler.AddContact(context.Background(), nil, AddContactInput{
		Name: "John", Email: "john@example.com",
	})
	if err != nil {
		t.Fatalf("AddContact failed: %v", err)
	}

	_, result, err := handler.DeleteContact(context.Background(), nil, DeleteContactInput{ID: created.ID})
	if err != nil {
		t.Fatalf("DeleteContact failed: %v", err)
	}
	if !result.Success {
		t.Error("Expected success")
	}

	// Deleting again: not found
	_, _, err = handler.DeleteContact(context.Background(), nil, DeleteContactInput{ID: created.ID})
	if err == nil {
		t.Error("Expected error for missing contact")
	}
}

func TestCheckInHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	user, err := db.GetDefaultUser(database)
	if err != nil {
		t.Fatalf("GetDefaultUser failed: %v", err)
	}

	contact := &models.Contact{UserID: user.ID, Name: "John", Email: "john@example.com",
		LastInteraction: time.Now().AddDate(0, 0, -45)}
	if err := db.CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	_, output, err := handler.CheckIn(context.Background(), nil, CheckInInput{ContactID: contact.ID.String()})
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	if output.Status != string(cadence.StatusHealthy) {
		t.Errorf("Status after check-in = %s, want healthy", output.Status)
	}
	if output.DaysSince != 0 {
		t.Errorf("DaysSince after check-in = %d, want 0", output.DaysSince)
	}

	count, err := db.CountInteractions(database, contact.ID)
	if err != nil {
		t.Fatalf("CountInteractions failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Interaction count = %d, want 1", count)
	}
}

func TestCheckInHandlerBackdatedNeverRegresses(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	user, err := db.GetDefaultUser(database)
	if err != nil {
		t.Fatalf("GetDefaultUser failed: %v", err)
	}

	last := time.Now().AddDate(0, 0, -3)
	contact := &models.Contact{UserID: user.ID, Name: "John", Email: "john@example.com",
		LastInteraction: last}
	if err := db.CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}

	// A check-in older than the stored interaction is a no-op
	stale := time.Now().AddDate(0, 0, -10).Format(time.RFC3339)
	_, _, err = handler.CheckIn(context.Background(), nil, CheckInInput{
		ContactID: contact.ID.String(),
		Timestamp: stale,
	})
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}

	count, err := db.CountInteractions(database, contact.ID)
	if err != nil {
		t.Fatalf("CountInteractions failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Stale check-in recorded %d interactions, want 0", count)
	}
}

func TestGetContactHistoryHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	user, err := db.GetDefaultUser(database)
	if err != nil {
		t.Fatalf("GetDefaultUser failed: %v", err)
	}

	contact := &models.Contact{UserID: user.ID, Name: "John", Email: "john@example.com",
		LastInteraction: time.Now().AddDate(0, 0, -45)}
	if err := db.CreateContact(database, contact); err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	if _, err := db.RecordInteraction(database, contact, models.SourceManual, time.Now(), cadence.StatusHealthy); err != nil {
		t.Fatalf("RecordInteraction failed: %v", err)
	}

	_, output, err := handler.GetContactHistory(context.Background(), nil, ContactHistoryInput{
		ContactID: contact.ID.String(),
	})
	if err != nil {
		t.Fatalf("GetContactHistory failed: %v", err)
	}
	if len(output.Interactions) != 1 {
		t.Fatalf("Expected 1 interaction, got %d", len(output.Interactions))
	}
	if output.Interactions[0].Source != models.SourceManual {
		t.Errorf("Source = %s, want manual", output.Interactions[0].Source)
	}
}
