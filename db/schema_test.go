// ABOUTME: Tests for database schema creation
// ABOUTME: Uses in-memory SQLite for fast isolated tests
package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestInitSchema(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := InitSchema(db); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	tables := []string{"users", "contacts", "interactions", "suggested_contacts", "reminders", "credentials"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	indexes := []string{
		"idx_contacts_user",
		"idx_contacts_last_interaction",
		"idx_interactions_contact",
		"idx_interactions_timestamp",
		"idx_suggested_contacts_status",
	}
	for _, idx := range indexes {
		var indexName string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&indexName)
		if err != nil {
			t.Errorf("Index %s not found: %v", idx, err)
		}
	}
}

func TestInitSchemaIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := InitSchema(db); err != nil {
		t.Fatalf("First InitSchema failed: %v", err)
	}
	if err := InitSchema(db); err != nil {
		t.Fatalf("Second InitSchema failed: %v", err)
	}
}

func TestSchemaRejectsUnknownStatus(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Exec(`
		INSERT INTO users (id, sync_lookback_days, created_at, updated_at)
		VALUES ('u1', 30, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO contacts (id, user_id, name, email, last_interaction, status, created_at, updated_at)
		VALUES ('c1', 'u1', 'X', 'x@example.com', CURRENT_TIMESTAMP, 'bogus', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	if err == nil {
		t.Error("Expected CHECK violation for unknown contact status")
	}
}
