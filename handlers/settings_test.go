// ABOUTME: Tests for settings MCP tool handlers
// ABOUTME: Covers defaults, lookback updates, and range validation
package handlers

import (
	"context"
	"testing"

	"github.com/harperreed/pulse/models"
)

func TestGetSettingsDefaults(t *testing.T) {
	database := setupTestDB(t)
	handler := NewSettingsHandlers(database)

	_, output, err := handler.GetSettings(context.Background(), nil, GetSettingsInput{})
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if output.SyncLookbackDays != models.DefaultSyncLookbackDays {
		t.Errorf("SyncLookbackDays = %d, want default %d", output.SyncLookbackDays, models.DefaultSyncLookbackDays)
	}
}

func TestUpdateSettings(t *testing.T) {
	database := setupTestDB(t)
	handler := NewSettingsHandlers(database)

	_, output, err := handler.UpdateSettings(context.Background(), nil, UpdateSettingsInput{SyncLookbackDays: 60})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if output.SyncLookbackDays != 60 {
		t.Errorf("SyncLookbackDays = %d, want 60", output.SyncLookbackDays)
	}

	_, reloaded, err := handler.GetSettings(context.Background(), nil, GetSettingsInput{})
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if reloaded.SyncLookbackDays != 60 {
		t.Errorf("Persisted SyncLookbackDays = %d, want 60", reloaded.SyncLookbackDays)
	}

	for _, days := range []int{0, -5, 500} {
		if _, _, err := handler.UpdateSettings(context.Background(), nil, UpdateSettingsInput{SyncLookbackDays: days}); err == nil {
			t.Errorf("Expected error for out-of-range lookback %d", days)
		}
	}
}
