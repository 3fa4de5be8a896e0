// ABOUTME: Settings MCP tool handlers
// ABOUTME: Implements get_settings and update_settings for the sync lookback window
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pulse/db"
)

type SettingsHandlers struct {
	db *sql.DB
}

func NewSettingsHandlers(database *sql.DB) *SettingsHandlers {
	return &SettingsHandlers{db: database}
}

type GetSettingsInput struct{}

type SettingsOutput struct {
	Email            string `json:"email,omitempty"`
	SyncLookbackDays int    `json:"sync_lookback_days"`
}

func (h *SettingsHandlers) GetSettings(_ context.Context, request *mcp.CallToolRequest, input GetSettingsInput) (*mcp.CallToolResult, SettingsOutput, error) {
	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, SettingsOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	return nil, SettingsOutput{
		Email:            user.Email,
		SyncLookbackDays: user.SyncLookbackDays,
	}, nil
}

type UpdateSettingsInput struct {
	SyncLookbackDays int `json:"sync_lookback_days" jsonschema:"Days of history to scan during sync (1-365)"`
}

func (h *SettingsHandlers) UpdateSettings(_ context.Context, request *mcp.CallToolRequest, input UpdateSettingsInput) (*mcp.CallToolResult, SettingsOutput, error) {
	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, SettingsOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := db.UpdateSyncLookbackDays(h.db, user.ID, input.SyncLookbackDays); err != nil {
		return nil, SettingsOutput{}, err
	}

	return nil, SettingsOutput{
		Email:            user.Email,
		SyncLookbackDays: input.SyncLookbackDays,
	}, nil
}
