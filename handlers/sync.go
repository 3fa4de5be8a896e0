// ABOUTME: Sync MCP tool handler
// ABOUTME: Implements the sync_now tool running one reconciliation pass
package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/models"
	"github.com/harperreed/pulse/sync"
)

type SyncHandlers struct {
	db *sql.DB

	// run is swapped out in tests; defaults to sync.Run.
	run func(ctx context.Context, database *sql.DB, user *models.User) (*models.SyncReport, error)
}

func NewSyncHandlers(database *sql.DB) *SyncHandlers {
	return &SyncHandlers{db: database, run: sync.Run}
}

type SyncNowInput struct{}

type SyncOutcomeOutput struct {
	ContactName        string `json:"contact_name"`
	Updated            bool   `json:"updated"`
	Source             string `json:"source,omitempty"`
	NewLastInteraction string `json:"new_last_interaction,omitempty"`
	Error              string `json:"error,omitempty"`
}

type SyncNowOutput struct {
	TotalConsidered int                 `json:"total_considered"`
	UpdatedCount    int                 `json:"updated_count"`
	NewSuggestions  int                 `json:"new_suggestions"`
	LookbackDays    int                 `json:"lookback_days"`
	DiscoveryError  string              `json:"discovery_error,omitempty"`
	Outcomes        []SyncOutcomeOutput `json:"outcomes"`
}

func (h *SyncHandlers) SyncNow(ctx context.Context, request *mcp.CallToolRequest, input SyncNowInput) (*mcp.CallToolResult, SyncNowOutput, error) {
	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, SyncNowOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	report, err := h.run(ctx, h.db, user)
	if err != nil {
		if errors.Is(err, sync.ErrNoCredential) || errors.Is(err, sync.ErrAuthExpired) {
			return nil, SyncNowOutput{}, fmt.Errorf("google authentication required: run 'pulse auth' first (%w)", err)
		}
		return nil, SyncNowOutput{}, fmt.Errorf("sync failed: %w", err)
	}

	output := SyncNowOutput{
		TotalConsidered: report.TotalConsidered,
		UpdatedCount:    report.UpdatedCount,
		NewSuggestions:  report.NewSuggestions,
		LookbackDays:    report.LookbackDays,
		DiscoveryError:  report.DiscoveryError,
	}
	for _, outcome := range report.Outcomes {
		out := SyncOutcomeOutput{
			ContactName: outcome.ContactName,
			Updated:     outcome.Updated,
			Source:      outcome.Source,
			Error:       outcome.Error,
		}
		if outcome.NewLastInteraction != nil {
			out.NewLastInteraction = outcome.NewLastInteraction.Format(time.RFC3339)
		}
		output.Outcomes = append(output.Outcomes, out)
	}

	return nil, output, nil
}
