// ABOUTME: Suggested contact MCP tool handlers
// ABOUTME: Implements list, accept, reject, and restore tools for discovery candidates
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

type SuggestionHandlers struct {
	db *sql.DB
}

func NewSuggestionHandlers(database *sql.DB) *SuggestionHandlers {
	return &SuggestionHandlers{db: database}
}

type SuggestionOutput struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	LastEmailed string `json:"last_emailed"`
	EmailCount  int    `json:"email_count"`
	Status      string `json:"status"`
}

type ListSuggestionsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of suggestions (default 20)"`
}

type ListSuggestionsOutput struct {
	Suggestions []SuggestionOutput `json:"suggestions"`
}

func (h *SuggestionHandlers) ListSuggestions(_ context.Context, request *mcp.CallToolRequest, input ListSuggestionsInput) (*mcp.CallToolResult, ListSuggestionsOutput, error) {
	return h.list(models.SuggestionPending, input.Limit)
}

func (h *SuggestionHandlers) ListRejectedSuggestions(_ context.Context, request *mcp.CallToolRequest, input ListSuggestionsInput) (*mcp.CallToolResult, ListSuggestionsOutput, error) {
	return h.list(models.SuggestionRejected, input.Limit)
}

func (h *SuggestionHandlers) list(status string, limit int) (*mcp.CallToolResult, ListSuggestionsOutput, error) {
	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, ListSuggestionsOutput{}, fmt.Errorf("failed to load user: %w", err)
	}

	suggestions, err := db.ListSuggestions(h.db, user.ID, status, limit)
	if err != nil {
		return nil, ListSuggestionsOutput{}, fmt.Errorf("failed to list suggestions: %w", err)
	}

	result := make([]SuggestionOutput, len(suggestions))
	for i := range suggestions {
		result[i] = suggestionToOutput(&suggestions[i])
	}

	return nil, ListSuggestionsOutput{Suggestions: result}, nil
}

type AcceptSuggestionInput struct {
	ID                string `json:"id" jsonschema:"Suggestion ID (required)"`
	Company           string `json:"company,omitempty" jsonschema:"Company for the new contact"`
	TargetCadenceDays int    `json:"target_cadence_days,omitempty" jsonschema:"Target cadence for the new contact (default 30)"`
}

func (h *SuggestionHandlers) AcceptSuggestion(_ context.Context, request *mcp.CallToolRequest, input AcceptSuggestionInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	_, suggestion, err := h.load(input.ID)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	contact, err := db.PromoteSuggestion(h.db, suggestion, input.Company, input.TargetCadenceDays)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to accept suggestion: %w", err)
	}

	return nil, contactToOutput(contact, time.Now()), nil
}

type SuggestionStatusInput struct {
	ID string `json:"id" jsonschema:"Suggestion ID (required)"`
}

func (h *SuggestionHandlers) RejectSuggestion(_ context.Context, request *mcp.CallToolRequest, input SuggestionStatusInput) (*mcp.CallToolResult, SuggestionOutput, error) {
	return h.transition(input.ID, models.SuggestionRejected)
}

func (h *SuggestionHandlers) RestoreSuggestion(_ context.Context, request *mcp.CallToolRequest, input SuggestionStatusInput) (*mcp.CallToolResult, SuggestionOutput, error) {
	return h.transition(input.ID, models.SuggestionPending)
}

func (h *SuggestionHandlers) transition(id, status string) (*mcp.CallToolResult, SuggestionOutput, error) {
	if id == "" {
		return nil, SuggestionOutput{}, fmt.Errorf("id is required")
	}

	user, suggestion, err := h.load(id)
	if err != nil {
		return nil, SuggestionOutput{}, err
	}

	if err := db.SetSuggestionStatus(h.db, user.ID, suggestion.ID, status); err != nil {
		return nil, SuggestionOutput{}, fmt.Errorf("failed to update suggestion: %w", err)
	}

	suggestion.Status = status
	return nil, suggestionToOutput(suggestion), nil
}

func (h *SuggestionHandlers) load(id string) (*models.User, *models.SuggestedContact, error) {
	suggestionID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid id: %w", err)
	}

	user, err := db.GetDefaultUser(h.db)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	suggestion, err := db.GetSuggestion(h.db, user.ID, suggestionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	if suggestion == nil {
		return nil, nil, fmt.Errorf("suggestion not found")
	}

	return user, suggestion, nil
}

func suggestionToOutput(s *models.SuggestedContact) SuggestionOutput {
	return SuggestionOutput{
		ID:          s.ID.String(),
		Email:       s.Email,
		Name:        s.Name,
		LastEmailed: s.LastEmailed.Format(time.RFC3339),
		EmailCount:  s.EmailCount,
		Status:      s.Status,
	}
}
