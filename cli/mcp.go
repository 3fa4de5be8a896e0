// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for assistant integration
package cli

import (
	"context"
	"database/sql"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/pulse/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(db *sql.DB) error {
	log.Println("Starting Pulse MCP Server...")

	// Create handlers
	contactHandlers := handlers.NewContactHandlers(db)
	suggestionHandlers := handlers.NewSuggestionHandlers(db)
	reminderHandlers := handlers.NewReminderHandlers(db)
	syncHandlers := handlers.NewSyncHandlers(db)
	settingsHandlers := handlers.NewSettingsHandlers(db)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pulse",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Start tracking a contact's communication cadence",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_contacts",
		Description: "List tracked contacts with cadence status, most urgent first",
	}, contactHandlers.ListContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Update a contact's details or cadence settings",
	}, contactHandlers.UpdateContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Stop tracking a contact and remove its interaction history",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_in",
		Description: "Record a manual touchpoint with a contact",
	}, contactHandlers.CheckIn)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_contact_history",
		Description: "Show a contact's recent interactions across all sources",
	}, contactHandlers.GetContactHistory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_now",
		Description: "Reconcile all contacts against Gmail and Calendar and discover new suggestions",
	}, syncHandlers.SyncNow)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_suggestions",
		Description: "List discovered contacts awaiting review",
	}, suggestionHandlers.ListSuggestions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_rejected_suggestions",
		Description: "List previously rejected contact suggestions",
	}, suggestionHandlers.ListRejectedSuggestions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "accept_suggestion",
		Description: "Promote a suggested contact into a tracked contact",
	}, suggestionHandlers.AcceptSuggestion)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "reject_suggestion",
		Description: "Reject a suggestion so discovery stops proposing it",
	}, suggestionHandlers.RejectSuggestion)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "restore_suggestion",
		Description: "Move a rejected suggestion back to pending",
	}, suggestionHandlers.RestoreSuggestion)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_reminder",
		Description: "Set a dated reminder to reach out to a contact",
	}, reminderHandlers.AddReminder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_reminders",
		Description: "List pending reminders with the count due today or earlier",
	}, reminderHandlers.ListReminders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_reminder",
		Description: "Change a reminder's status or due date",
	}, reminderHandlers.UpdateReminder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_reminder",
		Description: "Remove a reminder entirely",
	}, reminderHandlers.DeleteReminder)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_settings",
		Description: "Show the current sync settings",
	}, settingsHandlers.GetSettings)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_settings",
		Description: "Change the sync lookback window",
	}, settingsHandlers.UpdateSettings)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
