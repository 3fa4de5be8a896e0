// ABOUTME: Entry point for the Pulse MCP server and CLI
// ABOUTME: Routes to MCP server or CLI commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/harperreed/pulse/cli"
	"github.com/harperreed/pulse/db"
)

const version = "0.1.0"

func main() {
	// Optional .env for GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/pulse/pulse.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("pulse version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()

	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	database, err := db.OpenDatabase(getDatabasePath(*dbPath))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Println("Database initialized successfully")
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "mcp":
		if err := cli.MCPCommand(database); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "auth":
		if err := cli.AuthCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "sync":
		if err := cli.SyncCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	// Contact commands
	case "add-contact":
		if err := cli.AddContactCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "list-contacts":
		if err := cli.ListContactsCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "update-contact":
		if err := cli.UpdateContactCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "delete-contact":
		if err := cli.DeleteContactCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "check-in":
		if err := cli.CheckInCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "history":
		if err := cli.HistoryCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	// Suggestion commands
	case "suggestions":
		if err := cli.ListSuggestionsCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "accept":
		if err := cli.AcceptSuggestionCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "reject":
		if err := cli.RejectSuggestionCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "restore":
		if err := cli.RestoreSuggestionCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	// Reminder commands
	case "remind":
		if err := cli.RemindCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "reminders":
		if err := cli.ListRemindersCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "complete":
		if err := cli.CompleteReminderCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "dismiss":
		if err := cli.DismissReminderCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "settings":
		if err := cli.SettingsCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// getDatabasePath determines the database path to use
func getDatabasePath(override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(xdg.DataHome, "pulse", "pulse.db")
}

func printUsage() {
	fmt.Println(`pulse - relationship cadence tracker

Usage:
  pulse <command> [flags]

Server:
  mcp                      Start MCP server on stdio

Google sync:
  auth                     Authenticate with Google (browser OAuth flow)
  sync [--verbose]         Reconcile contacts against Gmail and Calendar

Contacts:
  add-contact --name NAME --email EMAIL [--company C] [--cadence DAYS] [--variance F]
  list-contacts [--status healthy|in_window|overdue]
  update-contact ID|EMAIL [--name N] [--email E] [--company C] [--cadence DAYS]
  delete-contact ID|EMAIL
  check-in ID|EMAIL [--when RFC3339]
  history ID|EMAIL [--limit N]

Suggestions:
  suggestions [--rejected] [--limit N]
  accept ID|EMAIL [--company C] [--cadence DAYS]
  reject ID|EMAIL
  restore ID|EMAIL

Reminders:
  remind ID|EMAIL --on YYYY-MM-DD [--note N]
  reminders
  complete REMINDER-ID
  dismiss REMINDER-ID

Settings:
  settings [--lookback DAYS]

Global flags:
  --version                Show version
  --db-path PATH           Database location
  --init                   Initialize database and exit`)
}
