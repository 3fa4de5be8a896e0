// ABOUTME: Sync CLI command
// ABOUTME: Runs one reconciliation pass and prints the per-contact report
package cli

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/models"
	"github.com/harperreed/pulse/sync"
)

// SyncCommand runs one reconciliation pass against Gmail and Calendar.
func SyncCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Show every contact, not just updates and failures")
	_ = fs.Parse(args)

	user, err := db.GetDefaultUser(database)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	fmt.Printf("Syncing (last %d days)...\n", lookbackFor(user))

	report, err := sync.Run(context.Background(), database, user)
	if err != nil {
		if errors.Is(err, sync.ErrNoCredential) || errors.Is(err, sync.ErrAuthExpired) {
			return fmt.Errorf("google authentication required: run 'pulse auth' first (%w)", err)
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	printReport(report, *verbose)
	return nil
}

func lookbackFor(user *models.User) int {
	if user.SyncLookbackDays < models.MinSyncLookbackDays || user.SyncLookbackDays > models.MaxSyncLookbackDays {
		return models.DefaultSyncLookbackDays
	}
	return user.SyncLookbackDays
}

func printReport(report *models.SyncReport, verbose bool) {
	for _, outcome := range report.Outcomes {
		switch {
		case outcome.Failed:
			fmt.Printf("  ✗ %s: %s\n", outcome.ContactName, outcome.Error)
		case outcome.Updated:
			fmt.Printf("  → %s: new interaction via %s (%s)\n",
				outcome.ContactName, outcome.Source,
				outcome.NewLastInteraction.Format("2006-01-02"))
		case verbose:
			fmt.Printf("  · %s: no new signal\n", outcome.ContactName)
		}
	}

	fmt.Printf("\n✓ Sync complete: %d contact(s) considered, %d updated\n",
		report.TotalConsidered, report.UpdatedCount)

	if report.DiscoveryError != "" {
		fmt.Printf("  ! Suggestion discovery failed: %s\n", report.DiscoveryError)
	} else if report.NewSuggestions > 0 {
		fmt.Printf("  %d new suggestion(s), run 'pulse suggestions' to review\n", report.NewSuggestions)
	}
}
