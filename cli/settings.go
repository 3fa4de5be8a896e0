// ABOUTME: Settings CLI commands
// ABOUTME: Show and change the sync lookback window
package cli

import (
	"database/sql"
	"flag"
	"fmt"

	"github.com/harperreed/pulse/db"
)

// SettingsCommand shows current settings, or updates them when flags are given.
func SettingsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	lookback := fs.Int("lookback", 0, "Days of history to scan during sync (1-365)")
	_ = fs.Parse(args)

	user, err := db.GetDefaultUser(database)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	if *lookback != 0 {
		if err := db.UpdateSyncLookbackDays(database, user.ID, *lookback); err != nil {
			return err
		}
		user.SyncLookbackDays = *lookback
		fmt.Printf("✓ Sync lookback set to %d days\n", *lookback)
		return nil
	}

	email := user.Email
	if email == "" {
		email = "(not authenticated)"
	}
	fmt.Printf("Account:       %s\n", email)
	fmt.Printf("Sync lookback: %d days\n", user.SyncLookbackDays)

	return nil
}
