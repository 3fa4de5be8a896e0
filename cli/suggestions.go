// ABOUTME: Suggestion CLI commands
// ABOUTME: Review, accept, reject, and restore discovered contacts
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pulse/cadence"
	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/models"
)

// ListSuggestionsCommand lists discovery candidates awaiting review.
func ListSuggestionsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("suggestions", flag.ExitOnError)
	rejected := fs.Bool("rejected", false, "Show rejected suggestions instead of pending")
	limit := fs.Int("limit", 20, "Maximum results")
	_ = fs.Parse(args)

	user, err := db.GetDefaultUser(database)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	status := models.SuggestionPending
	if *rejected {
		status = models.SuggestionRejected
	}

	suggestions, err := db.ListSuggestions(database, user.ID, status, *limit)
	if err != nil {
		return fmt.Errorf("failed to list suggestions: %w", err)
	}

	if len(suggestions) == 0 {
		if *rejected {
			fmt.Println("No rejected suggestions")
		} else {
			fmt.Println("No pending suggestions. Run 'pulse sync' to discover contacts")
		}
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "EMAIL\tNAME\tEMAILS\tLAST EMAILED\tID")
	_, _ = fmt.Fprintln(w, "-----\t----\t------\t------------\t--")

	for _, s := range suggestions {
		name := s.Name
		if name == "" {
			name = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			s.Email, name, s.EmailCount,
			cadence.FormatLastContacted(s.LastEmailed, now), s.ID.String()[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d suggestion(s)\n", len(suggestions))
	return nil
}

// AcceptSuggestionCommand promotes a suggestion into a tracked contact.
func AcceptSuggestionCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("accept", flag.ExitOnError)
	company := fs.String("company", "", "Company for the new contact")
	cadenceDays := fs.Int("cadence", 0, "Target cadence in days (default 30)")
	_ = fs.Parse(args)

	_, suggestion, err := resolveSuggestion(database, fs.Args())
	if err != nil {
		return err
	}

	contact, err := db.PromoteSuggestion(database, suggestion, *company, *cadenceDays)
	if err != nil {
		return fmt.Errorf("failed to accept suggestion: %w", err)
	}

	fmt.Printf("✓ Now tracking %s <%s> every %d days\n",
		contact.Name, contact.Email, contact.TargetCadenceDays)
	return nil
}

// RejectSuggestionCommand marks a suggestion as rejected so discovery skips it.
func RejectSuggestionCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("reject", flag.ExitOnError)
	_ = fs.Parse(args)

	user, suggestion, err := resolveSuggestion(database, fs.Args())
	if err != nil {
		return err
	}

	if err := db.SetSuggestionStatus(database, user.ID, suggestion.ID, models.SuggestionRejected); err != nil {
		return fmt.Errorf("failed to reject suggestion: %w", err)
	}

	fmt.Printf("✓ Rejected %s\n", suggestion.Email)
	return nil
}

// RestoreSuggestionCommand moves a rejected suggestion back to pending.
func RestoreSuggestionCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	_ = fs.Parse(args)

	user, suggestion, err := resolveSuggestion(database, fs.Args())
	if err != nil {
		return err
	}

	if err := db.SetSuggestionStatus(database, user.ID, suggestion.ID, models.SuggestionPending); err != nil {
		return fmt.Errorf("failed to restore suggestion: %w", err)
	}

	fmt.Printf("✓ Restored %s to pending\n", suggestion.Email)
	return nil
}

// resolveSuggestion loads the suggestion named by the first positional
// argument, which may be a suggestion ID or an email address.
func resolveSuggestion(database *sql.DB, args []string) (*models.User, *models.SuggestedContact, error) {
	if len(args) < 1 {
		return nil, nil, fmt.Errorf("suggestion ID or email is required")
	}

	user, err := db.GetDefaultUser(database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	ref := args[0]
	if suggestionID, err := uuid.Parse(ref); err == nil {
		suggestion, err := db.GetSuggestion(database, user.ID, suggestionID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get suggestion: %w", err)
		}
		if suggestion == nil {
			return nil, nil, fmt.Errorf("suggestion not found: %s", ref)
		}
		return user, suggestion, nil
	}

	suggestion, err := db.FindSuggestionByEmail(database, user.ID, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	if suggestion == nil {
		return nil, nil, fmt.Errorf("suggestion not found: %s", ref)
	}
	return user, suggestion, nil
}
