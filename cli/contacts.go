// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for managing tracked relationships
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

// AddContactCommand adds a new tracked contact.
func AddContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name (required)")
	email := fs.String("email", "", "Email address (required)")
	company := fs.String("company", "", "Company name")
	cadenceDays := fs.Int("cadence", 0, "Target days between touchpoints (default 30)")
	variance := fs.Float64("variance", 0, "Fractional tolerance around the cadence (default 0.15)")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *email == "" {
		return fmt.Errorf("--email is required")
	}

	user, err := db.GetDefaultUser(database)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	existing, err := db.FindContactByEmail(database, user.ID, *email)
	if err != nil {
		return fmt.Errorf("failed to check for existing contact: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("a contact with email %s already exists", existing.Email)
	}

	contact := &models.Contact{
		UserID:            user.ID,
		Name:              *name,
		Email:             *email,
		Company:           *company,
		TargetCadenceDays: *cadenceDays,
		VarianceBuffer:    *variance,
	}

	if err := db.CreateContact(database, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	fmt.Printf("✓ Contact created: %s (ID: %s)\n", contact.Name, contact.ID)
	fmt.Printf("  Email: %s\n", contact.Email)
	if contact.Company != "" {
		fmt.Printf("  Company: %s\n", contact.Company)
	}
	fmt.Printf("  Cadence: every %d days (±%.0f%%)\n", contact.TargetCadenceDays, contact.VarianceBuffer*100)

	return nil
}

// ListContactsCommand lists tracked contacts, most urgent first.
func ListContactsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ExitOnError)
	status := fs.String("status", "", "Filter by status (healthy, in_window, overdue)")
	_ = fs.Parse(args)

	if *status != "" && !cadence.Status(*status).Valid() {
		return fmt.Errorf("unknown status: %s", *status)
	}

	user, err := db.GetDefaultUser(database)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	contacts, err := db.ListContacts(database, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	now := time.Now()
	models.RefreshStatuses(contacts, now)
	models.SortByUrgency(contacts)

	if *status != "" {
		filtered := contacts[:0]
		for _, c := range contacts {
			if string(c.Status) == *status {
				filtered = append(filtered, c)
			}
		}
		contacts = filtered
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	// Pretty print results
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tSTATUS\tLAST CONTACT\tCADENCE\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t------\t------------\t-------\t--")

	for _, contact := range contacts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dd\t%s\n",
			contact.Name, contact.Email, statusLabel(contact.Status),
			cadence.FormatLastContacted(contact.LastInteraction, now),
			contact.TargetCadenceDays, contact.ID.String()[:8])
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// UpdateContactCommand updates an existing contact.
func UpdateContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ExitOnError)
	name := fs.String("name", "", "Contact name")
	email := fs.String("email", "", "Email address")
	company := fs.String("company", "", "Company name")
	cadenceDays := fs.Int("cadence", 0, "Target days between touchpoints")
	variance := fs.Float64("variance", 0, "Fractional tolerance around the cadence")
	_ = fs.Parse(args)

	contact, _, err := resolveContact(database, fs.Args())
	if err != nil {
		return err
	}

	if *name != "" {
		contact.Name = *name
	}
	if *email != "" {
		contact.Email = *email
	}
	if *company != "" {
		contact.Company = *company
	}
	if *cadenceDays > 0 {
		contact.TargetCadenceDays = *cadenceDays
	}
	if *variance > 0 {
		contact.VarianceBuffer = *variance
	}

	if err := db.UpdateContact(database, contact); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	fmt.Printf("✓ Contact updated: %s\n", contact.Name)
	return nil
}

// DeleteContactCommand removes a contact and its interaction history.
func DeleteContactCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ExitOnError)
	_ = fs.Parse(args)

	contact, user, err := resolveContact(database, fs.Args())
	if err != nil {
		return err
	}

	if err := db.DeleteContact(database, user.ID, contact.ID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	fmt.Printf("✓ Deleted contact: %s\n", contact.Name)
	return nil
}

// CheckInCommand records a manual touchpoint with a contact.
func CheckInCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("check-in", flag.ExitOnError)
	when := fs.String("when", "", "Touchpoint time (RFC3339, defaults to now)")
	_ = fs.Parse(args)

	contact, _, err := resolveContact(database, fs.Args())
	if err != nil {
		return err
	}

	now := time.Now()
	timestamp := now
	if *when != "" {
		parsed, err := time.Parse(time.RFC3339, *when)
		if err != nil {
			return fmt.Errorf("invalid --when format (use RFC3339): %w", err)
		}
		timestamp = parsed
	}

	if !timestamp.After(contact.LastInteraction) {
		fmt.Printf("No change: %s was already contacted more recently (%s)\n",
			contact.Name, cadence.FormatLastContacted(contact.LastInteraction, now))
		return nil
	}

	status := cadence.Classify(timestamp, contact.TargetCadenceDays, contact.VarianceBuffer, now)
	if _, err := db.RecordInteraction(database, contact, models.SourceManual, timestamp, status); err != nil {
		return fmt.Errorf("failed to record check-in: %w", err)
	}

	fmt.Printf("✓ Checked in with %s (%s)\n", contact.Name, statusLabel(contact.Status))
	return nil
}

// HistoryCommand shows a contact's recent interactions.
func HistoryCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Maximum interactions to show")
	_ = fs.Parse(args)

	contact, _, err := resolveContact(database, fs.Args())
	if err != nil {
		return err
	}

	interactions, err := db.GetInteractionHistory(database, contact.ID, *limit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	fmt.Printf("%s <%s>: %s\n\n", contact.Name, contact.Email,
		cadence.FormatLastContacted(contact.LastInteraction, time.Now()))

	if len(interactions) == 0 {
		fmt.Println("No interactions recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tSOURCE")
	_, _ = fmt.Fprintln(w, "----\t------")
	for _, interaction := range interactions {
		_, _ = fmt.Fprintf(w, "%s\t%s\n",
			interaction.Timestamp.Format("2006-01-02 15:04"), interaction.Source)
	}
	_ = w.Flush()

	return nil
}

// resolveContact loads the contact named by the first positional argument,
// which may be a contact ID or an email address.
func resolveContact(database *sql.DB, args []string) (*models.Contact, *models.User, error) {
	if len(args) < 1 {
		return nil, nil, fmt.Errorf("contact ID or email is required")
	}

	user, err := db.GetDefaultUser(database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	ref := args[0]
	if contactID, err := uuid.Parse(ref); err == nil {
		contact, err := db.GetContact(database, user.ID, contactID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get contact: %w", err)
		}
		if contact == nil {
			return nil, nil, fmt.Errorf("contact not found: %s", ref)
		}
		return contact, user, nil
	}

	contact, err := db.FindContactByEmail(database, user.ID, ref)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get contact: %w", err)
	}
	if contact == nil {
		return nil, nil, fmt.Errorf("contact not found: %s", ref)
	}
	return contact, user, nil
}

func statusLabel(status cadence.Status) string {
	switch status {
	case cadence.StatusHealthy:
		return "● healthy"
	case cadence.StatusInWindow:
		return "◐ in window"
	case cadence.StatusOverdue:
		return "○ overdue"
	default:
		return string(status)
	}
}
