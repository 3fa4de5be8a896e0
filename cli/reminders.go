// ABOUTME: Reminder CLI commands
// ABOUTME: Set, list, complete, and dismiss dated outreach nudges
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/models"
)

// RemindCommand sets a reminder to reach out to a contact.
func RemindCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("remind", flag.ExitOnError)
	on := fs.String("on", "", "Due date (YYYY-MM-DD, required)")
	note := fs.String("note", "", "What the reminder is about")
	_ = fs.Parse(args)

	if *on == "" {
		return fmt.Errorf("--on is required")
	}
	due, err := time.Parse("2006-01-02", *on)
	if err != nil {
		return fmt.Errorf("invalid due date %q (use YYYY-MM-DD)", *on)
	}

	contact, user, err := resolveContact(database, fs.Args())
	if err != nil {
		return err
	}

	reminder := &models.Reminder{
		UserID:    user.ID,
		ContactID: contact.ID,
		DueDate:   due,
		Note:      *note,
	}
	if err := db.CreateReminder(database, reminder); err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	fmt.Printf("✓ Reminder set for %s on %s\n",
		contact.Name, reminder.DueDate.Format("2006-01-02"))
	return nil
}

// ListRemindersCommand lists pending reminders, soonest first.
func ListRemindersCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("reminders", flag.ExitOnError)
	_ = fs.Parse(args)

	user, err := db.GetDefaultUser(database)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	reminders, err := db.ListPendingReminders(database, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}

	if len(reminders) == 0 {
		fmt.Println("No pending reminders")
		return nil
	}

	dueCount, err := db.CountDueReminders(database, user.ID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to count due reminders: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DUE\tCONTACT\tNOTE\tID")
	_, _ = fmt.Fprintln(w, "---\t-------\t----\t--")

	today := time.Now().Format("2006-01-02")
	for _, r := range reminders {
		due := r.DueDate.Format("2006-01-02")
		if due <= today {
			due = "! " + due
		}
		note := r.Note
		if note == "" {
			note = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s <%s>\t%s\t%s\n",
			due, r.ContactName, r.ContactEmail, note, r.ID.String())
	}
	_ = w.Flush()

	fmt.Printf("\n%d reminder(s), %d due\n", len(reminders), dueCount)
	return nil
}

// CompleteReminderCommand marks a reminder as completed.
func CompleteReminderCommand(database *sql.DB, args []string) error {
	return transitionReminder(database, args, models.ReminderCompleted, "Completed")
}

// DismissReminderCommand marks a reminder as dismissed.
func DismissReminderCommand(database *sql.DB, args []string) error {
	return transitionReminder(database, args, models.ReminderDismissed, "Dismissed")
}

func transitionReminder(database *sql.DB, args []string, status, verb string) error {
	if len(args) < 1 {
		return fmt.Errorf("reminder ID is required")
	}

	reminderID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid reminder ID: %w", err)
	}

	user, err := db.GetDefaultUser(database)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	reminder, err := db.GetReminder(database, user.ID, reminderID)
	if err != nil {
		return fmt.Errorf("failed to get reminder: %w", err)
	}
	if reminder == nil {
		return fmt.Errorf("reminder not found: %s", args[0])
	}

	if err := db.SetReminderStatus(database, user.ID, reminder.ID, status); err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	fmt.Printf("✓ %s reminder due %s\n", verb, reminder.DueDate.Format("2006-01-02"))
	return nil
}
