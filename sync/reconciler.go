// ABOUTME: Cadence reconciliation engine
// ABOUTME: Merges email and calendar signals per contact, then mines suggestions best-effort
package sync

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harperreed/pulse/cadence"
	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/models"
)

// reconcileWorkers bounds concurrent per-contact source queries.
const reconcileWorkers = 4

// Reconciler runs one reconciliation pass for a user: per tracked contact it
// merges the latest signal from both sources, records strictly-newer
// interactions atomically, and then mines sent mail for new suggestions.
//
// Sources are constructed per run from a freshly validated token; the
// Reconciler itself holds no credential state.
type Reconciler struct {
	DB       *sql.DB
	Email    SignalSource
	Calendar SignalSource

	// Scan produces discovery signals for the lookback window. Nil disables
	// the discovery pass.
	Scan func(lookbackDays int) ([]RecipientSignal, error)

	// Now overrides the clock in tests.
	Now func() time.Time
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// probeResult is the merged outcome of querying both sources for one contact.
type probeResult struct {
	timestamp time.Time
	found     bool
	source    string
	err       error
}

// probe queries both sources for an address and merges the results. The
// later timestamp wins; an exact tie goes to the email channel. Any source
// error fails the whole probe: a half-blind merge could pick a stale winner.
func (r *Reconciler) probe(address string, lookbackDays int) probeResult {
	emailTS, emailFound, err := r.Email.Latest(address, lookbackDays)
	if err != nil {
		return probeResult{err: err}
	}

	calendarTS, calendarFound, err := r.Calendar.Latest(address, lookbackDays)
	if err != nil {
		return probeResult{err: err}
	}

	result := probeResult{}
	if emailFound {
		result = probeResult{timestamp: emailTS, source: r.Email.Name(), found: true}
	}
	if calendarFound && (!result.found || calendarTS.After(result.timestamp)) {
		// Strictly after: equal timestamps keep the email attribution
		result = probeResult{timestamp: calendarTS, source: r.Calendar.Name(), found: true}
	}

	return result
}

// Reconcile runs the primary pass over every tracked contact of the user,
// then the best-effort discovery pass. Individual contact failures are
// recorded in the report and never abort the batch.
func (r *Reconciler) Reconcile(user *models.User) (*models.SyncReport, error) {
	contacts, err := db.ListContacts(r.DB, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	lookbackDays := user.SyncLookbackDays
	if lookbackDays < models.MinSyncLookbackDays || lookbackDays > models.MaxSyncLookbackDays {
		lookbackDays = models.DefaultSyncLookbackDays
	}

	report := &models.SyncReport{
		TotalConsidered: len(contacts),
		LookbackDays:    lookbackDays,
	}

	// Fan out the source queries; results land in fixed slots so no two
	// goroutines touch the same contact.
	probes := make([]probeResult, len(contacts))
	group := new(errgroup.Group)
	group.SetLimit(reconcileWorkers)

	for i := range contacts {
		i := i
		address := contacts[i].Email
		group.Go(func() error {
			probes[i] = r.probe(address, lookbackDays)
			return nil
		})
	}
	_ = group.Wait() // probe errors are carried per slot, never returned

	// Apply sequentially: SQLite writes are serialized anyway, and this
	// keeps each contact's read-modify-write on a single goroutine.
	for i := range contacts {
		contact := &contacts[i]
		report.Outcomes = append(report.Outcomes, r.applyProbe(contact, probes[i]))
		if report.Outcomes[len(report.Outcomes)-1].Updated {
			report.UpdatedCount++
		}
	}

	// Discovery runs after the primary pass and never affects its result.
	// A mid-pass failure still reports the suggestions persisted before it.
	if r.Scan != nil {
		created, err := r.discover(user, contacts, lookbackDays)
		report.NewSuggestions = created
		if err != nil {
			log.Printf("discovery pass failed: %v", err)
			report.DiscoveryError = err.Error()
		}
	}

	return report, nil
}

// applyProbe turns one probe result into a per-contact outcome, persisting
// the interaction + status update atomically when the signal is strictly
// newer than the stored last interaction.
func (r *Reconciler) applyProbe(contact *models.Contact, probe probeResult) models.SyncOutcome {
	outcome := models.SyncOutcome{
		ContactID:   contact.ID,
		ContactName: contact.Name,
	}

	if probe.err != nil {
		outcome.Failed = true
		outcome.Error = probe.err.Error()
		return outcome
	}

	if !probe.found || !probe.timestamp.After(contact.LastInteraction) {
		return outcome // unchanged; lastInteraction never regresses
	}

	status := cadence.Classify(probe.timestamp, contact.TargetCadenceDays, contact.VarianceBuffer, r.now())

	if _, err := db.RecordInteraction(r.DB, contact, probe.source, probe.timestamp, status); err != nil {
		outcome.Failed = true
		outcome.Error = fmt.Sprintf("failed to record interaction: %v", err)
		return outcome
	}

	ts := probe.timestamp
	outcome.Updated = true
	outcome.Source = probe.source
	outcome.NewLastInteraction = &ts

	return outcome
}

// discover runs the discovery pass: scan outbound recipients, drop addresses
// that are already tracked or already suggested (any status), and persist the
// rest as pending suggestions. Returns the number created. Re-running with
// no new signal creates zero records.
func (r *Reconciler) discover(user *models.User, contacts []models.Contact, lookbackDays int) (int, error) {
	signals, err := r.Scan(lookbackDays)
	if err != nil {
		return 0, fmt.Errorf("recipient scan failed: %w", err)
	}

	tracked := make(map[string]struct{}, len(contacts))
	for i := range contacts {
		tracked[db.NormalizeEmail(contacts[i].Email)] = struct{}{}
	}

	suggested, err := db.ListSuggestionEmails(r.DB, user.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load existing suggestions: %w", err)
	}

	created := 0
	for _, signal := range signals {
		if _, ok := tracked[signal.Email]; ok {
			continue
		}
		if _, ok := suggested[signal.Email]; ok {
			continue
		}

		suggestion := &models.SuggestedContact{
			UserID:      user.ID,
			Email:       signal.Email,
			Name:        signal.Name,
			LastEmailed: signal.LastEmailed,
			EmailCount:  signal.EmailCount,
			Status:      models.SuggestionPending,
		}
		if err := db.CreateSuggestion(r.DB, suggestion); err != nil {
			return created, fmt.Errorf("failed to create suggestion for %s: %w", signal.Email, err)
		}

		suggested[signal.Email] = struct{}{}
		created++
	}

	return created, nil
}
