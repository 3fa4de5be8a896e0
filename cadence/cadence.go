// ABOUTME: Cadence status classification for tracked relationships
// ABOUTME: Pure threshold math mapping days-since-contact to a tri-state health label
package cadence

import (
	"fmt"
	"math"
	"time"
)

// Status is the health label for a tracked relationship's contact cadence.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusInWindow Status = "in_window"
	StatusOverdue  Status = "overdue"
)

// DefaultVarianceBuffer is the fractional tolerance applied around the target
// cadence when a contact doesn't specify one.
const DefaultVarianceBuffer = 0.15

// Thresholds are the day boundaries between the three cadence states.
type Thresholds struct {
	HealthyMax int // last day (inclusive) still considered healthy
	WindowMax  int // last day (inclusive) still inside the outreach window
}

// ThresholdsFor computes status thresholds for a target cadence and variance buffer.
// HealthyMax = floor(target * (1 - variance)), WindowMax = ceil(target * (1 + variance)).
func ThresholdsFor(targetCadenceDays int, varianceBuffer float64) Thresholds {
	return Thresholds{
		HealthyMax: int(math.Floor(float64(targetCadenceDays) * (1 - varianceBuffer))),
		WindowMax:  int(math.Ceil(float64(targetCadenceDays) * (1 + varianceBuffer))),
	}
}

// DaysSince returns the number of whole days elapsed between lastInteraction and now.
// A last interaction in the future counts as zero days.
func DaysSince(lastInteraction, now time.Time) int {
	if now.Before(lastInteraction) {
		return 0
	}
	return int(now.Sub(lastInteraction).Hours() / 24)
}

// Classify maps a last-interaction timestamp and cadence settings to a Status.
// Total over every non-negative elapsed duration: exactly one of the three
// states applies.
func Classify(lastInteraction time.Time, targetCadenceDays int, varianceBuffer float64, now time.Time) Status {
	daysSince := DaysSince(lastInteraction, now)
	t := ThresholdsFor(targetCadenceDays, varianceBuffer)

	switch {
	case daysSince <= t.HealthyMax:
		return StatusHealthy
	case daysSince <= t.WindowMax:
		return StatusInWindow
	default:
		return StatusOverdue
	}
}

// Priority orders statuses most-urgent-first for display: overdue < in_window < healthy.
func (s Status) Priority() int {
	switch s {
	case StatusOverdue:
		return 0
	case StatusInWindow:
		return 1
	default:
		return 2
	}
}

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	return s == StatusHealthy || s == StatusInWindow || s == StatusOverdue
}

// OutreachSuggestion returns a short nudge for contacts in or past their window.
// Healthy contacts get no suggestion.
func OutreachSuggestion(status Status, name string, targetCadenceDays int) string {
	switch status {
	case StatusInWindow:
		return fmt.Sprintf("Today is a great day to ping %s—you're within your %d-day window.", name, targetCadenceDays)
	case StatusOverdue:
		return fmt.Sprintf("Time to reconnect with %s! You're past your target cadence.", name)
	default:
		return ""
	}
}

// FormatLastContacted renders the elapsed time since last contact in a
// human-readable form ("Today", "3 days ago", "2 weeks ago", ...).
func FormatLastContacted(lastInteraction, now time.Time) string {
	days := DaysSince(lastInteraction, now)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case days < 365:
		months := days / 30
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := days / 365
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}
