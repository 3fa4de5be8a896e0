// ABOUTME: Display-time status helpers for contact lists
// ABOUTME: Recomputes cadence labels against the clock and orders by urgency
package models

import (
	"sort"
	"time"

	"github.com/harperreed/pulse/cadence"
)

// RefreshStatuses recomputes each contact's status against the current time.
// The stored status is only as fresh as the last write; lists recompute it
// at read time.
func RefreshStatuses(contacts []Contact, now time.Time) {
	for i := range contacts {
		contacts[i].Status = cadence.Classify(
			contacts[i].LastInteraction,
			contacts[i].TargetCadenceDays,
			contacts[i].VarianceBuffer,
			now,
		)
	}
}

// SortByUrgency orders contacts most urgent first (overdue, in-window,
// healthy), with older interactions first within each band.
func SortByUrgency(contacts []Contact) {
	sort.SliceStable(contacts, func(i, j int) bool {
		pi, pj := contacts[i].Status.Priority(), contacts[j].Status.Priority()
		if pi != pj {
			return pi < pj
		}
		return contacts[i].LastInteraction.Before(contacts[j].LastInteraction)
	})
}
