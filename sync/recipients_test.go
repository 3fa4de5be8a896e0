// ABOUTME: Tests for outbound recipient aggregation
// ABOUTME: Verifies counting, recency, display-name capture, filtering, and ranking
package sync

import (
	"testing"
	"time"

	"google.golang.org/api/gmail/v1"
)

func sentMessage(date string, to, cc string) *gmail.Message {
	headers := []*gmail.MessagePartHeader{
		{Name: "Date", Value: date},
	}
	if to != "" {
		headers = append(headers, &gmail.MessagePartHeader{Name: "To", Value: to})
	}
	if cc != "" {
		headers = append(headers, &gmail.MessagePartHeader{Name: "Cc", Value: cc})
	}
	return &gmail.Message{Payload: &gmail.MessagePart{Headers: headers}}
}

func TestAggregateRecipientsCountsAndRecency(t *testing.T) {
	messages := []*gmail.Message{
		sentMessage("Mon, 02 Jun 2025 10:00:00 +0000", "alice@example.com", ""),
		sentMessage("Tue, 03 Jun 2025 10:00:00 +0000", "alice@example.com, bob@example.com", ""),
		sentMessage("Wed, 04 Jun 2025 10:00:00 +0000", "bob@example.com", "alice@example.com"),
	}

	signals := AggregateRecipients(messages, "me@example.com")

	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(signals))
	}

	// alice has 3 occurrences, bob has 2, so alice ranks first
	if signals[0].Email != "alice@example.com" {
		t.Errorf("expected alice first, got %s", signals[0].Email)
	}
	if signals[0].EmailCount != 3 {
		t.Errorf("alice count = %d, want 3", signals[0].EmailCount)
	}
	if signals[1].EmailCount != 2 {
		t.Errorf("bob count = %d, want 2", signals[1].EmailCount)
	}

	wantLast := time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)
	if !signals[0].LastEmailed.Equal(wantLast) {
		t.Errorf("alice lastEmailed = %v, want %v", signals[0].LastEmailed, wantLast)
	}
}

func TestAggregateRecipientsTieBreaksByRecency(t *testing.T) {
	messages := []*gmail.Message{
		sentMessage("Mon, 02 Jun 2025 10:00:00 +0000", "old@example.com", ""),
		sentMessage("Fri, 06 Jun 2025 10:00:00 +0000", "recent@example.com", ""),
	}

	signals := AggregateRecipients(messages, "me@example.com")

	if len(signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(signals))
	}
	if signals[0].Email != "recent@example.com" {
		t.Errorf("equal counts should rank by recency; got %s first", signals[0].Email)
	}
}

func TestAggregateRecipientsDisplayNameFirstWins(t *testing.T) {
	messages := []*gmail.Message{
		sentMessage("Mon, 02 Jun 2025 10:00:00 +0000", "alice@example.com", ""),
		sentMessage("Tue, 03 Jun 2025 10:00:00 +0000", `"Alice Smith" <alice@example.com>`, ""),
		sentMessage("Wed, 04 Jun 2025 10:00:00 +0000", `"A. Smith" <alice@example.com>`, ""),
	}

	signals := AggregateRecipients(messages, "me@example.com")

	if len(signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(signals))
	}
	// First occurrence that supplied a name sticks
	if signals[0].Name != "Alice Smith" {
		t.Errorf("name = %q, want %q", signals[0].Name, "Alice Smith")
	}
}

func TestAggregateRecipientsFiltersSelfAndAutomated(t *testing.T) {
	messages := []*gmail.Message{
		sentMessage("Mon, 02 Jun 2025 10:00:00 +0000",
			"me@example.com, noreply@service.com, alice@example.com", ""),
	}

	signals := AggregateRecipients(messages, "Me <ME@example.com>")

	if len(signals) != 1 {
		t.Fatalf("expected only alice to survive filtering, got %d signals", len(signals))
	}
	if signals[0].Email != "alice@example.com" {
		t.Errorf("surviving signal = %s, want alice@example.com", signals[0].Email)
	}
}

func TestAggregateRecipientsSkipsUnparseable(t *testing.T) {
	messages := []*gmail.Message{
		sentMessage("Mon, 02 Jun 2025 10:00:00 +0000", "undisclosed-recipients:;, alice@example.com", ""),
		nil,
		{Payload: nil},
	}

	signals := AggregateRecipients(messages, "me@example.com")

	if len(signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(signals))
	}
	if signals[0].Email != "alice@example.com" {
		t.Errorf("got %s, want alice@example.com", signals[0].Email)
	}
}
