// ABOUTME: Outbound recipient scanning for contact discovery
// ABOUTME: Aggregates sent-mail recipients by frequency and recency
package sync

import (
	"fmt"
	"sort"
	"time"

	"google.golang.org/api/gmail/v1"
)

const (
	scanPageSize    = 100 // messages per list page
	maxScanMessages = 500 // hard cap per discovery invocation
)

// RecipientSignal is one aggregated discovery candidate from the sent-mail
// scan: how often and how recently the user emailed this address.
type RecipientSignal struct {
	Email       string
	Name        string
	LastEmailed time.Time
	EmailCount  int
}

// ScanSentRecipients scans the user's outbound messages within the lookback
// window and returns aggregated recipient signals, most-contacted first.
// The scan is bounded to maxScanMessages per invocation.
func ScanSentRecipients(service *gmail.Service, userEmail string, lookbackDays int, now time.Time) ([]RecipientSignal, error) {
	since := now.AddDate(0, 0, -lookbackDays)
	query := fmt.Sprintf("in:sent after:%s", since.Format("2006/01/02"))

	var messages []*gmail.Message
	pageToken := ""

	for len(messages) < maxScanMessages {
		call := service.Users.Messages.List("me").Q(query).MaxResults(scanPageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list sent messages: %w", err)
		}
		if list == nil || len(list.Messages) == 0 {
			break
		}

		for _, ref := range list.Messages {
			if len(messages) >= maxScanMessages {
				break
			}

			message, err := service.Users.Messages.Get("me", ref.Id).
				Format("metadata").
				MetadataHeaders("To", "Cc", "Date").
				Do()
			if err != nil {
				// One unreadable message doesn't sink the scan
				continue
			}
			messages = append(messages, message)
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return AggregateRecipients(messages, userEmail), nil
}

// AggregateRecipients folds scanned messages into per-address signals.
// Recipients are taken from To and Cc headers; the sender's own address and
// automated addresses are dropped. Counts accumulate per occurrence,
// lastEmailed keeps the maximum timestamp, and the display name is filled by
// the first occurrence that supplies one. Result ordering: email count
// descending, then last emailed descending.
func AggregateRecipients(messages []*gmail.Message, userEmail string) []RecipientSignal {
	self := ""
	if parsed, ok := ParseAddress(userEmail); ok {
		self = parsed.Email
	}

	byEmail := make(map[string]*RecipientSignal)

	for _, message := range messages {
		if message == nil || message.Payload == nil {
			continue
		}

		timestamp, _ := messageTimestamp(message)

		for _, header := range message.Payload.Headers {
			if header.Name != "To" && header.Name != "Cc" {
				continue
			}

			for _, raw := range SplitRecipientHeader(header.Value) {
				address, ok := ParseAddress(raw)
				if !ok {
					continue
				}
				if address.Email == self || IsAutomated(address.Email) {
					continue
				}

				signal, exists := byEmail[address.Email]
				if !exists {
					signal = &RecipientSignal{Email: address.Email}
					byEmail[address.Email] = signal
				}

				signal.EmailCount++
				if timestamp.After(signal.LastEmailed) {
					signal.LastEmailed = timestamp
				}
				if signal.Name == "" && address.Name != "" {
					signal.Name = address.Name
				}
			}
		}
	}

	signals := make([]RecipientSignal, 0, len(byEmail))
	for _, signal := range byEmail {
		signals = append(signals, *signal)
	}

	sort.Slice(signals, func(i, j int) bool {
		if signals[i].EmailCount != signals[j].EmailCount {
			return signals[i].EmailCount > signals[j].EmailCount
		}
		return signals[i].LastEmailed.After(signals[j].LastEmailed)
	})

	return signals
}
