// ABOUTME: Signal source adapters for Gmail and Google Calendar
// ABOUTME: Each answers "when did I last interact with this address?" within a lookback window
package sync

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"

	"github.com/harperreed/pulse/models"
)

const calendarPageSize = 250 // Google Calendar API max per page

// SignalSource answers the latest interaction timestamp for one address
// within a bounded lookback window. The boolean is false when no signal was
// found; errors are transport or auth failures, recoverable per contact.
type SignalSource interface {
	Name() string
	Latest(address string, lookbackDays int) (time.Time, bool, error)
}

// GmailSource finds the most recent outbound message to an address.
type GmailSource struct {
	Service *gmail.Service
	Now     func() time.Time
}

func (s *GmailSource) Name() string { return models.SourceGmail }

// Latest searches sent mail addressed to the contact within the lookback
// window and returns the timestamp of the single most recent match. The Date
// header is preferred; internalDate is the fallback when the header is
// missing or unparseable.
func (s *GmailSource) Latest(address string, lookbackDays int) (time.Time, bool, error) {
	since := s.now().AddDate(0, 0, -lookbackDays)
	query := fmt.Sprintf("to:%s in:sent after:%s", address, since.Format("2006/01/02"))

	list, err := s.Service.Users.Messages.List("me").Q(query).MaxResults(1).Do()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("gmail search failed: %w", err)
	}
	if list == nil || len(list.Messages) == 0 {
		return time.Time{}, false, nil
	}

	message, err := s.Service.Users.Messages.Get("me", list.Messages[0].Id).
		Format("metadata").
		MetadataHeaders("Date").
		Do()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("gmail message fetch failed: %w", err)
	}

	if ts, ok := messageTimestamp(message); ok {
		return ts, true, nil
	}

	return time.Time{}, false, nil
}

// messageTimestamp extracts a message's timestamp: Date header first,
// internalDate fallback.
func messageTimestamp(message *gmail.Message) (time.Time, bool) {
	if message == nil {
		return time.Time{}, false
	}

	if message.Payload != nil {
		for _, header := range message.Payload.Headers {
			if header.Name != "Date" {
				continue
			}
			if ts, err := ParseMessageDate(header.Value); err == nil {
				return ts, true
			}
		}
	}

	if ts := InternalDateTime(message.InternalDate); !ts.IsZero() {
		return ts, true
	}

	return time.Time{}, false
}

func (s *GmailSource) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CalendarSource finds the most recent meeting shared with an address.
type CalendarSource struct {
	Service *calendar.Service
	Now     func() time.Time
}

func (s *CalendarSource) Name() string { return models.SourceCalendar }

// Latest searches primary-calendar events starting within the lookback
// window and returns the start time of the most recent event where the
// address appears as a non-declined attendee.
func (s *CalendarSource) Latest(address string, lookbackDays int) (time.Time, bool, error) {
	now := s.now()
	windowStart := now.AddDate(0, 0, -lookbackDays)

	var latest time.Time
	found := false
	pageToken := ""

	for {
		call := s.Service.Events.List("primary").
			TimeMin(windowStart.Format(time.RFC3339)).
			TimeMax(now.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Q(address).
			MaxResults(calendarPageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return time.Time{}, false, fmt.Errorf("calendar search failed: %w", err)
		}

		for _, event := range events.Items {
			start, ok := eventStart(event)
			if !ok {
				continue
			}
			if !attendsEvent(event, address) {
				continue
			}
			if start.After(latest) {
				latest = start
				found = true
			}
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return latest, found, nil
}

func (s *CalendarSource) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// eventStart resolves an event's start time: dateTime for timed events,
// date for all-day events.
func eventStart(event *calendar.Event) (time.Time, bool) {
	if event == nil || event.Start == nil {
		return time.Time{}, false
	}

	if event.Start.DateTime != "" {
		ts, err := time.Parse(time.RFC3339, event.Start.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}

	if event.Start.Date != "" {
		ts, err := time.Parse("2006-01-02", event.Start.Date)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}

	return time.Time{}, false
}

// attendsEvent reports whether the address is an attendee who has not
// declined. Cancelled events never count.
func attendsEvent(event *calendar.Event, address string) bool {
	if event.Status == "cancelled" {
		return false
	}

	for _, attendee := range event.Attendees {
		if attendee == nil {
			continue
		}
		if strings.EqualFold(attendee.Email, address) && attendee.ResponseStatus != "declined" {
			return true
		}
	}

	return false
}
