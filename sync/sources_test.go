// ABOUTME: Tests for signal source timestamp extraction
// ABOUTME: Covers Date-header precedence, internalDate fallback, event starts, and attendance rules
package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
)

func TestMessageTimestampPrefersDateHeader(t *testing.T) {
	message := &gmail.Message{
		InternalDate: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC).UnixMilli(),
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Date", Value: "Mon, 02 Jun 2025 10:00:00 +0000"},
			},
		},
	}

	ts, ok := messageTimestamp(message)
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)))
}

func TestMessageTimestampFallsBackToInternalDate(t *testing.T) {
	internal := time.Date(2025, 6, 3, 8, 30, 0, 0, time.UTC)

	// No Date header at all
	bare := &gmail.Message{InternalDate: internal.UnixMilli()}
	ts, ok := messageTimestamp(bare)
	require.True(t, ok)
	assert.True(t, ts.Equal(internal))

	// Unparseable Date header
	broken := &gmail.Message{
		InternalDate: internal.UnixMilli(),
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Date", Value: "whenever"},
			},
		},
	}
	ts, ok = messageTimestamp(broken)
	require.True(t, ok)
	assert.True(t, ts.Equal(internal))
}

func TestMessageTimestampNoSignal(t *testing.T) {
	_, ok := messageTimestamp(nil)
	assert.False(t, ok)

	_, ok = messageTimestamp(&gmail.Message{})
	assert.False(t, ok)
}

func TestEventStart(t *testing.T) {
	timed := &calendar.Event{Start: &calendar.EventDateTime{DateTime: "2025-06-02T10:00:00Z"}}
	ts, ok := eventStart(timed)
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)))

	allDay := &calendar.Event{Start: &calendar.EventDateTime{Date: "2025-06-02"}}
	ts, ok = eventStart(allDay)
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)))

	_, ok = eventStart(nil)
	assert.False(t, ok)
	_, ok = eventStart(&calendar.Event{})
	assert.False(t, ok)
	_, ok = eventStart(&calendar.Event{Start: &calendar.EventDateTime{DateTime: "garbage"}})
	assert.False(t, ok)
}

func TestAttendsEvent(t *testing.T) {
	event := &calendar.Event{
		Attendees: []*calendar.EventAttendee{
			{Email: "Alice@Example.com", ResponseStatus: "accepted"},
			{Email: "bob@example.com", ResponseStatus: "declined"},
			nil,
		},
	}

	assert.True(t, attendsEvent(event, "alice@example.com"), "case-insensitive match should attend")
	assert.False(t, attendsEvent(event, "bob@example.com"), "declined attendee should not count")
	assert.False(t, attendsEvent(event, "carol@example.com"), "absent address should not count")

	cancelled := &calendar.Event{
		Status: "cancelled",
		Attendees: []*calendar.EventAttendee{
			{Email: "alice@example.com", ResponseStatus: "accepted"},
		},
	}
	assert.False(t, attendsEvent(cancelled, "alice@example.com"), "cancelled events never count")

	tentative := &calendar.Event{
		Attendees: []*calendar.EventAttendee{
			{Email: "alice@example.com", ResponseStatus: "needsAction"},
		},
	}
	assert.True(t, attendsEvent(tentative, "alice@example.com"), "non-declined responses count")
}
