// ABOUTME: Email date parsing for Gmail message headers
// ABOUTME: Handles RFC 2822 variants with a millisecond internalDate fallback
package sync

import (
	"fmt"
	"strings"
	"time"
)

// ParseMessageDate parses an RFC 2822 style Date header.
func ParseMessageDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("empty date header")
	}

	// Strip trailing timezone name like "(UTC)" or "(PST)"
	if idx := strings.Index(dateStr, " ("); idx > 0 {
		dateStr = dateStr[:idx]
	}

	formats := []string{
		time.RFC1123Z,                    // "Mon, 02 Jan 2006 15:04:05 -0700"
		"Mon, 2 Jan 2006 15:04:05 -0700", // Single digit day with timezone
		time.RFC1123,                     // "Mon, 02 Jan 2006 15:04:05 MST"
		"Mon, 2 Jan 2006 15:04:05 MST",   // Single digit day without numeric timezone
		time.RFC822Z,                     // "02 Jan 06 15:04 -0700"
		time.RFC822,                      // "02 Jan 06 15:04 MST"
		time.RFC3339,                     // "2006-01-02T15:04:05Z07:00"
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse date: %s", dateStr)
}

// InternalDateTime converts Gmail's internalDate (Unix milliseconds) to a
// timestamp. Returns the zero time for non-positive input.
func InternalDateTime(internalDate int64) time.Time {
	if internalDate <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(internalDate)
}
