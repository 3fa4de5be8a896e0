// ABOUTME: Google Calendar API client construction
// ABOUTME: Builds an authenticated Calendar service from a per-run access token
package sync

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewCalendarService creates a Calendar API service bound to one run's
// access token.
func NewCalendarService(ctx context.Context, accessToken string) (*calendar.Service, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token cannot be empty")
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	service, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return service, nil
}
