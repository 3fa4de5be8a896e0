// ABOUTME: Google Gmail API client construction
// ABOUTME: Builds an authenticated Gmail service from a per-run access token
package sync

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// NewGmailService creates a Gmail API service bound to one run's access
// token. Clients are constructed per run, never shared across runs.
func NewGmailService(ctx context.Context, accessToken string) (*gmail.Service, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token cannot be empty")
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	service, err := gmail.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return service, nil
}
