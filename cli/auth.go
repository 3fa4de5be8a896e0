// ABOUTME: Google OAuth CLI command
// ABOUTME: Runs the browser authorization flow and stores the token pair
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/term"

	"github.com/harperreed/pulse/db"
	"github.com/harperreed/pulse/sync"
)

// AuthCommand runs the interactive Google OAuth flow and persists the
// resulting token pair for sync.
func AuthCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("auth", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()

	config := sync.NewOAuthConfig()
	if config.ClientID == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID is not set; create an OAuth app in Google Cloud Console first")
	}
	if config.ClientSecret == "" {
		secret, err := promptSecret("GOOGLE_CLIENT_SECRET not set. Enter client secret: ")
		if err != nil {
			return fmt.Errorf("failed to read client secret: %w", err)
		}
		if secret == "" {
			return fmt.Errorf("client secret is required")
		}
		config.ClientSecret = secret
	}

	user, err := db.GetDefaultUser(database)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	// Start local server for OAuth callback
	callbackChan := make(chan *oauth2.Token)
	errChan := make(chan error)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			return
		}

		token, err := config.Exchange(ctx, code)
		if err != nil {
			errChan <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		callbackChan <- token
		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: ":8080", Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Offline access so sync can refresh without re-prompting
	authURL := config.AuthCodeURL("state", oauth2.AccessTypeOffline)

	fmt.Println("Opening browser for Google OAuth...")
	fmt.Printf("\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)

	_ = openBrowser(authURL)

	select {
	case token := <-callbackChan:
		_ = server.Shutdown(ctx)

		if err := sync.SaveAuthorizedToken(database, user.ID, token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		fmt.Printf("\n✓ Authenticated successfully\n")
		if token.RefreshToken == "" {
			fmt.Println("  Note: no refresh token received; you may need to re-auth when the token expires")
		}
		fmt.Println("\nReady to sync! Run 'pulse sync' to reconcile your contacts.")

		return nil

	case err := <-errChan:
		_ = server.Shutdown(ctx)
		return fmt.Errorf("OAuth flow failed: %w", err)
	}
}

// promptSecret reads a secret from the terminal without echo. Falls back to a
// plain line read when stdin is not a terminal.
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	command := exec.Command(cmd, args...)
	return command.Start()
}
