// ABOUTME: Tests for address parsing and automated-sender filtering
// ABOUTME: Covers both recognized header forms, rejects, and the noise rule set
package sync

import (
	"reflect"
	"testing"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantEmail string
		wantName  string
		wantOK    bool
	}{
		{
			name:      "bare address",
			raw:       "alice@example.com",
			wantEmail: "alice@example.com",
			wantOK:    true,
		},
		{
			name:      "bare address uppercased",
			raw:       "Alice@Example.COM",
			wantEmail: "alice@example.com",
			wantOK:    true,
		},
		{
			name:      "quoted display name",
			raw:       `"Alice Smith" <alice@example.com>`,
			wantEmail: "alice@example.com",
			wantName:  "Alice Smith",
			wantOK:    true,
		},
		{
			name:      "unquoted display name",
			raw:       "Alice Smith <alice@example.com>",
			wantEmail: "alice@example.com",
			wantName:  "Alice Smith",
			wantOK:    true,
		},
		{
			name:      "display name preserves case",
			raw:       "Alice SMITH <ALICE@example.com>",
			wantEmail: "alice@example.com",
			wantName:  "Alice SMITH",
			wantOK:    true,
		},
		{
			name:      "angle brackets without name",
			raw:       "<bob@example.com>",
			wantEmail: "bob@example.com",
			wantOK:    true,
		},
		{
			name:      "surrounding whitespace",
			raw:       "  carol@example.com  ",
			wantEmail: "carol@example.com",
			wantOK:    true,
		},
		{name: "empty string", raw: "", wantOK: false},
		{name: "no at sign", raw: "not-an-address", wantOK: false},
		{name: "missing local part", raw: "@example.com", wantOK: false},
		{name: "missing domain dot", raw: "alice@localhost", wantOK: false},
		{name: "two at signs", raw: "a@b@example.com", wantOK: false},
		{name: "whitespace inside address", raw: "alice smith@example.com", wantOK: false},
		{name: "unclosed angle bracket", raw: "Alice <alice@example.com", wantOK: false},
		{name: "empty angle brackets", raw: "Alice <>", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, ok := ParseAddress(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseAddress(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if addr.Email != tt.wantEmail {
				t.Errorf("email = %q, want %q", addr.Email, tt.wantEmail)
			}
			if addr.Name != tt.wantName {
				t.Errorf("name = %q, want %q", addr.Name, tt.wantName)
			}
		})
	}
}

func TestIsAutomated(t *testing.T) {
	automated := []string{
		"no-reply@example.com",
		"noreply@github.com",
		"NoReply@Example.com",
		"no_reply@service.io",
		"donotreply@bank.com",
		"do-not-reply@airline.com",
		"notifications@github.com",
		"notification-service@slack.com",
		"support@vendor.com",
		"info@company.com",
		"hello@startup.io",
		"postmaster@example.com",
		"mailer-daemon@googlemail.com",
		"bounce-123@list.example.com",
		"newsletter@magazine.com",
		"billing@provider.net",
		"team@product.app",
		"my-autoreply-bot@example.com",
	}
	for _, email := range automated {
		if !IsAutomated(email) {
			t.Errorf("IsAutomated(%q) = false, want true", email)
		}
	}

	human := []string{
		"alice@example.com",
		"bob.smith@acme.com",
		"informatics-dept@university.edu", // prefix of "info" must not match exact rule
		"supporters@charity.org",          // "support" is an exact rule, not a prefix
		"helen@example.com",
	}
	for _, email := range human {
		if IsAutomated(email) {
			t.Errorf("IsAutomated(%q) = true, want false", email)
		}
	}
}

func TestSplitRecipientHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []string
	}{
		{
			name:   "single recipient",
			header: "alice@example.com",
			want:   []string{"alice@example.com"},
		},
		{
			name:   "multiple bare recipients",
			header: "a@x.com, b@x.com, c@x.com",
			want:   []string{"a@x.com", " b@x.com", " c@x.com"},
		},
		{
			name:   "comma inside quoted display name",
			header: `"Smith, Alice" <alice@example.com>, bob@example.com`,
			want:   []string{`"Smith, Alice" <alice@example.com>`, " bob@example.com"},
		},
		{
			name:   "empty header",
			header: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRecipientHeader(tt.header)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitRecipientHeader(%q) = %#v, want %#v", tt.header, got, tt.want)
			}
		})
	}
}
