// ABOUTME: Email address extraction and automated-sender filtering
// ABOUTME: Parses header-style recipient strings and suppresses non-human addresses
package sync

import (
	"strings"
)

// Address is a parsed recipient: normalized email plus optional display name.
type Address struct {
	Email string
	Name  string
}

// ParseAddress parses one header-style recipient. Two forms are recognized:
// `"Display Name" <address@domain>` (quotes optional) and a bare
// `address@domain`. The email is lowercased; the display name is kept as
// written. Anything else is rejected.
func ParseAddress(raw string) (Address, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Address{}, false
	}

	if open := strings.LastIndex(raw, "<"); open >= 0 {
		end := strings.LastIndex(raw, ">")
		if end < open {
			return Address{}, false
		}

		email := strings.ToLower(strings.TrimSpace(raw[open+1 : end]))
		if !looksLikeEmail(email) {
			return Address{}, false
		}

		name := strings.TrimSpace(raw[:open])
		name = strings.Trim(name, `"`)
		name = strings.TrimSpace(name)

		return Address{Email: email, Name: name}, true
	}

	email := strings.ToLower(raw)
	if !looksLikeEmail(email) {
		return Address{}, false
	}

	return Address{Email: email}, true
}

// looksLikeEmail applies a minimal shape check: one @, non-empty local part,
// dotted domain, no whitespace.
func looksLikeEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}

	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}

	domain := s[at+1:]
	if domain == "" || !strings.Contains(domain, ".") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}

	return true
}

// SplitRecipientHeader splits a To/Cc header into individual recipient
// strings, respecting commas inside quoted display names.
func SplitRecipientHeader(header string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false

	for _, r := range header {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

type ruleKind int

const (
	rulePrefix ruleKind = iota
	ruleExact
	ruleContains
)

type addressRule struct {
	kind    ruleKind
	pattern string
}

// automatedLocalRules is the noise filter for discovery: local-part patterns
// of senders that are machines, not people. Evaluated in order; kept as data
// so the set is independently testable. Heuristic only, false negatives are
// acceptable.
var automatedLocalRules = []addressRule{
	{rulePrefix, "no-reply"},
	{rulePrefix, "noreply"},
	{rulePrefix, "no_reply"},
	{rulePrefix, "donotreply"},
	{rulePrefix, "do-not-reply"},
	{rulePrefix, "mailer-daemon"},
	{rulePrefix, "postmaster"},
	{rulePrefix, "bounce"},
	{rulePrefix, "notification"},
	{rulePrefix, "newsletter"},
	{rulePrefix, "marketing"},
	{ruleExact, "notifications"},
	{ruleExact, "support"},
	{ruleExact, "info"},
	{ruleExact, "hello"},
	{ruleExact, "admin"},
	{ruleExact, "billing"},
	{ruleExact, "sales"},
	{ruleExact, "help"},
	{ruleExact, "contact"},
	{ruleExact, "team"},
	{ruleExact, "feedback"},
	{ruleExact, "receipts"},
	{ruleExact, "updates"},
	{ruleContains, "autoreply"},
	{ruleContains, "auto-reply"},
}

// IsAutomated reports whether an address's local part matches a known
// non-human pattern, case-insensitively.
func IsAutomated(email string) bool {
	local := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	if local == "" {
		return false
	}

	for _, rule := range automatedLocalRules {
		switch rule.kind {
		case rulePrefix:
			if strings.HasPrefix(local, rule.pattern) {
				return true
			}
		case ruleExact:
			if local == rule.pattern {
				return true
			}
		case ruleContains:
			if strings.Contains(local, rule.pattern) {
				return true
			}
		}
	}

	return false
}
