// ABOUTME: Error taxonomy for reconciliation runs
// ABOUTME: Distinguishes fatal credential failures from per-contact recoverable ones
package sync

import "errors"

// ErrNoCredential means the user has never completed the OAuth flow.
// Fatal for a run; re-authentication happens out of band via 'pulse auth'.
var ErrNoCredential = errors.New("no google credential stored; run 'pulse auth'")

// ErrAuthExpired means the stored credential is unusable and could not be
// refreshed. Fatal for the whole run: no adapter call can succeed.
var ErrAuthExpired = errors.New("google credential expired; run 'pulse auth' to re-authenticate")
