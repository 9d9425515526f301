package session

import (
	"errors"
	"strings"

	"github.com/studi-jo/billetterie/pkg/domain"
)

// codeLength is the number of digits in an emailed verification code.
const codeLength = 6

var (
	// ErrMissingChallenge means the backend demanded a second factor but
	// forgot to say which challenge to answer. A backend contract bug, not
	// a user mistake.
	ErrMissingChallenge = errors.New("two-factor required but no challenge id supplied")
	// ErrCodeLength rejects a code that is not exactly six digits, before
	// any network call.
	ErrCodeLength = errors.New("verification code must be 6 digits")
)

// TwoFactor is the transient challenge state nested inside the login form.
// It is created inactive, activated by a login response that demands a
// second factor, and dismissed on success, cancellation, or a fresh
// credential submission.
type TwoFactor struct {
	active      bool
	challengeID string
	code        string
	errMsg      string
}

// Activate enters the pending state from a login response. The response
// must carry a challenge ID; without one the challenge state stays inactive
// and ErrMissingChallenge is returned.
func (t *TwoFactor) Activate(resp *domain.LoginResponse) error {
	if resp == nil || strings.TrimSpace(resp.ChallengeID) == "" {
		return ErrMissingChallenge
	}
	t.active = true
	t.challengeID = resp.ChallengeID
	t.code = ""
	t.errMsg = ""
	return nil
}

// SetCode replaces the entered code, keeping only digits and at most six of
// them. Typing clears any previous validation error.
func (t *TwoFactor) SetCode(input string) {
	var b strings.Builder
	for _, r := range input {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == codeLength {
			break
		}
	}
	t.code = b.String()
	t.errMsg = ""
}

// Validate gates submission: a code that is not exactly six digits fails
// locally, without touching the network.
func (t *TwoFactor) Validate() error {
	if len(t.code) != codeLength {
		return ErrCodeLength
	}
	return nil
}

// Fail records a server-side rejection against the challenge. The challenge
// stays pending so the user can retry with a corrected code.
func (t *TwoFactor) Fail(msg string) {
	t.errMsg = msg
}

// Cancel discards the challenge and all transient errors, returning the
// form to plain credential entry.
func (t *TwoFactor) Cancel() {
	*t = TwoFactor{}
}

// Active reports whether a challenge is pending.
func (t *TwoFactor) Active() bool { return t.active }

// ChallengeID returns the pending challenge identifier.
func (t *TwoFactor) ChallengeID() string { return t.challengeID }

// Code returns the entered code.
func (t *TwoFactor) Code() string { return t.code }

// Err returns the current challenge-level error message, or "".
func (t *TwoFactor) Err() string { return t.errMsg }
