package domain

import "strings"

// LoginResponse is the shape of both the login and verify-login endpoints.
// Either Token carries a usable bearer token, or TwoFactorRequired is set and
// ChallengeID identifies the pending email-code challenge.
type LoginResponse struct {
	Token             string `json:"token"`
	TwoFactorRequired bool   `json:"two_factor_required"`
	ChallengeID       string `json:"challenge_id,omitempty"`
}

// HasToken reports whether the response carries a non-blank token.
func (r LoginResponse) HasToken() bool {
	return strings.TrimSpace(r.Token) != ""
}

// RegisterResponse is the registration acknowledgement. Message is a backend
// code translated at the UI layer.
type RegisterResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}
