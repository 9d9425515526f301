package domain

import (
	"fmt"
	"strings"
)

// User is the canonical shape of an authenticated customer, produced once at
// the API boundary by NormalizeUser. Everything past that boundary relies on
// these fields being filled in.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
}

// DisplayName returns the name to greet the customer with. The full name wins,
// then the email, then a neutral placeholder so the UI never shows a blank.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Email != "" {
		return u.Email
	}
	return "Client Jeux Olympiques"
}

// ProfileResponse mirrors the backend profile payload. Depending on the
// backend version the name fields arrive in camelCase or snake_case, so both
// spellings are kept here and collapsed by NormalizeUser.
type ProfileResponse struct {
	ID            any    `json:"id,omitempty"`
	Email         string `json:"email,omitempty"`
	FullName      string `json:"fullName,omitempty"`
	Firstname     string `json:"firstname,omitempty"`
	Lastname      string `json:"lastname,omitempty"`
	FirstnameSnek string `json:"first_name,omitempty"`
	LastnameSnek  string `json:"last_name,omitempty"`
	Role          string `json:"role,omitempty"`
}

// NormalizeUser collapses a raw profile payload into the canonical User shape:
// camelCase name fields are preferred, snake_case is the fallback, and the
// full name is the backend value when non-empty, else first+last.
// The role defaults to "customer".
func NormalizeUser(p ProfileResponse) User {
	first := firstNonEmpty(p.Firstname, p.FirstnameSnek)
	last := firstNonEmpty(p.Lastname, p.LastnameSnek)

	full := strings.TrimSpace(p.FullName)
	if full == "" {
		full = strings.TrimSpace(first + " " + last)
	}

	role := strings.TrimSpace(p.Role)
	if role == "" {
		role = "customer"
	}

	return User{
		ID:        stringifyID(p.ID),
		Email:     strings.TrimSpace(p.Email),
		FirstName: first,
		LastName:  last,
		FullName:  full,
		Role:      role,
	}
}

// firstNonEmpty returns the first value whose trimmed form is non-empty.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// stringifyID renders a backend identifier that may arrive as a JSON string
// or number. Integral floats lose their decimal tail.
func stringifyID(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
