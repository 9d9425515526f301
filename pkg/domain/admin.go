package domain

import "strings"

// AdminProfile is the operator identity returned by the admin profile
// endpoint and cached alongside the admin token.
type AdminProfile struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// DisplayName returns the operator's full name, assembling it from the name
// parts when the backend did not send one, with the email as a last resort.
func (p AdminProfile) DisplayName() string {
	if full := strings.TrimSpace(p.FullName); full != "" {
		return full
	}
	if assembled := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName)); assembled != "" {
		return assembled
	}
	return strings.TrimSpace(p.Email)
}

// Valid reports whether the profile is complete enough to trust. Cached
// blobs that fail this check are treated as absent.
func (p AdminProfile) Valid() bool {
	return strings.TrimSpace(p.Email) != ""
}

// ScannedCustomer is the purchaser identity attached to a scanned ticket.
type ScannedCustomer struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// TicketScan is the backend's answer to a scan lookup: ticket state plus the
// purchaser, keyed by the decoded secret.
type TicketScan struct {
	Status         string           `json:"status,omitempty"`
	EntriesAllowed *int             `json:"entries_allowed,omitempty"`
	OfferName      string           `json:"offer_name,omitempty"`
	Amount         *float64         `json:"amount,omitempty"`
	CreatedAt      string           `json:"created_at,omitempty"`
	Customer       *ScannedCustomer `json:"customer,omitempty"`
}

// IsUsed reports whether the scanned ticket was already consumed.
func (t TicketScan) IsUsed() bool {
	return strings.EqualFold(strings.TrimSpace(t.Status), "USED")
}

// ValidateResponse acknowledges a ticket validation. Message is a backend
// code translated at the UI layer.
type ValidateResponse struct {
	Message string `json:"message,omitempty"`
}
