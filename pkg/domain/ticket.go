package domain

import "strings"

// Ticket mirrors a purchased-ticket payload. The backend emits both camelCase
// and snake_case spellings for several fields; the Resolve* accessors collapse
// them so nothing downstream branches on field presence.
type Ticket struct {
	TicketID               any      `json:"ticketId,omitempty"`
	TicketIDSnek           any      `json:"ticket_id,omitempty"`
	TicketSecret           string   `json:"ticket_secret,omitempty"`
	Status                 string   `json:"status,omitempty"`
	EntriesAllowed         *int     `json:"entriesAllowed,omitempty"`
	EntriesAllowedSnek     *int     `json:"entries_allowed,omitempty"`
	OfferName              string   `json:"offerName,omitempty"`
	OfferNameSnek          string   `json:"offer_name,omitempty"`
	Amount                 *float64 `json:"amount,omitempty"`
	TransactionStatus      string   `json:"transactionStatus,omitempty"`
	TransactionStatusSnek  string   `json:"transaction_status,omitempty"`
	CreatedAt              string   `json:"createdAt,omitempty"`
	CreatedAtSnek          string   `json:"created_at,omitempty"`
}

// ResolveID returns the ticket identifier as a string, or "" when absent.
func (t Ticket) ResolveID() string {
	if s := stringifyID(t.TicketID); s != "" {
		return s
	}
	return stringifyID(t.TicketIDSnek)
}

// Secret returns the trimmed ticket secret, the value encoded into the QR code.
func (t Ticket) Secret() string {
	return strings.TrimSpace(t.TicketSecret)
}

// ResolveEntries returns the allowed entry count and whether it was supplied.
func (t Ticket) ResolveEntries() (int, bool) {
	if t.EntriesAllowed != nil {
		return *t.EntriesAllowed, true
	}
	if t.EntriesAllowedSnek != nil {
		return *t.EntriesAllowedSnek, true
	}
	return 0, false
}

// ResolveOfferName collapses the two offer-name spellings.
func (t Ticket) ResolveOfferName() string {
	return firstNonEmpty(t.OfferName, t.OfferNameSnek)
}

// ResolveTransactionStatus collapses the two transaction-status spellings.
func (t Ticket) ResolveTransactionStatus() string {
	return firstNonEmpty(t.TransactionStatus, t.TransactionStatusSnek)
}

// ResolveCreatedAt collapses the two creation-timestamp spellings.
func (t Ticket) ResolveCreatedAt() string {
	return firstNonEmpty(t.CreatedAt, t.CreatedAtSnek)
}

// IsUsed reports whether the ticket was already consumed at a gate.
func (t Ticket) IsUsed() bool {
	status := strings.ToUpper(strings.TrimSpace(t.Status))
	return strings.Contains(status, "USED") || strings.Contains(status, "SCANNED")
}
