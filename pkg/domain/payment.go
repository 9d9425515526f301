package domain

import "strings"

// CheckoutResponse carries the payment-provider URL the customer is sent to.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// PaymentStatusResponse is the provider-session status for a checkout.
type PaymentStatusResponse struct {
	Status string `json:"status,omitempty"`
}

// NormalizedStatus returns the upper-cased, trimmed status, or "UNKNOWN" when
// the backend sent nothing usable.
func (r PaymentStatusResponse) NormalizedStatus() string {
	s := strings.ToUpper(strings.TrimSpace(r.Status))
	if s == "" {
		return "UNKNOWN"
	}
	return s
}
