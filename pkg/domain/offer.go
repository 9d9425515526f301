package domain

// Offer is a purchasable ticket bundle, owned by the backend. The client never
// mutates an offer locally; admin edits go through the API and re-fetch.
type Offer struct {
	ID          any     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price,omitempty"`
	Persons     int     `json:"persons,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
}

// IDString renders the offer identifier for path building, whatever JSON type
// the backend used for it.
func (o Offer) IDString() string {
	return stringifyID(o.ID)
}

// NumericID returns the offer identifier as an integer, when the backend
// sent one. Checkout requires the numeric form.
func (o Offer) NumericID() (int64, bool) {
	switch v := o.ID.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// OfferInput is the payload for creating or updating an offer.
type OfferInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Persons     int     `json:"persons"`
	Quantity    int     `json:"quantity"`
}
