package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/studi-jo/billetterie/pkg/domain"
)

// AdminClient exposes the operator endpoints: admin auth, offer management
// and ticket scanning. It carries its own token provider so customer and
// admin sessions never share credentials.
type AdminClient struct {
	c *Client
}

// NewAdmin creates an admin client against the same backend. The token
// provider supplies the admin bearer token, independent of any customer
// session.
func NewAdmin(cfg Config) (*AdminClient, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, fmt.Errorf("client.NewAdmin: %w", err)
	}
	return &AdminClient{c: c}, nil
}

// Login submits operator credentials. Admin accounts always go through the
// two-factor challenge, so the response normally carries a challenge ID
// rather than a token.
func (a *AdminClient) Login(ctx context.Context, req LoginRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := a.c.do(ctx, http.MethodPost, routeAdminLogin, req, &resp, nil); err != nil {
		return nil, fmt.Errorf("client.AdminLogin: %w", err)
	}
	return &resp, nil
}

// VerifyLogin completes an operator two-factor challenge.
func (a *AdminClient) VerifyLogin(ctx context.Context, req VerifyLoginRequest) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := a.c.do(ctx, http.MethodPost, routeAdminLoginVerify, req, &resp, nil); err != nil {
		return nil, fmt.Errorf("client.AdminVerifyLogin: %w", err)
	}
	return &resp, nil
}

// CurrentAdmin fetches the authenticated operator's profile.
func (a *AdminClient) CurrentAdmin(ctx context.Context) (*domain.AdminProfile, error) {
	var profile domain.AdminProfile
	if err := a.c.do(ctx, http.MethodGet, routeAdminMe, nil, &profile, nil); err != nil {
		return nil, fmt.Errorf("client.CurrentAdmin: %w", err)
	}
	return &profile, nil
}

// ListOffers fetches the offer catalog for the management screen.
func (a *AdminClient) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	return a.c.ListOffers(ctx)
}

// GetOffer fetches a single offer.
func (a *AdminClient) GetOffer(ctx context.Context, id string) (*domain.Offer, error) {
	return a.c.GetOffer(ctx, id)
}

// CreateOffer publishes a new offer.
func (a *AdminClient) CreateOffer(ctx context.Context, input domain.OfferInput) (*domain.Offer, error) {
	var offer domain.Offer
	if err := a.c.do(ctx, http.MethodPost, routeOffers, input, &offer, nil); err != nil {
		return nil, fmt.Errorf("client.CreateOffer: %w", err)
	}
	return &offer, nil
}

// UpdateOffer replaces an existing offer.
func (a *AdminClient) UpdateOffer(ctx context.Context, id string, input domain.OfferInput) (*domain.Offer, error) {
	var offer domain.Offer
	if err := a.c.do(ctx, http.MethodPut, offerPath(id), input, &offer, nil); err != nil {
		return nil, fmt.Errorf("client.UpdateOffer: %w", err)
	}
	return &offer, nil
}

// DeleteOffer removes an offer from sale.
func (a *AdminClient) DeleteOffer(ctx context.Context, id string) error {
	if err := a.c.do(ctx, http.MethodDelete, offerPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteOffer: %w", err)
	}
	return nil
}

// ScanTicket looks up a ticket by its decoded secret.
func (a *AdminClient) ScanTicket(ctx context.Context, secret string) (*domain.TicketScan, error) {
	body := map[string]string{"ticket_secret": secret}
	var scan domain.TicketScan
	if err := a.c.do(ctx, http.MethodPost, routeTicketsScan, body, &scan, nil); err != nil {
		return nil, fmt.Errorf("client.ScanTicket: %w", err)
	}
	return &scan, nil
}

// ValidateTicket consumes one entry on a ticket.
func (a *AdminClient) ValidateTicket(ctx context.Context, secret string) (*domain.ValidateResponse, error) {
	body := map[string]string{"ticket_secret": secret}
	var resp domain.ValidateResponse
	if err := a.c.do(ctx, http.MethodPost, routeTicketsValidate, body, &resp, nil); err != nil {
		return nil, fmt.Errorf("client.ValidateTicket: %w", err)
	}
	return &resp, nil
}
