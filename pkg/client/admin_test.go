package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studi-jo/billetterie/pkg/domain"
)

func TestAdminLoginFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/admin/login":
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"two_factor_required": true,
				"challenge_id":        "admin-challenge",
			})
		case "/auth/admin/login/verify":
			var req VerifyLoginRequest
			json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
			if req.ChallengeID != "admin-challenge" || req.Code != "654321" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"token": "admin-token"}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	a, err := NewAdmin(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewAdmin() error: %v", err)
	}
	resp, err := a.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if !resp.TwoFactorRequired || resp.ChallengeID != "admin-challenge" {
		t.Fatalf("unexpected login response: %+v", resp)
	}

	verified, err := a.VerifyLogin(context.Background(), VerifyLoginRequest{ChallengeID: "admin-challenge", Code: "654321"})
	if err != nil {
		t.Fatalf("VerifyLogin() error: %v", err)
	}
	if verified.Token != "admin-token" {
		t.Errorf("Token = %q, want %q", verified.Token, "admin-token")
	}
}

func TestCurrentAdmin_UsesAdminToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer admin-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(domain.AdminProfile{ //nolint:errcheck
			Email:    "admin@example.com",
			FullName: "Admin Durand",
		})
	}))
	defer srv.Close()

	a, _ := NewAdmin(Config{BaseURL: srv.URL, Token: func() string { return "admin-token" }})
	profile, err := a.CurrentAdmin(context.Background())
	if err != nil {
		t.Fatalf("CurrentAdmin() error: %v", err)
	}
	if profile.DisplayName() != "Admin Durand" {
		t.Errorf("DisplayName() = %q, want %q", profile.DisplayName(), "Admin Durand")
	}
}

func TestOfferCRUD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/offers" && r.Method == http.MethodPost:
			var input domain.OfferInput
			json.NewDecoder(r.Body).Decode(&input) //nolint:errcheck
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(domain.Offer{ //nolint:errcheck
				ID: float64(10), Name: input.Name, Price: input.Price, Persons: input.Persons,
			})
		case r.URL.Path == "/offers/10" && r.Method == http.MethodPut:
			var input domain.OfferInput
			json.NewDecoder(r.Body).Decode(&input) //nolint:errcheck
			json.NewEncoder(w).Encode(domain.Offer{ID: float64(10), Name: input.Name}) //nolint:errcheck
		case r.URL.Path == "/offers/10" && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	a, _ := NewAdmin(Config{BaseURL: srv.URL, Token: func() string { return "admin-token" }})

	created, err := a.CreateOffer(context.Background(), domain.OfferInput{Name: "Offre Solo", Price: 25, Persons: 1})
	if err != nil {
		t.Fatalf("CreateOffer() error: %v", err)
	}
	if created.IDString() != "10" {
		t.Errorf("created ID = %q, want %q", created.IDString(), "10")
	}

	updated, err := a.UpdateOffer(context.Background(), "10", domain.OfferInput{Name: "Offre Duo"})
	if err != nil {
		t.Fatalf("UpdateOffer() error: %v", err)
	}
	if updated.Name != "Offre Duo" {
		t.Errorf("updated name = %q, want %q", updated.Name, "Offre Duo")
	}

	if err := a.DeleteOffer(context.Background(), "10"); err != nil {
		t.Fatalf("DeleteOffer() error: %v", err)
	}
}

func TestScanTicket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tickets/scan" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		if body["ticket_secret"] != "secret-abc" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "ticket_not_found"}) //nolint:errcheck
			return
		}
		entries := 2
		json.NewEncoder(w).Encode(domain.TicketScan{ //nolint:errcheck
			Status:         "VALID",
			EntriesAllowed: &entries,
			OfferName:      "Offre Duo",
			Customer:       &domain.ScannedCustomer{FirstName: "Jean", LastName: "Martin"},
		})
	}))
	defer srv.Close()

	a, _ := NewAdmin(Config{BaseURL: srv.URL, Token: func() string { return "admin-token" }})
	scan, err := a.ScanTicket(context.Background(), "secret-abc")
	if err != nil {
		t.Fatalf("ScanTicket() error: %v", err)
	}
	if scan.IsUsed() {
		t.Error("IsUsed() = true for VALID ticket")
	}
	if scan.Customer == nil || scan.Customer.FirstName != "Jean" {
		t.Errorf("unexpected customer: %+v", scan.Customer)
	}

	_, err = a.ScanTicket(context.Background(), "unknown")
	if !IsStatus(err, http.StatusNotFound) {
		t.Errorf("expected 404 for unknown secret, got %v", err)
	}
}

func TestValidateTicket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tickets/validate" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(domain.ValidateResponse{Message: "ticket_validated_successfully"}) //nolint:errcheck
	}))
	defer srv.Close()

	a, _ := NewAdmin(Config{BaseURL: srv.URL, Token: func() string { return "admin-token" }})
	resp, err := a.ValidateTicket(context.Background(), "secret-abc")
	if err != nil {
		t.Fatalf("ValidateTicket() error: %v", err)
	}
	if resp.Message != "ticket_validated_successfully" {
		t.Errorf("Message = %q", resp.Message)
	}
}
