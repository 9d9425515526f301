package domain

import "testing"

func TestNormalizeUserPrefersCamelCase(t *testing.T) {
	u := NormalizeUser(ProfileResponse{
		Firstname:     "Marie",
		FirstnameSnek: "Ignored",
		Lastname:      "Curie",
		Email:         "marie@example.com",
	})
	if u.FirstName != "Marie" {
		t.Errorf("expected firstName='Marie', got %q", u.FirstName)
	}
	if u.FullName != "Marie Curie" {
		t.Errorf("expected fullName='Marie Curie', got %q", u.FullName)
	}
}

func TestNormalizeUserSnakeCaseFallback(t *testing.T) {
	u := NormalizeUser(ProfileResponse{
		FirstnameSnek: "Pierre",
		LastnameSnek:  "Durand",
	})
	if u.FirstName != "Pierre" || u.LastName != "Durand" {
		t.Errorf("expected snake_case fallback, got %q %q", u.FirstName, u.LastName)
	}
}

func TestNormalizeUserExplicitFullNameWins(t *testing.T) {
	u := NormalizeUser(ProfileResponse{
		FullName:  "M. Dupont",
		Firstname: "Michel",
		Lastname:  "Dupont",
	})
	if u.FullName != "M. Dupont" {
		t.Errorf("expected explicit full name, got %q", u.FullName)
	}
}

func TestNormalizeUserRoleDefault(t *testing.T) {
	if got := NormalizeUser(ProfileResponse{}).Role; got != "customer" {
		t.Errorf("expected default role 'customer', got %q", got)
	}
	if got := NormalizeUser(ProfileResponse{Role: "admin"}).Role; got != "admin" {
		t.Errorf("expected role 'admin', got %q", got)
	}
}

func TestNormalizeUserNumericID(t *testing.T) {
	// JSON numbers decode as float64.
	u := NormalizeUser(ProfileResponse{ID: float64(42)})
	if u.ID != "42" {
		t.Errorf("expected id '42', got %q", u.ID)
	}
}

func TestDisplayNameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full name", User{FullName: "Alice Martin", Email: "a@example.com"}, "Alice Martin"},
		{"email", User{Email: "a@example.com"}, "a@example.com"},
		{"placeholder", User{}, "Client Jeux Olympiques"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.DisplayName(); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTicketResolvers(t *testing.T) {
	entries := 2
	ticket := Ticket{
		TicketIDSnek:       float64(123),
		TicketSecret:       "  secret-123  ",
		Status:             "used",
		EntriesAllowedSnek: &entries,
		OfferNameSnek:      "Offre Duo",
	}
	if got := ticket.ResolveID(); got != "123" {
		t.Errorf("ResolveID() = %q, want '123'", got)
	}
	if got := ticket.Secret(); got != "secret-123" {
		t.Errorf("Secret() = %q, want 'secret-123'", got)
	}
	if n, ok := ticket.ResolveEntries(); !ok || n != 2 {
		t.Errorf("ResolveEntries() = %d,%v, want 2,true", n, ok)
	}
	if got := ticket.ResolveOfferName(); got != "Offre Duo" {
		t.Errorf("ResolveOfferName() = %q, want 'Offre Duo'", got)
	}
	if !ticket.IsUsed() {
		t.Error("expected IsUsed()=true for status 'used'")
	}
}

func TestTicketCamelCaseWinsOverSnake(t *testing.T) {
	ticket := Ticket{OfferName: "Solo", OfferNameSnek: "Autre"}
	if got := ticket.ResolveOfferName(); got != "Solo" {
		t.Errorf("ResolveOfferName() = %q, want 'Solo'", got)
	}
}
