package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studi-jo/billetterie/internal/session"
	"github.com/studi-jo/billetterie/internal/tokenstore"
	"github.com/studi-jo/billetterie/pkg/client"
	"github.com/studi-jo/billetterie/pkg/domain"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// testDeps wires an app against a fake backend, with fresh on-disk state.
func testDeps(t *testing.T, baseURL string) Deps {
	t.Helper()
	store := tokenstore.New(t.TempDir())

	var sess *session.Session
	var adminSess *session.AdminSession

	c, err := client.New(client.Config{
		BaseURL: baseURL,
		Token: func() string {
			if sess == nil {
				return ""
			}
			return sess.Token()
		},
	})
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	admin, err := client.NewAdmin(client.Config{
		BaseURL: baseURL,
		Token: func() string {
			if adminSess == nil {
				return ""
			}
			return adminSess.Token()
		},
	})
	if err != nil {
		t.Fatalf("client.NewAdmin: %v", err)
	}

	sess = session.New(c, store, nil)
	adminSess = session.NewAdmin(admin, store, nil)
	return Deps{
		Client:       c,
		Admin:        admin,
		Session:      sess,
		AdminSession: adminSess,
	}
}

func TestTabSwitching(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]")) //nolint:errcheck
	}))
	defer srv.Close()

	a := NewApp(testDeps(t, srv.URL))

	model, _ := a.Update(keyMsg("2"))
	a = model.(App)
	if a.view != viewOffers {
		t.Fatalf("view after '2' = %d, want offers", a.view)
	}

	model, _ = a.Update(keyMsg("5"))
	a = model.(App)
	if a.view != viewAdmin {
		t.Fatalf("view after '5' = %d, want admin", a.view)
	}

	model, _ = a.Update(keyMsg("esc"))
	a = model.(App)
	if a.view != viewHome {
		t.Fatalf("view after esc = %d, want home", a.view)
	}
}

func TestDigitsEditFormsInsteadOfSwitchingTabs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]")) //nolint:errcheck
	}))
	defer srv.Close()

	a := NewApp(testDeps(t, srv.URL))

	// The login form starts in editing mode, so a digit is input, not a tab.
	model, _ := a.Update(keyMsg("3"))
	a = model.(App)
	model, _ = a.Update(keyMsg("1"))
	a = model.(App)
	if a.view != viewAccount {
		t.Fatalf("view = %d, want account", a.view)
	}
	if got := a.login.fields[loginFieldEmail]; got != "1" {
		t.Errorf("email field = %q, want %q", got, "1")
	}
}

func TestLoginLandsOnAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/customer/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id": 7, "email": "jean@example.com", "firstname": "Jean", "lastname": "Martin",
		})
	})
	mux.HandleFunc("/customers/me/tickets", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]")) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	deps := testDeps(t, srv.URL)
	a := NewApp(deps)

	model, _ := a.Update(keyMsg("3"))
	a = model.(App)

	// The backend accepted the credentials; the session adopts the token.
	model, cmd := a.Update(loginResponseMsg{resp: &domain.LoginResponse{Token: "token-123"}})
	a = model.(App)
	if cmd == nil {
		t.Fatal("no command after login response")
	}

	msg := cmd()
	succeeded, ok := msg.(loginSucceededMsg)
	if !ok {
		t.Fatalf("msg = %T, want loginSucceededMsg", msg)
	}
	if succeeded.err != nil {
		t.Fatalf("login settled with error: %v", succeeded.err)
	}

	model, _ = a.Update(succeeded)
	a = model.(App)

	if a.view != viewAccount {
		t.Fatalf("view = %d, want account", a.view)
	}
	if a.account.loggedInNotice != "Connexion réussie." {
		t.Errorf("loggedInNotice = %q", a.account.loggedInNotice)
	}
	if !deps.Session.Authenticated() {
		t.Fatal("session not authenticated")
	}
	if got := deps.Session.User().FullName; got != "Jean Martin" {
		t.Errorf("FullName = %q, want %q", got, "Jean Martin")
	}
	if got := deps.Session.Token(); got != "token-123" {
		t.Errorf("Token = %q, want %q", got, "token-123")
	}
}

func TestTwoFactorLoginFlow(t *testing.T) {
	var gotChallenge, gotCode string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/customer/login/verify", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ChallengeID string `json:"challenge_id"`
			Code        string `json:"code"`
		}
		json.NewDecoder(r.Body).Decode(&req) //nolint:errcheck
		gotChallenge, gotCode = req.ChallengeID, req.Code
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"token-456"}`)) //nolint:errcheck
	})
	mux.HandleFunc("/auth/customer/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email":"jean@example.com"}`)) //nolint:errcheck
	})
	mux.HandleFunc("/customers/me/tickets", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]")) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	deps := testDeps(t, srv.URL)
	a := NewApp(deps)

	model, _ := a.Update(keyMsg("3"))
	a = model.(App)

	model, _ = a.Update(loginResponseMsg{resp: &domain.LoginResponse{
		TwoFactorRequired: true,
		ChallengeID:       "challenge-123",
	}})
	a = model.(App)
	if !a.login.twoFactor.Active() {
		t.Fatal("challenge not active after two-factor response")
	}

	// Digits are captured by the active challenge, not the tab bar.
	for _, d := range []string{"1", "2", "3", "4", "5", "6"} {
		model, _ = a.Update(keyMsg(d))
		a = model.(App)
	}
	if a.view != viewAccount {
		t.Fatalf("digits switched tabs: view = %d", a.view)
	}

	model, cmd := a.Update(keyMsg("enter"))
	a = model.(App)
	if cmd == nil {
		t.Fatal("no command after code submission")
	}
	msg := cmd()
	verify, ok := msg.(verifyResponseMsg)
	if !ok {
		t.Fatalf("msg = %T, want verifyResponseMsg", msg)
	}
	if gotChallenge != "challenge-123" || gotCode != "123456" {
		t.Errorf("verify payload = (%q, %q)", gotChallenge, gotCode)
	}

	model, cmd = a.Update(verify)
	a = model.(App)
	if cmd == nil {
		t.Fatal("no command after verify response")
	}
	model, _ = a.Update(cmd())
	a = model.(App)

	if !deps.Session.Authenticated() {
		t.Fatal("session not authenticated after two-factor login")
	}
	if got := deps.Session.Token(); got != "token-456" {
		t.Errorf("Token = %q, want %q", got, "token-456")
	}
}

func TestRegisterMismatchNeverCallsBackend(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c, err := client.New(client.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	m := newRegisterModel(c)
	m.fields[regFieldEmail] = "jean@example.com"
	m.fields[regFieldPassword] = "secret-1"
	m.fields[regFieldConfirm] = "secret-2"
	m.consent = true
	m.focus = regFieldConsent

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("mismatched passwords produced a command")
	}
	if m.err != "Les mots de passe ne correspondent pas." {
		t.Errorf("err = %q", m.err)
	}
	if calls != 0 {
		t.Errorf("backend called %d times, want 0", calls)
	}
}

func TestRegisterRequiresConsent(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c, err := client.New(client.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	m := newRegisterModel(c)
	m.fields[regFieldEmail] = "jean@example.com"
	m.fields[regFieldPassword] = "secret-1"
	m.fields[regFieldConfirm] = "secret-1"
	m.focus = regFieldConsent

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("missing consent produced a command")
	}
	if m.err != "Vous devez accepter le traitement de vos données personnelles." {
		t.Errorf("err = %q", m.err)
	}
	if calls != 0 {
		t.Errorf("backend called %d times, want 0", calls)
	}
}

func TestRegisterSuccessShowsTranslatedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","message":"customer_registered"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c, err := client.New(client.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	m := newRegisterModel(c)
	m.fields[regFieldEmail] = "jean@example.com"
	m.fields[regFieldPassword] = "secret-1"
	m.fields[regFieldConfirm] = "secret-1"
	m.consent = true
	m.focus = regFieldConsent

	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("valid form produced no command")
	}
	m, _ = m.Update(cmd())

	if m.success == "" || m.success == "customer_registered" {
		t.Errorf("success = %q, want the translated message", m.success)
	}
	if m.fields[regFieldPassword] != "" {
		t.Error("password not cleared after success")
	}
}

func TestHomePaymentBanner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/cs_test_123") {
			t.Errorf("status path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"paid"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c, err := client.New(client.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	m := newHomeModel(c, nil)
	m, cmd := m.Update(checkoutOpenedMsg{sessionID: "cs_test_123"})
	if cmd == nil {
		t.Fatal("no poll command after checkout opened")
	}
	m, _ = m.Update(cmd())

	if !strings.Contains(m.View(), "Paiement confirmé") {
		t.Errorf("view missing confirmation banner:\n%s", m.View())
	}
}

func TestScannerManualLookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tickets/scan", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"VALID","offer_name":"Finale 100m","entries_allowed":2}`)) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	admin, err := client.NewAdmin(client.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("client.NewAdmin: %v", err)
	}

	m := newScannerModel(admin, nil)
	m, _ = m.Update(keyMsg("enter")) // start editing
	for _, r := range "secret-abc" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("no lookup command after enter")
	}
	m, _ = m.Update(cmd())

	view := m.View()
	if !strings.Contains(view, "Finale 100m") {
		t.Errorf("view missing offer name:\n%s", view)
	}
	if !m.scan.CanValidate() {
		t.Error("valid ticket not validatable")
	}
}

func TestOffersViewRendersPricesInEuros(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Offre Solo","price":25.5,"persons":1,"quantity":10}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c, err := client.New(client.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}

	m := newOffersModel(c, nil)
	cmd := m.Init()
	m, _ = m.Update(cmd())

	view := m.View()
	if !strings.Contains(view, "Offre Solo") {
		t.Errorf("view missing offer name:\n%s", view)
	}
	if !strings.Contains(view, "25,50 €") {
		t.Errorf("view missing formatted price:\n%s", view)
	}
}
