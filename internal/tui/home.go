package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studi-jo/billetterie/internal/session"
	"github.com/studi-jo/billetterie/pkg/client"
)

type paymentStatusMsg struct {
	status string
	err    error
}

type homeModel struct {
	client  *client.Client
	session *session.Session

	pendingSession string
	paymentStatus  string
	paymentErr     string
	width          int
	height         int
}

func newHomeModel(c *client.Client, s *session.Session) homeModel {
	return homeModel{client: c, session: s}
}

func (m homeModel) Init() tea.Cmd {
	return nil
}

// checkPayment polls the payment session once. No automatic retry; the user
// presses p to check again.
func (m homeModel) checkPayment() tea.Cmd {
	c := m.client
	sessionID := m.pendingSession
	return func() tea.Msg {
		resp, err := c.PaymentStatus(context.Background(), sessionID)
		if err != nil {
			return paymentStatusMsg{err: err}
		}
		return paymentStatusMsg{status: resp.NormalizedStatus()}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case checkoutOpenedMsg:
		if msg.sessionID == "" {
			return m, nil
		}
		m.pendingSession = msg.sessionID
		m.paymentStatus = ""
		m.paymentErr = ""
		return m, m.checkPayment()

	case paymentStatusMsg:
		if msg.err != nil {
			m.paymentErr = msg.err.Error()
			return m, nil
		}
		m.paymentErr = ""
		m.paymentStatus = msg.status
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "p" && m.pendingSession != "" {
			return m, m.checkPayment()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m homeModel) View() string {
	var sb strings.Builder

	sb.WriteString("\n " + goldStyle.Render("Bienvenue sur la billetterie officielle des Jeux Olympiques.") + "\n\n")

	if m.session != nil && m.session.Loading() {
		sb.WriteString(" " + dimStyle.Render("Restauration de la session...") + "\n")
		return sb.String()
	}

	if m.session != nil && m.session.Authenticated() {
		sb.WriteString(" " + normalStyle.Render("Connecté en tant que ") + selectedStyle.Render(m.session.User().DisplayName()) + "\n")
	} else {
		sb.WriteString(" " + dimStyle.Render("Connectez-vous (onglet 3) pour réserver vos billets.") + "\n")
	}

	if banner := m.paymentBanner(); banner != "" {
		sb.WriteString("\n" + banner + "\n")
	}

	sb.WriteString("\n " + dimStyle.Render("2 · Parcourir les offres    3 · Mon compte    4 · Créer un compte") + "\n")
	return sb.String()
}

// paymentBanner renders the post-checkout status line, if a checkout is
// being watched.
func (m homeModel) paymentBanner() string {
	if m.pendingSession == "" {
		return ""
	}
	if m.paymentErr != "" {
		return " " + errorStyle.Render("Impossible de vérifier le paiement : "+m.paymentErr)
	}
	switch m.paymentStatus {
	case "PAID":
		return " " + successStyle.Render("Paiement confirmé. Vos billets sont disponibles dans votre compte.")
	case "PENDING":
		return " " + warnStyle.Render("Paiement en cours de traitement. Appuyez sur p pour vérifier à nouveau.")
	case "FAILED":
		return " " + errorStyle.Render("Le paiement a échoué. Vous pouvez réessayer depuis les offres.")
	case "CANCELLED":
		return " " + warnStyle.Render("Paiement annulé.")
	case "":
		return " " + dimStyle.Render("Vérification du paiement...")
	default:
		return " " + dimStyle.Render("Statut du paiement : "+m.paymentStatus)
	}
}
