package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studi-jo/billetterie/internal/i18n"
	"github.com/studi-jo/billetterie/internal/session"
	"github.com/studi-jo/billetterie/pkg/client"
	"github.com/studi-jo/billetterie/pkg/domain"
)

type offersLoadedMsg struct {
	offers []domain.Offer
	err    error
}

// openBrowserMsg asks the app to open a URL in the system browser.
type openBrowserMsg struct {
	url string
}

type checkoutResultMsg struct {
	url string
	err error
}

type offersModel struct {
	client  *client.Client
	session *session.Session

	offers   []domain.Offer
	cursor   int
	loading  bool
	buying   bool
	err      string
	notice   string
	width    int
	height   int
}

func newOffersModel(c *client.Client, s *session.Session) offersModel {
	return offersModel{client: c, session: s}
}

func (m offersModel) Init() tea.Cmd {
	return m.load()
}

func (m offersModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		offers, err := c.ListOffers(context.Background())
		return offersLoadedMsg{offers: offers, err: err}
	}
}

func (m offersModel) checkout(offer domain.Offer) tea.Cmd {
	c := m.client
	id, ok := offer.NumericID()
	if !ok {
		return func() tea.Msg {
			return checkoutResultMsg{err: fmt.Errorf("offre sans identifiant")}
		}
	}
	return func() tea.Msg {
		resp, err := c.Checkout(context.Background(), id)
		if err != nil {
			return checkoutResultMsg{err: err}
		}
		return checkoutResultMsg{url: resp.CheckoutURL}
	}
}

func (m offersModel) Update(msg tea.Msg) (offersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case offersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = describeError(msg.err)
			return m, nil
		}
		m.err = ""
		m.offers = msg.offers
		if m.cursor >= len(m.offers) {
			m.cursor = 0
		}
		return m, nil

	case checkoutResultMsg:
		m.buying = false
		if msg.err != nil {
			m.err = describeError(msg.err)
			return m, nil
		}
		m.notice = "Redirection vers la page de paiement..."
		return m, func() tea.Msg { return openBrowserMsg{url: msg.url} }

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.offers)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			m.loading = true
			m.notice = ""
			return m, m.load()
		case "enter":
			if m.buying || len(m.offers) == 0 {
				return m, nil
			}
			if m.session == nil || !m.session.Authenticated() {
				m.err = i18n.Error("unauthorized", nil)
				return m, nil
			}
			m.buying = true
			m.err = ""
			m.notice = ""
			return m, m.checkout(m.offers[m.cursor])
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m offersModel) View() string {
	if m.loading && len(m.offers) == 0 {
		return "\n " + dimStyle.Render("Chargement des offres...")
	}
	if m.err != "" && len(m.offers) == 0 {
		return "\n " + errorStyle.Render(m.err)
	}
	if len(m.offers) == 0 {
		return "\n " + dimStyle.Render("Aucune offre disponible pour le moment.")
	}

	var sb strings.Builder
	sb.WriteString("\n " + titleStyle.Render("Offres disponibles") + "\n\n")

	for i, offer := range m.offers {
		cursor := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = goldStyle.Render("> ")
			nameStyle = selectedStyle
		}

		persons := "1 personne"
		if offer.Persons > 1 {
			persons = fmt.Sprintf("%d personnes", offer.Persons)
		}
		line := fmt.Sprintf(" %s%s  %s  %s",
			cursor,
			nameStyle.Render(truncStr(offer.Name, 32)),
			priceStyle.Render(i18n.FormatEUR(offer.Price)),
			dimStyle.Render(persons),
		)
		if offer.Quantity > 0 {
			line += "  " + metaStyle.Render(fmt.Sprintf("%d restants", offer.Quantity))
		}
		sb.WriteString(line + "\n")

		if i == m.cursor && offer.Description != "" {
			sb.WriteString("     " + dimStyle.Render(truncStr(offer.Description, 100)) + "\n")
		}
	}

	sb.WriteString("\n")
	if m.buying {
		sb.WriteString(" " + dimStyle.Render("Ouverture du paiement..."))
	} else if m.err != "" {
		sb.WriteString(" " + errorStyle.Render(m.err))
	} else if m.notice != "" {
		sb.WriteString(" " + successStyle.Render(m.notice))
	}
	return sb.String()
}
