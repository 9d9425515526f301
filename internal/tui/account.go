package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studi-jo/billetterie/internal/i18n"
	"github.com/studi-jo/billetterie/internal/session"
	"github.com/studi-jo/billetterie/internal/ticketpdf"
	"github.com/studi-jo/billetterie/pkg/client"
	"github.com/studi-jo/billetterie/pkg/domain"
)

const notProvided = "Non communiqué(e)"

type accountLoadedMsg struct {
	tickets []domain.Ticket
	err     error
}

type pdfSavedMsg struct {
	path string
	err  error
}

type clipboardMsg struct {
	err error
}

type loggedOutMsg struct{}

type accountModel struct {
	client    *client.Client
	session   *session.Session
	generator *ticketpdf.Generator

	tickets        []domain.Ticket
	cursor         int
	loading        bool
	downloading    bool
	err            string
	notice         string
	loggedInNotice string
	width          int
	height         int
}

func newAccountModel(c *client.Client, s *session.Session, g *ticketpdf.Generator) accountModel {
	return accountModel{client: c, session: s, generator: g}
}

func (m accountModel) Init() tea.Cmd {
	return m.load()
}

// load refreshes the profile and fetches the tickets in one shot. The two
// calls share one failure path: either the account page is current or it
// shows a single error.
func (m accountModel) load() tea.Cmd {
	c := m.client
	sess := m.session
	return func() tea.Msg {
		ctx := context.Background()
		if err := sess.Refresh(ctx); err != nil {
			return accountLoadedMsg{err: err}
		}
		tickets, err := c.Tickets(ctx)
		return accountLoadedMsg{tickets: tickets, err: err}
	}
}

func (m accountModel) download(ticket domain.Ticket, index int) tea.Cmd {
	g := m.generator
	return func() tea.Msg {
		path, err := g.Download(context.Background(), ticket, index)
		return pdfSavedMsg{path: path, err: err}
	}
}

func (m accountModel) Update(msg tea.Msg) (accountModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = "Impossible de charger votre compte. Veuillez réessayer."
			return m, nil
		}
		m.err = ""
		m.tickets = msg.tickets
		if m.cursor >= len(m.tickets) {
			m.cursor = 0
		}
		return m, nil

	case pdfSavedMsg:
		m.downloading = false
		if msg.err != nil {
			m.err = "Impossible de générer votre billet pour le moment. Veuillez réessayer plus tard."
			return m, nil
		}
		m.err = ""
		m.notice = "Billet enregistré : " + msg.path
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.err = "Impossible de copier le code du billet."
			return m, nil
		}
		m.err = ""
		m.notice = "Code du billet copié dans le presse-papiers."
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m accountModel) updateKeys(msg tea.KeyMsg) (accountModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.tickets)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		m.loading = true
		m.notice = ""
		m.loggedInNotice = ""
		return m, m.load()
	case "d":
		if m.downloading || len(m.tickets) == 0 {
			return m, nil
		}
		m.downloading = true
		m.err = ""
		m.notice = ""
		return m, m.download(m.tickets[m.cursor], m.cursor)
	case "c":
		if len(m.tickets) == 0 {
			return m, nil
		}
		secret := m.tickets[m.cursor].Secret()
		if secret == "" {
			m.err = "Ce billet n'a pas de code à copier."
			return m, nil
		}
		return m, func() tea.Msg {
			return clipboardMsg{err: clipboard.WriteAll(secret)}
		}
	case "x":
		m.session.Logout()
		m.tickets = nil
		m.cursor = 0
		m.notice = ""
		m.loggedInNotice = ""
		m.err = ""
		return m, func() tea.Msg { return loggedOutMsg{} }
	}
	return m, nil
}

func (m accountModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n " + titleStyle.Render("Mon compte") + "\n\n")

	if m.loggedInNotice != "" {
		sb.WriteString(" " + successStyle.Render(m.loggedInNotice) + "\n\n")
	}

	if user := m.session.User(); user != nil {
		first := user.FirstName
		if first == "" {
			first = notProvided
		}
		last := user.LastName
		if last == "" {
			last = notProvided
		}
		email := user.Email
		if email == "" {
			email = notProvided
		}
		fmt.Fprintf(&sb, " %s %s\n", labelStyle.Render("Prénom :"), normalStyle.Render(first))
		fmt.Fprintf(&sb, " %s %s\n", labelStyle.Render("Nom :"), normalStyle.Render(last))
		fmt.Fprintf(&sb, " %s %s\n\n", labelStyle.Render("Adresse e-mail :"), normalStyle.Render(email))
	}

	sb.WriteString(" " + goldStyle.Render("Mes billets") + "\n\n")

	switch {
	case m.loading:
		sb.WriteString(" " + dimStyle.Render("Chargement de vos billets...") + "\n")
	case len(m.tickets) == 0 && m.err == "":
		sb.WriteString(" " + dimStyle.Render("Aucun billet pour le moment. Rendez-vous dans l'onglet Offres !") + "\n")
	default:
		for i, t := range m.tickets {
			cursor := "  "
			nameStyle := normalStyle
			if i == m.cursor {
				cursor = goldStyle.Render("> ")
				nameStyle = selectedStyle
			}

			name := t.ResolveOfferName()
			if name == "" {
				name = "Billet " + t.ResolveID()
			}
			line := fmt.Sprintf(" %s%s  %s", cursor, nameStyle.Render(truncStr(name, 32)), StatusStyle(t.Status).Render(t.Status))
			if t.Amount != nil {
				line += "  " + priceStyle.Render(i18n.FormatEUR(*t.Amount))
			}
			sb.WriteString(line + "\n")

			if i == m.cursor {
				if entries, ok := t.ResolveEntries(); ok {
					persons := "1 personne"
					if entries > 1 {
						persons = fmt.Sprintf("%d personnes", entries)
					}
					sb.WriteString("     " + dimStyle.Render(persons) + "\n")
				}
				sb.WriteString("     " + dimStyle.Render("Acheté le "+i18n.FormatDateTime(t.ResolveCreatedAt())) + "\n")
			}
		}
	}

	sb.WriteString("\n")
	if m.downloading {
		sb.WriteString(" " + dimStyle.Render("Génération du billet PDF..."))
	} else if m.err != "" {
		sb.WriteString(" " + errorStyle.Render(m.err))
	} else if m.notice != "" {
		sb.WriteString(" " + successStyle.Render(m.notice))
	}
	return sb.String()
}
