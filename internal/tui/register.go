package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studi-jo/billetterie/internal/i18n"
	"github.com/studi-jo/billetterie/pkg/client"
	"github.com/studi-jo/billetterie/pkg/domain"
)

type registerField int

const (
	regFieldFirstname registerField = iota
	regFieldLastname
	regFieldEmail
	regFieldPassword
	regFieldConfirm
	regFieldConsent
	numRegisterFields
)

type registerResultMsg struct {
	resp *domain.RegisterResponse
	err  error
}

type registerModel struct {
	client *client.Client

	fields     [numRegisterFields]string
	consent    bool
	focus      registerField
	editing    bool
	submitting bool
	err        string
	success    string
	width      int
	height     int
}

func newRegisterModel(c *client.Client) registerModel {
	return registerModel{client: c, editing: true}
}

func (m registerModel) Init() tea.Cmd {
	return nil
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	// Local gates first, no backend round-trip on an invalid form.
	if !m.consent {
		m.err = "Vous devez accepter le traitement de vos données personnelles."
		return m, nil
	}
	if m.fields[regFieldPassword] != m.fields[regFieldConfirm] {
		m.err = i18n.Error("password_mismatch", nil)
		return m, nil
	}
	if strings.TrimSpace(m.fields[regFieldEmail]) == "" {
		m.err = i18n.Error("is_required", map[string]string{"field": "Adresse e-mail"})
		return m, nil
	}

	m.submitting = true
	m.err = ""
	c := m.client
	req := client.RegisterRequest{
		Email:           strings.TrimSpace(m.fields[regFieldEmail]),
		Password:        m.fields[regFieldPassword],
		ConfirmPassword: m.fields[regFieldConfirm],
		Firstname:       strings.TrimSpace(m.fields[regFieldFirstname]),
		Lastname:        strings.TrimSpace(m.fields[regFieldLastname]),
	}
	return m, func() tea.Msg {
		resp, err := c.Register(context.Background(), req)
		return registerResultMsg{resp: resp, err: err}
	}
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = describeError(msg.err)
			return m, nil
		}
		m.fields = [numRegisterFields]string{}
		m.consent = false
		m.focus = regFieldFirstname
		if msg.resp != nil && msg.resp.Message != "" {
			m.success = i18n.Message(msg.resp.Message, nil)
		} else {
			m.success = "Compte créé avec succès."
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m registerModel) updateKeys(msg tea.KeyMsg) (registerModel, tea.Cmd) {
	if !m.editing {
		if msg.String() == "i" || msg.String() == "enter" {
			m.editing = true
		}
		return m, nil
	}

	m.success = ""
	switch msg.String() {
	case "esc":
		m.editing = false
	case "tab", "down":
		m.focus = (m.focus + 1) % numRegisterFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numRegisterFields) % numRegisterFields
	case "enter":
		if m.focus == regFieldConsent {
			if m.submitting {
				return m, nil
			}
			return m.submit()
		}
		m.focus++
	case " ":
		if m.focus == regFieldConsent {
			m.consent = !m.consent
			m.err = ""
			return m, nil
		}
		f := &m.fields[m.focus]
		*f = editRune(*f, " ")
	default:
		if m.focus == regFieldConsent {
			return m, nil
		}
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
		m.err = ""
	}
	return m, nil
}

func (m registerModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n " + titleStyle.Render("Créer un compte") + "\n\n")

	labels := [numRegisterFields]string{
		"Prénom", "Nom", "Adresse e-mail", "Mot de passe", "Confirmation", "Consentement RGPD",
	}
	for i := registerField(0); i < numRegisterFields; i++ {
		cursor := "  "
		style := labelStyle
		if i == m.focus && m.editing {
			cursor = goldStyle.Render("> ")
			style = selectedStyle
		}

		if i == regFieldConsent {
			box := "[ ]"
			if m.consent {
				box = successStyle.Render("[x]")
			}
			fmt.Fprintf(&sb, " %s%s %s %s\n", cursor, box, style.Render(labels[i]),
				dimStyle.Render("(espace pour cocher)"))
			continue
		}

		value := m.fields[i]
		if i == regFieldPassword || i == regFieldConfirm {
			value = strings.Repeat("*", len(value))
		}
		if i == m.focus && m.editing {
			value += "█"
		}
		fmt.Fprintf(&sb, " %s%s : %s\n", cursor, style.Render(labels[i]), value)
	}

	sb.WriteString("\n")
	if m.submitting {
		sb.WriteString(" " + dimStyle.Render("Création du compte...") + "\n")
	} else if m.err != "" {
		sb.WriteString(" " + errorStyle.Render(m.err) + "\n")
	} else if m.success != "" {
		sb.WriteString(" " + successStyle.Render(m.success) + "\n")
	}
	return sb.String()
}
