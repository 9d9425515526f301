package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studi-jo/billetterie/internal/session"
	"github.com/studi-jo/billetterie/pkg/client"
	"github.com/studi-jo/billetterie/pkg/domain"
)

type adminLoginResponseMsg struct {
	resp *domain.LoginResponse
	err  error
}

type adminVerifyResponseMsg struct {
	resp *domain.LoginResponse
	err  error
}

// adminLoginSucceededMsg reports that the admin session login settled. The
// app routes it: on success the console or scanner opens.
type adminLoginSucceededMsg struct {
	err error
}

// adminLoginModel is the operator sign-in page. Operator accounts always go
// through the email-code second factor, so the challenge sub-flow is the
// normal path here, not the exception.
type adminLoginModel struct {
	client  *client.AdminClient
	session *session.AdminSession

	fields     [numLoginFields]string
	focus      loginField
	editing    bool
	twoFactor  session.TwoFactor
	submitting bool
	err        string
	width      int
	height     int
}

func newAdminLoginModel(c *client.AdminClient, s *session.AdminSession) adminLoginModel {
	return adminLoginModel{client: c, session: s, editing: true}
}

func (m adminLoginModel) Init() tea.Cmd {
	return nil
}

func (m adminLoginModel) submitCredentials() tea.Cmd {
	c := m.client
	req := client.LoginRequest{
		Email:    strings.TrimSpace(m.fields[loginFieldEmail]),
		Password: m.fields[loginFieldPassword],
	}
	return func() tea.Msg {
		resp, err := c.Login(context.Background(), req)
		return adminLoginResponseMsg{resp: resp, err: err}
	}
}

func (m adminLoginModel) submitCode() tea.Cmd {
	c := m.client
	req := client.VerifyLoginRequest{
		ChallengeID: m.twoFactor.ChallengeID(),
		Code:        m.twoFactor.Code(),
	}
	return func() tea.Msg {
		resp, err := c.VerifyLogin(context.Background(), req)
		return adminVerifyResponseMsg{resp: resp, err: err}
	}
}

func (m adminLoginModel) adoptToken(token string) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		return adminLoginSucceededMsg{err: sess.Login(context.Background(), token)}
	}
}

func (m adminLoginModel) Update(msg tea.Msg) (adminLoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminLoginResponseMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = describeError(msg.err)
			return m, nil
		}
		if msg.resp.TwoFactorRequired {
			if err := m.twoFactor.Activate(msg.resp); err != nil {
				m.err = "Configuration invalide : le serveur demande un code sans fournir de défi."
				return m, nil
			}
			m.err = ""
			return m, nil
		}
		if !msg.resp.HasToken() {
			m.err = profileFetchFailed
			return m, nil
		}
		m.submitting = true
		return m, m.adoptToken(msg.resp.Token)

	case adminVerifyResponseMsg:
		m.submitting = false
		if msg.err != nil {
			m.twoFactor.Fail(describeError(msg.err))
			return m, nil
		}
		if !msg.resp.HasToken() {
			m.twoFactor.Fail(profileFetchFailed)
			return m, nil
		}
		m.submitting = true
		return m, m.adoptToken(msg.resp.Token)

	case adminLoginSucceededMsg:
		m.submitting = false
		if msg.err != nil {
			if errors.Is(msg.err, session.ErrSuperseded) {
				return m, nil
			}
			m.err = profileFetchFailed
			return m, nil
		}
		m.fields = [numLoginFields]string{}
		m.twoFactor.Cancel()
		m.err = ""
		return m, nil

	case tea.KeyMsg:
		if m.twoFactor.Active() {
			return m.updateChallengeKeys(msg)
		}
		return m.updateCredentialKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m adminLoginModel) updateCredentialKeys(msg tea.KeyMsg) (adminLoginModel, tea.Cmd) {
	if !m.editing {
		if msg.String() == "i" || msg.String() == "enter" {
			m.editing = true
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.editing = false
	case "tab", "down":
		m.focus = (m.focus + 1) % numLoginFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case "enter":
		if m.focus != loginFieldPassword {
			m.focus++
			return m, nil
		}
		if m.submitting {
			return m, nil
		}
		if strings.TrimSpace(m.fields[loginFieldEmail]) == "" || m.fields[loginFieldPassword] == "" {
			m.err = "Veuillez renseigner votre e-mail et votre mot de passe."
			return m, nil
		}
		m.twoFactor.Cancel()
		m.submitting = true
		m.err = ""
		return m, m.submitCredentials()
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
		m.err = ""
	}
	return m, nil
}

func (m adminLoginModel) updateChallengeKeys(msg tea.KeyMsg) (adminLoginModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.twoFactor.Cancel()
		m.err = ""
	case "enter":
		if m.submitting {
			return m, nil
		}
		if err := m.twoFactor.Validate(); err != nil {
			m.twoFactor.Fail("Le code doit contenir exactement 6 chiffres.")
			return m, nil
		}
		m.submitting = true
		return m, m.submitCode()
	case "backspace":
		code := m.twoFactor.Code()
		if len(code) > 0 {
			m.twoFactor.SetCode(code[:len(code)-1])
		}
	default:
		key := msg.String()
		if len(key) == 1 {
			m.twoFactor.SetCode(m.twoFactor.Code() + key)
		}
	}
	return m, nil
}

func (m adminLoginModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n " + titleStyle.Render("Espace administrateur") + "\n\n")

	if m.twoFactor.Active() {
		sb.WriteString(" " + normalStyle.Render("Un code de vérification vous a été envoyé par e-mail.") + "\n\n")
		code := m.twoFactor.Code()
		display := code + strings.Repeat("·", 6-len(code))
		sb.WriteString(" " + labelStyle.Render("Code : ") + selectedStyle.Render(display) + "\n\n")
		if m.twoFactor.Err() != "" {
			sb.WriteString(" " + errorStyle.Render(m.twoFactor.Err()) + "\n")
		}
		if m.submitting {
			sb.WriteString(" " + dimStyle.Render("Vérification...") + "\n")
		}
		sb.WriteString("\n " + dimStyle.Render("esc · utiliser une autre adresse e-mail") + "\n")
		return sb.String()
	}

	labels := [numLoginFields]string{"Adresse e-mail", "Mot de passe"}
	for i := loginField(0); i < numLoginFields; i++ {
		cursor := "  "
		style := labelStyle
		if i == m.focus && m.editing {
			cursor = goldStyle.Render("> ")
			style = selectedStyle
		}
		value := m.fields[i]
		if i == loginFieldPassword {
			value = strings.Repeat("*", len(value))
		}
		if i == m.focus && m.editing {
			value += "█"
		}
		fmt.Fprintf(&sb, " %s%s : %s\n", cursor, style.Render(labels[i]), value)
	}

	sb.WriteString("\n")
	if m.submitting {
		sb.WriteString(" " + dimStyle.Render("Connexion...") + "\n")
	} else if m.err != "" {
		sb.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	sb.WriteString("\n " + dimStyle.Render("Accès réservé aux opérateurs accrédités.") + "\n")
	return sb.String()
}
