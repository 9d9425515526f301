// Package tui renders the terminal storefront: offer browsing, account and
// tickets, login with the email-code second factor, and the admin console
// with its scanning screen.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/studi-jo/billetterie/internal/browser"
	"github.com/studi-jo/billetterie/internal/scan"
	"github.com/studi-jo/billetterie/internal/session"
	"github.com/studi-jo/billetterie/internal/ticketpdf"
	"github.com/studi-jo/billetterie/pkg/client"
)

type view int

const (
	viewHome view = iota
	viewOffers
	viewAccount
	viewRegister
	viewAdmin
	viewScanner
)

// Deps carries everything the TUI needs, constructed in main and threaded
// down explicitly.
type Deps struct {
	Client       *client.Client
	Admin        *client.AdminClient
	Session      *session.Session
	AdminSession *session.AdminSession
	Generator    *ticketpdf.Generator
	ScanSource   scan.Source
	Version      string
}

// hydratedMsg reports that both sessions settled from the credential store.
type hydratedMsg struct{}

// checkoutOpenedMsg carries the payment session to watch after the browser
// redirect.
type checkoutOpenedMsg struct {
	sessionID string
}

// App is the root Bubbletea model.
type App struct {
	deps Deps
	view view

	home      homeModel
	offers    offersModel
	login     loginModel
	register  registerModel
	account   accountModel
	adminAuth adminLoginModel
	adminDash adminDashModel
	scanner   scannerModel

	width  int
	height int
}

// NewApp creates the TUI application.
func NewApp(deps Deps) App {
	return App{
		deps:      deps,
		home:      newHomeModel(deps.Client, deps.Session),
		offers:    newOffersModel(deps.Client, deps.Session),
		login:     newLoginModel(deps.Client, deps.Session),
		register:  newRegisterModel(deps.Client),
		account:   newAccountModel(deps.Client, deps.Session, deps.Generator),
		adminAuth: newAdminLoginModel(deps.Admin, deps.AdminSession),
		adminDash: newAdminDashModel(deps.Admin, deps.AdminSession),
		scanner:   newScannerModel(deps.Admin, deps.ScanSource),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.hydrate(), a.home.Init())
}

// hydrate settles both sessions before any authenticated page is shown.
func (a App) hydrate() tea.Cmd {
	sess := a.deps.Session
	admin := a.deps.AdminSession
	return func() tea.Msg {
		if sess != nil {
			sess.Hydrate(context.Background())
		}
		if admin != nil {
			admin.Hydrate()
		}
		return hydratedMsg{}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.home, _ = a.home.Update(bodyMsg)
		a.offers, _ = a.offers.Update(bodyMsg)
		a.login, _ = a.login.Update(bodyMsg)
		a.register, _ = a.register.Update(bodyMsg)
		a.account, _ = a.account.Update(bodyMsg)
		a.adminAuth, _ = a.adminAuth.Update(bodyMsg)
		a.adminDash, _ = a.adminDash.Update(bodyMsg)
		a.scanner, _ = a.scanner.Update(bodyMsg)
		return a, nil

	case hydratedMsg:
		return a, nil

	case checkoutOpenedMsg:
		a.home, _ = a.home.Update(msg)
		return a, nil

	case openBrowserMsg:
		browser.Open(msg.url) //nolint:errcheck // best-effort browser open
		return a, func() tea.Msg { return checkoutOpenedMsg{sessionID: checkoutSessionID(msg.url)} }

	case adminLoginSucceededMsg:
		// The scanner stays the destination when it was the page the
		// operator was heading for.
		a.adminAuth, _ = a.adminAuth.Update(msg)
		if msg.err == nil {
			if a.view == viewScanner {
				var cmd tea.Cmd
				a.scanner, cmd = a.scanner.start()
				return a, cmd
			}
			a.view = viewAdmin
			return a, a.adminDash.Init()
		}
		return a, nil

	case loggedOutMsg:
		a.view = viewHome
		return a, a.home.Init()

	case loginSucceededMsg:
		// Land the user on their account after a completed login.
		a.login, _ = a.login.Update(msg)
		if msg.err == nil {
			a.view = viewAccount
			a.account.loggedInNotice = "Connexion réussie."
			return a, a.account.Init()
		}
		return a, nil

	case tea.KeyMsg:
		if !a.isEditing() {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				return a.switchTo(viewHome)
			case "2":
				return a.switchTo(viewOffers)
			case "3":
				return a.switchTo(viewAccount)
			case "4":
				return a.switchTo(viewRegister)
			case "5":
				return a.switchTo(viewAdmin)
			case "6":
				return a.switchTo(viewScanner)
			case "esc":
				if a.view != viewHome {
					return a.switchTo(viewHome)
				}
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	return a.route(msg)
}

func (a App) switchTo(v view) (tea.Model, tea.Cmd) {
	if a.view == v {
		return a, nil
	}
	a.view = v
	switch v {
	case viewHome:
		return a, a.home.Init()
	case viewOffers:
		return a, a.offers.Init()
	case viewAccount:
		if a.deps.Session != nil && a.deps.Session.Authenticated() {
			return a, a.account.Init()
		}
		return a, a.login.Init()
	case viewRegister:
		return a, a.register.Init()
	case viewAdmin:
		if a.deps.AdminSession != nil && a.deps.AdminSession.Authenticated() {
			return a, a.adminDash.Init()
		}
		return a, a.adminAuth.Init()
	case viewScanner:
		if a.deps.AdminSession != nil && a.deps.AdminSession.Authenticated() {
			var cmd tea.Cmd
			a.scanner, cmd = a.scanner.start()
			return a, cmd
		}
		return a, a.adminAuth.Init()
	}
	return a, nil
}

// route forwards a message to the model behind the current view.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewOffers:
		a.offers, cmd = a.offers.Update(msg)
	case viewAccount:
		if a.deps.Session != nil && a.deps.Session.Authenticated() {
			a.account, cmd = a.account.Update(msg)
		} else {
			a.login, cmd = a.login.Update(msg)
		}
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewAdmin:
		if a.deps.AdminSession != nil && a.deps.AdminSession.Authenticated() {
			a.adminDash, cmd = a.adminDash.Update(msg)
		} else {
			a.adminAuth, cmd = a.adminAuth.Update(msg)
		}
	case viewScanner:
		if a.deps.AdminSession != nil && a.deps.AdminSession.Authenticated() {
			a.scanner, cmd = a.scanner.Update(msg)
		} else {
			a.adminAuth, cmd = a.adminAuth.Update(msg)
		}
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewAccount:
		if a.deps.Session == nil || !a.deps.Session.Authenticated() {
			return a.login.editing
		}
		return false
	case viewRegister:
		return a.register.editing
	case viewAdmin:
		if a.deps.AdminSession == nil || !a.deps.AdminSession.Authenticated() {
			return a.adminAuth.editing
		}
		return a.adminDash.editing
	case viewScanner:
		if a.deps.AdminSession == nil || !a.deps.AdminSession.Authenticated() {
			return a.adminAuth.editing
		}
		return a.scanner.editing
	}
	return false
}

func (a App) View() string {
	header := titleStyle.Render("BILLETTERIE · JEUX OLYMPIQUES")
	headerWidth := lipgloss.Width(header)
	headerPad := (a.width - headerWidth) / 2
	if headerPad < 0 {
		headerPad = 0
	}
	top := strings.Repeat(" ", headerPad) + header

	who := ""
	if a.deps.Session != nil && a.deps.Session.Authenticated() {
		who = a.deps.Session.User().DisplayName()
	}
	if a.deps.AdminSession != nil && a.deps.AdminSession.Authenticated() {
		if who != "" {
			who += " · "
		}
		who += "admin " + a.deps.AdminSession.Profile().DisplayName()
	}
	if who != "" {
		whoLine := metaStyle.Render(who)
		whoPad := (a.width - lipgloss.Width(whoLine)) / 2
		if whoPad < 0 {
			whoPad = 0
		}
		top += "\n" + strings.Repeat(" ", whoPad) + whoLine
	} else {
		top += "\n"
	}

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Accueil", viewHome},
		{"2", "Offres", viewOffers},
		{"3", "Compte", viewAccount},
		{"4", "Inscription", viewRegister},
		{"5", "Admin", viewAdmin},
		{"6", "Scan", viewScanner},
	}

	colWidth := 0
	if len(tabs) > 0 && a.width > 0 {
		colWidth = a.width / len(tabs)
	}
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = goldStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body, help string
	switch a.view {
	case viewHome:
		body = a.home.View()
		help = " " + helpEntry("1-6", "onglets") + "  " + helpEntry("q", "quitter")
		if a.deps.Version != "" {
			help += "  " + metaStyle.Render("billetterie "+a.deps.Version)
		}
	case viewOffers:
		body = a.offers.View()
		help = " " + helpEntry("j/k", "naviguer") + "  " + helpEntry("entrée", "réserver") + "  " + helpEntry("r", "recharger") + "  " + helpEntry("q", "quitter")
	case viewAccount:
		if a.deps.Session != nil && a.deps.Session.Authenticated() {
			body = a.account.View()
			help = " " + helpEntry("j/k", "naviguer") + "  " + helpEntry("d", "télécharger") + "  " + helpEntry("c", "copier") + "  " + helpEntry("x", "déconnexion") + "  " + helpEntry("q", "quitter")
		} else {
			body = a.login.View()
			help = " " + helpEntry("tab", "champ suivant") + "  " + helpEntry("entrée", "valider") + "  " + helpEntry("esc", "navigation")
		}
	case viewRegister:
		body = a.register.View()
		help = " " + helpEntry("tab", "champ suivant") + "  " + helpEntry("entrée", "valider") + "  " + helpEntry("esc", "navigation")
	case viewAdmin:
		if a.deps.AdminSession != nil && a.deps.AdminSession.Authenticated() {
			body = a.adminDash.View()
			help = " " + a.adminDash.helpKeys()
		} else {
			body = a.adminAuth.View()
			help = " " + helpEntry("tab", "champ suivant") + "  " + helpEntry("entrée", "valider") + "  " + helpEntry("esc", "navigation")
		}
	case viewScanner:
		if a.deps.AdminSession != nil && a.deps.AdminSession.Authenticated() {
			body = a.scanner.View()
			help = " " + helpEntry("saisie", "secret + entrée") + "  " + helpEntry("v", "valider") + "  " + helpEntry("r", "réinitialiser") + "  " + helpEntry("esc", "navigation")
		} else {
			body = a.adminAuth.View()
			help = " " + helpEntry("tab", "champ suivant") + "  " + helpEntry("entrée", "valider") + "  " + helpEntry("esc", "navigation")
		}
	}

	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", top, tabBar.String(), body, help)
}
