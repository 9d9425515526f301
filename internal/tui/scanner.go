package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studi-jo/billetterie/internal/i18n"
	"github.com/studi-jo/billetterie/internal/scan"
	"github.com/studi-jo/billetterie/pkg/client"
)

// scanResultMsg reports that the scan source emitted one result and the
// session absorbed it.
type scanResultMsg struct{}

// scanSourceClosedMsg reports that the scan source stream ended.
type scanSourceClosedMsg struct{}

type scanLookupDoneMsg struct{}

type scanValidateDoneMsg struct{}

// scannerModel is the gate-control screen: secrets arrive from the attached
// scan source or are typed in by hand, and the session keeps the displayed
// ticket consistent.
type scannerModel struct {
	scan   *scan.Session
	source scan.Source

	input   string
	editing bool
	started bool
	width   int
	height  int
}

func newScannerModel(admin *client.AdminClient, source scan.Source) scannerModel {
	return scannerModel{scan: scan.NewSession(admin, nil), source: source}
}

func (m scannerModel) Init() tea.Cmd {
	return nil
}

// start begins consuming the scan source, once. Re-entering the screen must
// not attach a second reader to the same stream.
func (m scannerModel) start() (scannerModel, tea.Cmd) {
	if m.started || m.source == nil {
		return m, nil
	}
	m.started = true
	return m, m.listen()
}

// listen waits for one source emission, feeds it to the session and yields so
// the screen re-renders between results.
func (m scannerModel) listen() tea.Cmd {
	src := m.source
	sess := m.scan
	return func() tea.Msg {
		res, ok := <-src.Results()
		if !ok {
			return scanSourceClosedMsg{}
		}
		sess.HandleResult(context.Background(), res)
		return scanResultMsg{}
	}
}

func (m scannerModel) lookup(secret string) tea.Cmd {
	sess := m.scan
	return func() tea.Msg {
		sess.Decode(context.Background(), secret)
		return scanLookupDoneMsg{}
	}
}

func (m scannerModel) validate() tea.Cmd {
	sess := m.scan
	return func() tea.Msg {
		sess.Validate(context.Background()) //nolint:errcheck // surfaced via ScanErr
		return scanValidateDoneMsg{}
	}
}

func (m scannerModel) Update(msg tea.Msg) (scannerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case scanResultMsg:
		return m, m.listen()

	case scanSourceClosedMsg:
		m.started = false
		return m, nil

	case scanLookupDoneMsg, scanValidateDoneMsg:
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m scannerModel) updateKeys(msg tea.KeyMsg) (scannerModel, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "esc":
			m.editing = false
			m.input = ""
		case "enter":
			secret := strings.TrimSpace(m.input)
			m.input = ""
			m.editing = false
			if secret == "" {
				return m, nil
			}
			return m, m.lookup(secret)
		default:
			m.input = editRune(m.input, msg.String())
		}
		return m, nil
	}

	switch msg.String() {
	case "i", "enter":
		m.editing = true
	case "v":
		if m.scan.CanValidate() {
			return m, m.validate()
		}
	case "r":
		m.scan.Reset()
	}
	return m, nil
}

func (m scannerModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n " + titleStyle.Render("Contrôle des billets") + "\n\n")

	if err := m.scan.DeviceErr(); err != nil {
		sb.WriteString(" " + warnStyle.Render("Lecteur indisponible : "+err.Error()) + "\n")
		sb.WriteString(" " + dimStyle.Render("La saisie manuelle reste possible.") + "\n\n")
	}

	input := m.input
	if m.editing {
		input += "█"
	} else if input == "" {
		input = dimStyle.Render("(entrée pour saisir un code)")
	}
	sb.WriteString(" " + labelStyle.Render("Code billet :") + " " + input + "\n\n")

	if secret := m.scan.Secret(); secret != "" {
		sb.WriteString(" " + metaStyle.Render("Secret : "+truncStr(secret, 40)) + "\n\n")
	}

	switch {
	case m.scan.ScanErr() != nil:
		sb.WriteString(" " + errorStyle.Render(describeScanError(m.scan.ScanErr())) + "\n")
	case m.scan.Ticket() != nil:
		t := m.scan.Ticket()
		name := t.OfferName
		if name == "" {
			name = "Billet"
		}
		fmt.Fprintf(&sb, " %s  %s\n", selectedStyle.Render(name), StatusStyle(t.Status).Render(t.Status))
		if t.Customer != nil {
			holder := strings.TrimSpace(t.Customer.FirstName + " " + t.Customer.LastName)
			if holder == "" {
				holder = t.Customer.Email
			}
			fmt.Fprintf(&sb, " %s %s\n", labelStyle.Render("Titulaire :"), normalStyle.Render(holder))
		}
		if t.EntriesAllowed != nil {
			fmt.Fprintf(&sb, " %s %d\n", labelStyle.Render("Entrées :"), *t.EntriesAllowed)
		}
		if t.Amount != nil {
			fmt.Fprintf(&sb, " %s %s\n", labelStyle.Render("Montant :"), priceStyle.Render(i18n.FormatEUR(*t.Amount)))
		}
		if t.CreatedAt != "" {
			fmt.Fprintf(&sb, " %s %s\n", labelStyle.Render("Acheté le :"), normalStyle.Render(i18n.FormatDateTime(t.CreatedAt)))
		}
		if notice := m.scan.Notice(); notice != "" {
			sb.WriteString("\n " + successStyle.Render(i18n.DescribeCode(notice)) + "\n")
		} else if m.scan.CanValidate() {
			sb.WriteString("\n " + dimStyle.Render("v · valider ce billet") + "\n")
		} else if t.IsUsed() {
			sb.WriteString("\n " + warnStyle.Render(i18n.DescribeCode("ticket_already_used")) + "\n")
		}
	default:
		sb.WriteString(" " + dimStyle.Render("En attente d'un billet...") + "\n")
	}

	return sb.String()
}
