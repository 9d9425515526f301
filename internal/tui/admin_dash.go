package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studi-jo/billetterie/internal/i18n"
	"github.com/studi-jo/billetterie/internal/session"
	"github.com/studi-jo/billetterie/pkg/client"
	"github.com/studi-jo/billetterie/pkg/domain"
)

type offerField int

const (
	offerFieldName offerField = iota
	offerFieldDescription
	offerFieldPrice
	offerFieldPersons
	offerFieldQuantity
	numOfferFields
)

type adminOffersLoadedMsg struct {
	offers []domain.Offer
	err    error
}

type offerSavedMsg struct {
	err error
}

type offerDeletedMsg struct {
	err error
}

type adminRevalidatedMsg struct {
	err error
}

// adminDashModel is the offer management console: the catalog list plus a
// create/edit form.
type adminDashModel struct {
	client  *client.AdminClient
	session *session.AdminSession

	offers  []domain.Offer
	cursor  int
	loading bool

	editing    bool
	editID     string
	form       [numOfferFields]string
	focus      offerField
	submitting bool

	err    string
	notice string
	width  int
	height int
}

func newAdminDashModel(c *client.AdminClient, s *session.AdminSession) adminDashModel {
	return adminDashModel{client: c, session: s}
}

func (m adminDashModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.revalidate())
}

func (m adminDashModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		offers, err := c.ListOffers(context.Background())
		return adminOffersLoadedMsg{offers: offers, err: err}
	}
}

// revalidate confirms the cached admin token against the backend. Only an
// auth rejection tears the session down; a flaky network keeps the console
// usable.
func (m adminDashModel) revalidate() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		err := sess.Revalidate(context.Background(), func(err error) bool {
			return client.IsStatus(err, http.StatusUnauthorized) || client.IsStatus(err, http.StatusForbidden)
		})
		return adminRevalidatedMsg{err: err}
	}
}

func (m adminDashModel) save() (adminDashModel, tea.Cmd) {
	input, err := m.parseForm()
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.submitting = true
	m.err = ""

	c := m.client
	id := m.editID
	return m, func() tea.Msg {
		ctx := context.Background()
		var err error
		if id == "" {
			_, err = c.CreateOffer(ctx, input)
		} else {
			_, err = c.UpdateOffer(ctx, id, input)
		}
		return offerSavedMsg{err: err}
	}
}

func (m adminDashModel) parseForm() (domain.OfferInput, error) {
	var input domain.OfferInput

	input.Name = strings.TrimSpace(m.form[offerFieldName])
	if input.Name == "" {
		return input, fmt.Errorf("%s", i18n.Error("is_required", map[string]string{"field": "Le nom de l'offre"}))
	}
	input.Description = strings.TrimSpace(m.form[offerFieldDescription])

	price, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(m.form[offerFieldPrice]), ",", "."), 64)
	if err != nil || price < 0 {
		return input, errors.New("Le prix doit être un nombre positif.")
	}
	input.Price = price

	persons, err := strconv.Atoi(strings.TrimSpace(m.form[offerFieldPersons]))
	if err != nil || persons < 1 {
		return input, errors.New("Le nombre de personnes doit être un entier supérieur à zéro.")
	}
	input.Persons = persons

	quantity, err := strconv.Atoi(strings.TrimSpace(m.form[offerFieldQuantity]))
	if err != nil || quantity < 0 {
		return input, errors.New("La quantité doit être un entier positif.")
	}
	input.Quantity = quantity

	return input, nil
}

func (m adminDashModel) Update(msg tea.Msg) (adminDashModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminOffersLoadedMsg:
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

	case adminRevalidatedMsg:
		// An expired token already cleared the session; the router shows
		// the sign-in page on the next keypress. Nothing to render here.
		return m, nil

	case offerSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = describeError(msg.err)
			return m, nil
		}
		if m.editID == "" {
			m.notice = "Offre créée."
		} else {
			m.notice = "Offre mise à jour."
		}
		m.editing = false
		m.form = [numOfferFields]string{}
		m.editID = ""
		m.loading = true
		return m, m.load()

	case offerDeletedMsg:
		if msg.err != nil {
			m.err = describeError(msg.err)
			return m, nil
		}
		m.notice = "Offre supprimée."
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		if m.editing {
			return m.updateFormKeys(msg)
		}
		return m.updateListKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m adminDashModel) updateListKeys(msg tea.KeyMsg) (adminDashModel, tea.Cmd) {
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
	case "n":
		m.editing = true
		m.editID = ""
		m.form = [numOfferFields]string{}
		m.form[offerFieldPersons] = "1"
		m.focus = offerFieldName
		m.err = ""
		m.notice = ""
	case "e", "enter":
		if len(m.offers) == 0 {
			return m, nil
		}
		offer := m.offers[m.cursor]
		m.editing = true
		m.editID = offer.IDString()
		m.form[offerFieldName] = offer.Name
		m.form[offerFieldDescription] = offer.Description
		m.form[offerFieldPrice] = strconv.FormatFloat(offer.Price, 'f', -1, 64)
		m.form[offerFieldPersons] = strconv.Itoa(offer.Persons)
		m.form[offerFieldQuantity] = strconv.Itoa(offer.Quantity)
		m.focus = offerFieldName
		m.err = ""
		m.notice = ""
	case "d":
		if len(m.offers) == 0 {
			return m, nil
		}
		id := m.offers[m.cursor].IDString()
		if id == "" {
			m.err = "offre sans identifiant"
			return m, nil
		}
		m.notice = ""
		c := m.client
		return m, func() tea.Msg {
			return offerDeletedMsg{err: c.DeleteOffer(context.Background(), id)}
		}
	case "x":
		m.session.Logout()
		m.offers = nil
		m.cursor = 0
		m.notice = ""
		m.err = ""
	}
	return m, nil
}

func (m adminDashModel) updateFormKeys(msg tea.KeyMsg) (adminDashModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.form = [numOfferFields]string{}
		m.editID = ""
		m.err = ""
	case "tab", "down":
		m.focus = (m.focus + 1) % numOfferFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numOfferFields) % numOfferFields
	case "enter":
		if m.focus < numOfferFields-1 {
			m.focus++
			return m, nil
		}
		fallthrough
	case "ctrl+s":
		if m.submitting {
			return m, nil
		}
		return m.save()
	default:
		f := &m.form[m.focus]
		*f = editRune(*f, msg.String())
		m.err = ""
	}
	return m, nil
}

func (m adminDashModel) helpKeys() string {
	if m.editing {
		return helpEntry("tab", "champ suivant") + "  " + helpEntry("ctrl+s", "enregistrer") + "  " + helpEntry("esc", "annuler")
	}
	return helpEntry("j/k", "naviguer") + "  " + helpEntry("n", "nouvelle") + "  " + helpEntry("e", "modifier") + "  " + helpEntry("d", "supprimer") + "  " + helpEntry("x", "déconnexion")
}

func (m adminDashModel) View() string {
	if m.editing {
		return m.formView()
	}

	var sb strings.Builder
	sb.WriteString("\n " + titleStyle.Render("Gestion des offres") + "\n\n")

	switch {
	case m.loading && len(m.offers) == 0:
		sb.WriteString(" " + dimStyle.Render("Chargement des offres...") + "\n")
	case len(m.offers) == 0:
		sb.WriteString(" " + dimStyle.Render("Aucune offre. Appuyez sur n pour en créer une.") + "\n")
	default:
		for i, offer := range m.offers {
			cursor := "  "
			nameStyle := normalStyle
			if i == m.cursor {
				cursor = goldStyle.Render("> ")
				nameStyle = selectedStyle
			}
			fmt.Fprintf(&sb, " %s%s  %s  %s  %s\n",
				cursor,
				nameStyle.Render(truncStr(offer.Name, 32)),
				priceStyle.Render(i18n.FormatEUR(offer.Price)),
				dimStyle.Render(fmt.Sprintf("%d pers.", offer.Persons)),
				metaStyle.Render(fmt.Sprintf("stock %d", offer.Quantity)),
			)
			if i == m.cursor && offer.Description != "" {
				sb.WriteString("     " + dimStyle.Render(truncStr(offer.Description, 100)) + "\n")
			}
		}
	}

	sb.WriteString("\n")
	if m.err != "" {
		sb.WriteString(" " + errorStyle.Render(m.err))
	} else if m.notice != "" {
		sb.WriteString(" " + successStyle.Render(m.notice))
	}
	return sb.String()
}

func (m adminDashModel) formView() string {
	var sb strings.Builder
	title := "Nouvelle offre"
	if m.editID != "" {
		title = "Modifier l'offre"
	}
	sb.WriteString("\n " + titleStyle.Render(title) + "\n\n")

	labels := [numOfferFields]string{"Nom", "Description", "Prix (€)", "Personnes", "Quantité"}
	for i := offerField(0); i < numOfferFields; i++ {
		cursor := "  "
		style := labelStyle
		if i == m.focus {
			cursor = goldStyle.Render("> ")
			style = selectedStyle
		}
		value := m.form[i]
		if i == m.focus {
			value += "█"
		}
		fmt.Fprintf(&sb, " %s%s : %s\n", cursor, style.Render(labels[i]), value)
	}

	sb.WriteString("\n")
	if m.submitting {
		sb.WriteString(" " + dimStyle.Render("Enregistrement...") + "\n")
	} else if m.err != "" {
		sb.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	return sb.String()
}
