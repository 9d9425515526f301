package ticketpdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/studi-jo/billetterie/internal/i18n"
	"github.com/studi-jo/billetterie/pkg/domain"
)

const notProvided = "Non renseigné"

var unsafeFileChars = regexp.MustCompile(`[^\w-]+`)

// Generator produces ticket PDFs on demand.
type Generator struct {
	loader *Loader
	qr     *QRFetcher
	outDir string
	log    *zap.Logger
	now    func() time.Time
}

// NewGenerator wires a generator. outDir is where artifacts land; empty
// means the current directory.
func NewGenerator(loader *Loader, qr *QRFetcher, outDir string, log *zap.Logger) *Generator {
	if outDir == "" {
		outDir = "."
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{loader: loader, qr: qr, outDir: outDir, log: log, now: time.Now}
}

// Download renders one ticket to a PDF file and returns the saved path.
// index is the ticket's position in the list, used for the filename when
// the ticket carries neither an id nor a secret. The engine load and the QR
// fetch run concurrently; a QR failure degrades to a ticket without the
// image rather than aborting.
func (g *Generator) Download(ctx context.Context, ticket domain.Ticket, index int) (string, error) {
	secret := ticket.Secret()

	type qrResult struct {
		png []byte
	}
	qrCh := make(chan qrResult, 1)
	if secret != "" && g.qr != nil {
		go func() {
			png, err := g.qr.FetchPNG(ctx, secret)
			if err != nil {
				g.log.Warn("QR image unavailable, rendering ticket without it", zap.Error(err))
				qrCh <- qrResult{}
				return
			}
			qrCh <- qrResult{png: png}
		}()
	} else {
		qrCh <- qrResult{}
	}

	engine, err := g.loader.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("ticketpdf.Download: %w", err)
	}
	qrPNG := (<-qrCh).png

	filename := g.filename(ticket, index)
	path := filepath.Join(g.outDir, filename)
	if err := g.render(engine, ticket, index, qrPNG, path); err != nil {
		return "", fmt.Errorf("ticketpdf.Download: %w", err)
	}
	g.log.Info("ticket saved", zap.String("file", path))
	return path, nil
}

// purchaseLabel renders the purchase timestamp as a French long date with
// the time, e.g. "15 juillet 2024 à 10:30".
func purchaseLabel(createdAt string) string {
	label := i18n.FormatDateTime(createdAt)
	if label == i18n.Placeholder {
		return notProvided
	}
	return label
}

// filename derives the artifact name: the ticket id when present, else the
// sanitized secret, else the list position.
func (g *Generator) filename(ticket domain.Ticket, index int) string {
	if id := ticket.ResolveID(); id != "" {
		return "billet-" + id + ".pdf"
	}
	if secret := ticket.Secret(); secret != "" {
		return "billet-" + unsafeFileChars.ReplaceAllString(secret, "-") + ".pdf"
	}
	return fmt.Sprintf("billet-%d.pdf", index+1)
}

func (g *Generator) render(engine *Engine, ticket domain.Ticket, index int, qrPNG []byte, path string) error {
	doc := engine.NewDocument()
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	pageWidth, _ := doc.GetPageSize()
	const margin = 48.0

	idLabel := ticket.ResolveID()
	if idLabel == "" {
		idLabel = fmt.Sprintf("#%d", index+1)
	}
	title := ticket.ResolveOfferName()
	if title == "" {
		title = "Billet " + idLabel
	}

	amountLabel := notProvided
	if ticket.Amount != nil {
		amountLabel = i18n.FormatEUR(*ticket.Amount)
	}
	entriesLabel := notProvided
	if n, ok := ticket.ResolveEntries(); ok {
		entriesLabel = fmt.Sprintf("%d", n)
	}
	createdLabel := purchaseLabel(ticket.ResolveCreatedAt())

	// Gold header band.
	doc.SetFillColor(198, 176, 101)
	doc.RoundedRect(margin, margin, pageWidth-margin*2, 140, 18, "1234", "F")

	doc.SetTextColor(236, 245, 255)
	doc.SetFont("Helvetica", "", 12)
	doc.Text(margin+24, margin+36, tr("Billet officiel"))

	doc.SetFont("Helvetica", "B", 26)
	doc.Text(margin+24, margin+80, tr(title))

	// Details panel, taller when the QR image is present.
	detailsTop := margin + 200
	detailsHeight := 210.0
	if qrPNG != nil {
		detailsHeight = 250.0
	}
	doc.SetFillColor(255, 255, 255)
	doc.RoundedRect(margin, detailsTop, pageWidth-margin*2, detailsHeight, 16, "1234", "F")

	details := []struct {
		label, value string
	}{
		{"Montant payé", amountLabel},
		{"Entrées", entriesLabel},
		{"Date d'achat", createdLabel},
	}

	columnWidth := (pageWidth - margin*2 - 64) / 2
	detailStartX := margin + 32
	detailStartY := detailsTop + 48
	const lineSpacing = 64.0

	for i, detail := range details {
		x := detailStartX + float64(i%2)*columnWidth
		y := detailStartY + float64(i/2)*lineSpacing

		doc.SetFont("Helvetica", "", 10)
		doc.SetTextColor(100, 116, 139)
		doc.Text(x, y, tr(strings.ToUpper(detail.label)))

		doc.SetFont("Helvetica", "", 14)
		doc.SetTextColor(15, 23, 42)
		doc.Text(x, y+20, tr(detail.value))
	}

	if qrPNG != nil {
		const qrSize = 140.0
		qrX := pageWidth - margin - qrSize - 32
		qrY := detailsTop + 40

		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		doc.RegisterImageOptionsReader("ticket-qr", opts, bytes.NewReader(qrPNG))
		doc.ImageOptions("ticket-qr", qrX, qrY, qrSize, qrSize, false, opts, 0, "")
	}

	footerY := detailsTop + detailsHeight + 50
	doc.SetDrawColor(203, 213, 225)
	doc.SetLineWidth(1)
	doc.SetDashPattern([]float64{4, 4}, 0)
	doc.Line(margin, footerY, pageWidth-margin, footerY)

	doc.SetDashPattern([]float64{}, 0)
	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(71, 85, 105)
	doc.Text(margin, footerY+24, tr("Téléchargé le "+i18n.FormatDateValue(g.now())))
	doc.Text(pageWidth-margin-200, footerY+24, tr("Merci pour votre confiance."))

	return doc.OutputFileAndClose(path)
}
