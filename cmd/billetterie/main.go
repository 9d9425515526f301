package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/studi-jo/billetterie/internal/config"
	"github.com/studi-jo/billetterie/internal/scan"
	"github.com/studi-jo/billetterie/internal/session"
	"github.com/studi-jo/billetterie/internal/ticketpdf"
	"github.com/studi-jo/billetterie/internal/tokenstore"
	"github.com/studi-jo/billetterie/internal/tui"
	"github.com/studi-jo/billetterie/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("billetterie " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout()
		}
	}

	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	if cfg.APIHost == "" {
		return fmt.Errorf("no API host configured: set BILLETTERIE_API_HOST or pass -a")
	}

	store := tokenstore.New(cfg.Home)

	logger, err := newLogger(cfg.LogLevel, store.Dir())
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	// The token providers close over the sessions, which in turn need the
	// clients: declare the sessions first, wire them after.
	var sess *session.Session
	var adminSess *session.AdminSession

	c, err := client.New(client.Config{
		BaseURL: cfg.APIHost,
		Token:   func() string { return sess.Token() },
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	admin, err := client.NewAdmin(client.Config{
		BaseURL: cfg.APIHost,
		Token:   func() string { return adminSess.Token() },
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	sess = session.New(c, store, logger)
	adminSess = session.NewAdmin(admin, store, logger)

	generator := ticketpdf.NewGenerator(
		ticketpdf.NewLoader(nil),
		ticketpdf.NewQRFetcher(cfg.QRHost, nil),
		"",
		logger,
	)

	// A hardware QR reader exposed as a line device feeds the scan screen.
	// Without one the screen falls back to manual entry.
	var source scan.Source
	if cfg.Scanner != "" {
		device, err := os.Open(cfg.Scanner)
		if err != nil {
			return fmt.Errorf("open scanner device: %w", err)
		}
		source = scan.NewLineSource(device)
	}

	app := tui.NewApp(tui.Deps{
		Client:       c,
		Admin:        admin,
		Session:      sess,
		AdminSession: adminSess,
		Generator:    generator,
		ScanSource:   source,
		Version:      version,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// newLogger builds a file logger under the credential directory. An empty
// level disables logging entirely so nothing fights the TUI for the terminal.
func newLogger(level, dir string) (*zap.Logger, error) {
	if level == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{filepath.Join(dir, "billetterie.log")}
	zcfg.ErrorOutputPaths = zcfg.OutputPaths
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func runLogout() error {
	store := tokenstore.New(os.Getenv("BILLETTERIE_HOME"))
	store.ClearToken()
	store.ClearAdmin()
	fmt.Println("Déconnecté.")
	return nil
}

func printHelp() {
	fmt.Print(`billetterie — billetterie officielle des Jeux Olympiques

Usage:
  billetterie [flags]        lancer l'interface
  billetterie version        afficher la version
  billetterie logout         effacer les identifiants enregistrés
  billetterie help           afficher cette aide

Flags:
  -a <url>      URL de l'API (ou BILLETTERIE_API_HOST)
  -q <url>      URL du service d'images QR (ou BILLETTERIE_QR_HOST)
  -home <dir>   répertoire des identifiants (ou BILLETTERIE_HOME)
  -log <level>  niveau de journalisation (ou BILLETTERIE_LOG)
  -scanner <dev> chemin du lecteur de QR codes (ou BILLETTERIE_SCANNER)

Le lecteur de QR codes émet un secret décodé par ligne et alimente l'écran
de contrôle (onglet 6).
`)
}
