// Package config reads the client configuration from command line flags and
// environment variables. Environment variables win over flags.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

const defaultQRHost = "https://api.qrserver.com"

// Config holds the client configuration.
type Config struct {
	// APIHost is the backend base URL. Required.
	APIHost string `env:"BILLETTERIE_API_HOST"`
	// QRHost is the QR image service base URL.
	QRHost string `env:"BILLETTERIE_QR_HOST"`
	// Home overrides the credential directory (default ~/.billetterie).
	Home string `env:"BILLETTERIE_HOME"`
	// LogLevel is a zap level name. Empty means no logging.
	LogLevel string `env:"BILLETTERIE_LOG"`
	// Scanner is the QR reader device path, one decoded secret per line.
	// Empty means manual entry only.
	Scanner string `env:"BILLETTERIE_SCANNER"`
}

// Parse reads the configuration from command line flags and environment
// variables.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envAPIHost := cfg.APIHost
	envQRHost := cfg.QRHost
	envHome := cfg.Home
	envLogLevel := cfg.LogLevel
	envScanner := cfg.Scanner

	flag.StringVar(&cfg.APIHost, "a", "", "backend API base URL")
	flag.StringVar(&cfg.QRHost, "q", defaultQRHost, "QR image service base URL")
	flag.StringVar(&cfg.Home, "home", "", "credential directory")
	flag.StringVar(&cfg.LogLevel, "log", "", "log level (debug, info, warn, error)")
	flag.StringVar(&cfg.Scanner, "scanner", "", "QR reader device path")

	flag.Parse()

	if envAPIHost != "" {
		cfg.APIHost = envAPIHost
	}
	if envQRHost != "" {
		cfg.QRHost = envQRHost
	}
	if envHome != "" {
		cfg.Home = envHome
	}
	if envLogLevel != "" {
		cfg.LogLevel = envLogLevel
	}
	if envScanner != "" {
		cfg.Scanner = envScanner
	}

	if cfg.QRHost == "" {
		cfg.QRHost = defaultQRHost
	}

	return cfg, nil
}
