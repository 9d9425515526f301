package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		apiHost  string
		qrHost   string
		home     string
		logLevel string
		scanner  string
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				qrHost: "https://api.qrserver.com",
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"BILLETTERIE_API_HOST": "https://api.example.com",
				"BILLETTERIE_QR_HOST":  "https://qr.example.com",
				"BILLETTERIE_HOME":     "/tmp/billetterie",
				"BILLETTERIE_LOG":      "debug",
				"BILLETTERIE_SCANNER":  "/dev/ttyACM0",
			},
			flags: []string{},
			want: want{
				apiHost:  "https://api.example.com",
				qrHost:   "https://qr.example.com",
				home:     "/tmp/billetterie",
				logLevel: "debug",
				scanner:  "/dev/ttyACM0",
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "https://flag.example.com",
				"-q", "https://qr-flag.example.com",
			},
			want: want{
				apiHost: "https://flag.example.com",
				qrHost:  "https://qr-flag.example.com",
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"BILLETTERIE_API_HOST": "https://env.example.com",
			},
			flags: []string{
				"-a", "https://flag.example.com",
			},
			want: want{
				apiHost: "https://env.example.com",
				qrHost:  "https://api.qrserver.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.apiHost, cfg.APIHost)
			assert.Equal(t, tt.want.qrHost, cfg.QRHost)
			assert.Equal(t, tt.want.home, cfg.Home)
			assert.Equal(t, tt.want.logLevel, cfg.LogLevel)
			assert.Equal(t, tt.want.scanner, cfg.Scanner)
		})
	}
}
