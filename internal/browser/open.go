// Package browser hands checkout URLs to the user's default browser. The
// payment page runs outside the terminal, so the TUI only launches the
// opener and keeps going.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches url in the default browser of the current platform. The
// opener is started, not waited on.
func Open(url string) error {
	cmd, err := command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// command picks the platform opener for url.
func command(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	default:
		return nil, fmt.Errorf("browser.Open: unsupported platform %s", goos)
	}
}
