package tui

import (
	"strings"

	"github.com/studi-jo/billetterie/internal/i18n"
	"github.com/studi-jo/billetterie/pkg/client"
)

// describeError turns a backend failure into French user-facing text. Error
// bodies carry message codes; anything unrecognized falls back to the
// generic message rather than leaking transport details.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	if details := client.ErrorDetails(err); details != nil {
		if obj, ok := details.(map[string]any); ok {
			if code, ok := obj["message"].(string); ok && strings.TrimSpace(code) != "" {
				if text := i18n.Error(code, nil); text != code {
					return text
				}
				return i18n.DescribeCode(code)
			}
		}
	}
	return i18n.GenericError
}

// describeScanError is describeError tuned for the scanner screen, where the
// catalog codes are scan-specific.
func describeScanError(err error) string {
	if err == nil {
		return ""
	}
	if details := client.ErrorDetails(err); details != nil {
		if obj, ok := details.(map[string]any); ok {
			if code, ok := obj["message"].(string); ok && strings.TrimSpace(code) != "" {
				return i18n.DescribeCode(code)
			}
		}
	}
	return i18n.GenericError
}
