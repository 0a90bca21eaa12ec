package utils

import (
	"errors"
	"runtime"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard helper is installed
var ErrClipboardUnavailable = errors.New("clipboard not available")

// ValidateClipboard checks that copying download links can work
func ValidateClipboard() error {
	if clipboard.Unsupported {
		return errors.Join(ErrClipboardUnavailable, errors.New(getInstallationInstructions()))
	}
	return nil
}

// CopyToClipboard writes text to the system clipboard
func CopyToClipboard(text string) error {
	if err := ValidateClipboard(); err != nil {
		return err
	}
	return clipboard.WriteAll(text)
}

// getInstallationInstructions returns platform-specific installation instructions
func getInstallationInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "linux":
		return "Install with: apt-get install xclip (X11) or apt-get install wl-clipboard (Wayland)"
	case "windows":
		return "Windows clipboard access should work without extra tools"
	default:
		return "Install xclip, xsel or wl-clipboard"
	}
}
