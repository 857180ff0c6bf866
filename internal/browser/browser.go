// Package browser hands post URLs to the desktop browser.
package browser

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

// Open launches the system browser on the given URL. Only http and
// https pass validation; post content is server-provided, so anything
// else is rejected before touching exec.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}

	name, args := openCommand(rawURL)
	return exec.Command(name, args...).Start()
}

func openCommand(rawURL string) (string, []string) {
	// An explicit $BROWSER wins on every platform.
	if b := os.Getenv("BROWSER"); b != "" {
		return b, []string{rawURL}
	}

	switch runtime.GOOS {
	case "darwin":
		return "open", []string{rawURL}
	case "windows":
		// rundll32 instead of cmd /c start, to keep the URL out of shell parsing
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return "xdg-open", []string{rawURL}
	}
}
