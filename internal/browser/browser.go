// Package browser opens pages of the running server in the desktop browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Commander starts external programs
type Commander interface {
	Start(name string, args ...string) error
}

// ExecCommander starts programs with os/exec
type ExecCommander struct{}

// Start launches the program without waiting for it
func (ExecCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

var defaultCommander Commander = ExecCommander{}

// Open shows rawURL in the default browser
func Open(rawURL string) error {
	return OpenWithCommander(rawURL, defaultCommander, runtime.GOOS)
}

// OpenWithCommander resolves the launcher for goos and starts it with rawURL.
// Only http and https URLs are accepted so the launcher never gets a path
// or a scheme handler.
func OpenWithCommander(rawURL string, commander Commander, goos string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("not a web address: %q", rawURL)
	}

	name, args, err := launcher(goos)
	if err != nil {
		return err
	}
	if err := commander.Start(name, append(args, u.String())...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

func launcher(goos string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", nil, nil
	case "darwin":
		return "open", nil, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}, nil
	}
	return "", nil, fmt.Errorf("unsupported platform: %s", goos)
}
