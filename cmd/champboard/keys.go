package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/collegefest/champboard/internal/browser"
)

// handleKey performs the action bound to input. It reports false when the
// listener should stop.
func handleKey(input string, k keyActions) bool {
	switch strings.ToLower(input) {
	case "a":
		fmt.Println(cyan("Opening admin page in browser..."))
		if err := browser.Open(k.adminURL); err != nil {
			color.Red("Error opening browser: %v", err)
		}
	case "p":
		fmt.Println(cyan("Opening leaderboard in browser..."))
		if err := browser.Open(k.publicURL); err != nil {
			color.Red("Error opening browser: %v", err)
		}
	case "h":
		if k.log.IsHTTPLoggingEnabled() {
			k.log.DisableHTTPLogging()
			fmt.Println(yellow("HTTP logging disabled"))
		} else {
			k.log.EnableHTTPLogging()
			fmt.Println(green("HTTP logging enabled"))
		}
	case "l":
		cycleLogLevel(k.log)
	case "s":
		k.standings()
	case "q", "\x03": // Ctrl+C arrives as a byte in raw mode
		fmt.Println(yellow("Shutting down server..."))
		k.quit()
		return false
	case "?":
		printKeyboardHelp()
	}
	return true
}

// readKeys feeds single bytes from r to handleKey until r fails or a key
// asks to stop. Line endings are ignored for line-buffered consoles.
func readKeys(r io.Reader, k keyActions) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		if n == 0 || buf[0] == '\r' || buf[0] == '\n' {
			continue
		}
		if !handleKey(string(buf[0]), k) {
			return
		}
	}
}
