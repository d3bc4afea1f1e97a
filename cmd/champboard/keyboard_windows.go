//go:build windows
// +build windows

package main

import (
	"os"
)

// startKeyboard reads keys on Windows. The console stays line-buffered,
// so each key needs Enter and there is nothing to restore.
func startKeyboard(k keyActions) (restore func()) {
	go readKeys(os.Stdin, k)
	return func() {}
}
