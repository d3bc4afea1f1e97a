//go:build darwin
// +build darwin

package main

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// startKeyboard puts the terminal in raw mode and reads single keys in the
// background. The returned func restores the terminal.
func startKeyboard(k keyActions) (restore func()) {
	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TIOCGETA)
	if err != nil {
		// Not a terminal
		return func() {}
	}

	// Disable canonical mode and echo so keys arrive without Enter.
	// Output processing stays on so \n still works.
	newState := *oldState
	newState.Lflag &^= unix.ICANON | unix.ECHO
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TIOCSETA, &newState); err != nil {
		return func() {}
	}

	var once sync.Once
	restore = func() {
		once.Do(func() { unix.IoctlSetTermios(fd, unix.TIOCSETA, oldState) })
	}
	go func() {
		defer restore()
		readKeys(os.Stdin, k)
	}()
	return restore
}
