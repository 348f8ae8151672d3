//go:build !windows

package main

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// disableCtrlCEcho clears ECHOCTL on stdin so an interrupt during a browser run doesn't
// print "^C" into the middle of the log output. The returned func restores the terminal.
func disableCtrlCEcho() func() {
	fd := int(os.Stdin.Fd()) //nolint:gosec // fd fits int
	if !term.IsTerminal(fd) {
		return func() {}
	}

	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return func() {}
	}
	saved := *termios
	termios.Lflag &^= unix.ECHOCTL
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, termios); err != nil {
		return func() {}
	}
	return func() {
		_ = unix.IoctlSetTermios(fd, ioctlWriteTermios, &saved)
	}
}
