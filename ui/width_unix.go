//go:build linux || darwin

package ui

import (
	"os"

	"golang.org/x/sys/unix"
)

// Width returns the terminal width of f, or DefaultWidth when f is not a
// terminal.
func Width(f *os.File) int {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return DefaultWidth
	}
	return int(ws.Col)
}
