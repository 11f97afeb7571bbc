//go:build !linux && !darwin

package ui

import "os"

// Width returns DefaultWidth; terminal size is not queried on this platform.
func Width(f *os.File) int {
	return DefaultWidth
}
