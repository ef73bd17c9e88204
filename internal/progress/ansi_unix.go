//go:build !windows

package progress

import "os"

// enableWindowsANSI is a no-op on Unix; ANSI sequences work natively.
func enableWindowsANSI(f *os.File) {}
