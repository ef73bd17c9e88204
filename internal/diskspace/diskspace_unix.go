//go:build !windows

package diskspace

import (
	"path/filepath"
	"syscall"
)

// CheckAvailableSpace checks if there is sufficient disk space for a file
// operation on the filesystem where targetPath will be created.
// safetyMargin is a multiplier over requiredBytes (e.g. 1.05 for 5% buffer).
// Returns an *InsufficientSpaceError when there is not enough space.
func CheckAvailableSpace(targetPath string, requiredBytes int64, safetyMargin float64) error {
	return checkAgainstAvailable(targetPath, requiredBytes, GetAvailableSpace(targetPath), safetyMargin)
}

// GetAvailableSpace returns the available space in bytes for the filesystem
// containing the given path. Returns 0 if unable to determine.
func GetAvailableSpace(path string) int64 {
	dir := filepath.Dir(path)

	var stat syscall.Statfs_t
	if err := syscall.Statfs(dir, &stat); err != nil {
		return 0
	}

	// Bavail = blocks available to unprivileged users
	return int64(stat.Bavail) * int64(stat.Bsize)
}
