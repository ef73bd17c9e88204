//go:build windows

package diskspace

import (
	"path/filepath"

	"golang.org/x/sys/windows"
)

// CheckAvailableSpace checks if there is sufficient disk space for a file
// operation on the volume where targetPath will be created.
// safetyMargin is a multiplier over requiredBytes (e.g. 1.05 for 5% buffer).
// Returns an *InsufficientSpaceError when there is not enough space.
func CheckAvailableSpace(targetPath string, requiredBytes int64, safetyMargin float64) error {
	return checkAgainstAvailable(targetPath, requiredBytes, GetAvailableSpace(targetPath), safetyMargin)
}

// GetAvailableSpace returns the available space in bytes for the volume
// containing the given path. Returns 0 if unable to determine.
func GetAvailableSpace(path string) int64 {
	dir := filepath.Dir(path)

	dirPtr, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return 0
	}

	var freeBytesAvailable, totalBytes, totalFreeBytes uint64
	if err := windows.GetDiskFreeSpaceEx(dirPtr, &freeBytesAvailable, &totalBytes, &totalFreeBytes); err != nil {
		return 0
	}

	return int64(freeBytesAvailable)
}
