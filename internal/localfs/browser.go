// Package localfs provides the local side of the dual browser: directory
// listing and hidden-file filtering with behavior consistent across CLI and
// GUI frontends.
package localfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Kind classifies a local entry. Mirrors the remote entry kinds minus Link:
// local symlinks are surfaced however the host OS resolves them.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	// KindParent marks the synthetic "go up one level" entry injected by
	// the services layer.
	KindParent Kind = "parent"
)

// Entry represents a file or directory in the local filesystem.
type Entry struct {
	Path    string      // Full path to the file
	Name    string      // Base name of the file
	Kind    Kind        // File or directory
	Size    int64       // Size in bytes (0 for directories)
	ModTime time.Time   // Last modification time
	Mode    fs.FileMode // File mode/permissions
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// ListDirectory returns the contents of a directory, filtered by options.
// Entries come back in the filesystem's native order; callers wanting a
// display order sort explicitly.
func ListDirectory(path string, opts ListOptions) ([]Entry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	result := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()

		if !opts.IncludeHidden && IsHiddenName(name) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Entry disappeared or is unreadable; skip it
			continue
		}

		kind := KindFile
		if entry.IsDir() {
			kind = KindDirectory
		}

		result = append(result, Entry{
			Path:    filepath.Join(path, name),
			Name:    name,
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		})
	}

	return result, nil
}

// WalkFunc is the callback signature for Walk.
// Return filepath.SkipDir to skip a directory, or any other error to stop.
type WalkFunc func(entry Entry) error

// Walk traverses a directory tree depth-first, calling fn for each file and
// directory, honoring the hidden-item options.
func Walk(root string, opts WalkOptions, fn WalkFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Inaccessible path; skip
		}

		name := d.Name()

		if !opts.IncludeHidden && IsHiddenName(name) {
			if d.IsDir() && opts.SkipHiddenDirs {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		kind := KindFile
		if d.IsDir() {
			kind = KindDirectory
		}

		return fn(Entry{
			Path:    path,
			Name:    name,
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Mode:    info.Mode(),
		})
	})
}

// WalkFiles is a convenience wrapper around Walk that only visits regular
// files, used when collecting files for a recursive upload.
func WalkFiles(root string, opts WalkOptions, fn WalkFunc) error {
	return Walk(root, opts, func(entry Entry) error {
		if entry.IsDir() {
			return nil
		}
		return fn(entry)
	})
}
