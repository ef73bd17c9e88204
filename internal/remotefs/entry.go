// Package remotefs lists and manipulates the Android device filesystem
// through adb shell commands.
//
// The remote shell's `ls -la` output is a black-box text format that varies
// by device and OS build; parsing is defensive and line-oriented, never
// assuming a fixed column layout.
package remotefs

import "strings"

// Kind classifies a directory entry.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	KindLink      Kind = "link"
	// KindParent marks the synthetic "go up one level" entry injected by
	// the services layer; it never comes out of a raw listing.
	KindParent Kind = "parent"
)

// Entry is one parsed line of a remote directory listing. Entries are
// produced fresh on every listing and never mutated; a refresh replaces the
// whole set.
type Entry struct {
	Name     string
	FullPath string
	Kind     Kind

	// SizeBytes is valid only when SizeKnown; some devices print
	// non-numeric size fields (e.g. major,minor for device nodes).
	SizeBytes uint64
	SizeKnown bool
	RawSize   string

	// ModTime is the raw date/time text as printed by the device; the
	// format varies between builds so no parsing into time.Time is
	// attempted here.
	ModTime string

	Permissions string
	Owner       string
	Group       string
}

// KindFromPermissions derives the entry kind from the leading character of
// the permissions field: 'd' directory, 'l' symlink, anything else a file.
func KindFromPermissions(perms string) Kind {
	switch {
	case strings.HasPrefix(perms, "d"):
		return KindDirectory
	case strings.HasPrefix(perms, "l"):
		return KindLink
	default:
		return KindFile
	}
}
