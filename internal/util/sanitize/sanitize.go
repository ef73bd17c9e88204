// Package sanitize provides filename and remote-path sanitization.
//
// Remote paths are always '/'-separated regardless of host OS; everything
// that embeds a remote path into an adb shell command must route it through
// QuoteShell so spaces and shell metacharacters survive the trip.
package sanitize

import (
	"regexp"
	"strings"
)

// UnnamedFile is substituted when sanitization leaves nothing usable.
const UnnamedFile = "unnamed_file"

var (
	// Characters illegal on at least one target OS (Windows being the strictest).
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*]`)

	repeatedUnderscores = regexp.MustCompile(`_+`)

	duplicateSlashes = regexp.MustCompile(`/+`)
)

// Filename replaces characters that are illegal on at least one target OS
// with '_', collapses runs of '_', and trims leading/trailing '_' and
// spaces. An empty or fully-illegal input yields UnnamedFile.
//
// Filename is idempotent: Filename(Filename(x)) == Filename(x).
func Filename(name string) string {
	s := illegalChars.ReplaceAllString(name, "_")
	s = repeatedUnderscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_ ")
	if s == "" {
		return UnnamedFile
	}
	return s
}

// NormalizeRemotePath collapses duplicate separators in a device path.
// Case is never altered; remote filesystems are case-sensitive.
func NormalizeRemotePath(path string) string {
	if path == "" {
		return "/"
	}
	s := duplicateSlashes.ReplaceAllString(path, "/")
	if len(s) > 1 {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

// JoinRemote joins device path segments with '/', collapsing duplicate
// separators. Always '/'-separated; never uses filepath.Join, which would
// produce backslashes on Windows hosts.
func JoinRemote(segments ...string) string {
	return NormalizeRemotePath(strings.Join(segments, "/"))
}

// RemoteParent returns the parent directory of a device path.
// The parent of "/" is "/".
func RemoteParent(path string) string {
	p := NormalizeRemotePath(path)
	if p == "/" {
		return "/"
	}
	idx := strings.LastIndex(p, "/")
	if idx <= 0 {
		return "/"
	}
	return p[:idx]
}

// RemoteBase returns the final segment of a device path.
func RemoteBase(path string) string {
	p := NormalizeRemotePath(path)
	if p == "/" {
		return "/"
	}
	return p[strings.LastIndex(p, "/")+1:]
}

// QuoteShell wraps a remote path in single quotes for embedding in an adb
// shell command line. Embedded single quotes are closed, escaped, and
// reopened ('\'' idiom) so the result is safe under any POSIX shell.
func QuoteShell(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}
