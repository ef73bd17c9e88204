// Package validation provides input validation for paths and names that
// cross the local/remote boundary.
package validation

import (
	"fmt"
	"strings"

	"github.com/droidlink/droidlink/internal/util/sanitize"
)

// ValidateRemoteName validates a single path component received from the
// remote shell before it is joined into a path. Listing output is untrusted
// text; a crafted name must not be able to escape the directory being listed.
//
// Returns an error if the name:
//   - Is empty
//   - Contains '/' (would splice extra path segments)
//   - Is "." or ".."
//   - Contains null bytes
func ValidateRemoteName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("name contains null byte: %q", name)
	}

	if strings.ContainsRune(name, '/') {
		return fmt.Errorf("name cannot contain path separators: %s", name)
	}

	if name == "." || name == ".." {
		return fmt.Errorf("name cannot be %q", name)
	}

	return nil
}

// IsWithin reports whether candidate is parent itself or a path strictly
// nested under it. Used before any remote move/copy to forbid moving a
// directory into itself or one of its own descendants; the check runs
// before any subprocess is spawned.
//
// Both paths are normalized remote ('/'-separated) paths.
func IsWithin(parent, candidate string) bool {
	p := sanitize.NormalizeRemotePath(parent)
	c := sanitize.NormalizeRemotePath(candidate)

	if p == c {
		return true
	}
	if p == "/" {
		return strings.HasPrefix(c, "/")
	}
	return strings.HasPrefix(c, p+"/")
}
