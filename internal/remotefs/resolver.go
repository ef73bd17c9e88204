package remotefs

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/droidlink/droidlink/internal/constants"
	"github.com/droidlink/droidlink/internal/util/sanitize"
)

// ErrTooManyLinks indicates a symlink chain exceeded the hop cap — in
// practice, a cycle.
var ErrTooManyLinks = errors.New("too many levels of symbolic links")

// ErrUnresolvableTarget indicates readlink produced no target — a broken
// link, distinct from a cycle.
var ErrUnresolvableTarget = errors.New("could not read link target")

// LinkReader is the slice of the remote client the resolver needs.
type LinkReader interface {
	// IsLink reports whether path is a symbolic link.
	IsLink(ctx context.Context, path string) bool

	// ReadLink returns the link's target text. An empty target or an
	// error means the target is unavailable.
	ReadLink(ctx context.Context, path string) (string, error)
}

// ResolveLink follows a symlink chain to its final non-link target.
//
// A non-link path is returned unchanged. Relative targets are joined
// against the directory of the current link — not the working directory —
// and normalized. Iteration is capped at MaxLinkHops; exceeding it yields
// ErrTooManyLinks so a cycle can be reported distinctly from a broken link
// (ErrUnresolvableTarget).
func ResolveLink(ctx context.Context, lr LinkReader, p string) (string, error) {
	current := sanitize.NormalizeRemotePath(p)

	for hop := 0; hop < constants.MaxLinkHops; hop++ {
		if !lr.IsLink(ctx, current) {
			return current, nil
		}

		target, err := lr.ReadLink(ctx, current)
		if err != nil || target == "" {
			return "", fmt.Errorf("%w: %s", ErrUnresolvableTarget, current)
		}

		if !path.IsAbs(target) {
			target = path.Join(path.Dir(current), target)
		}
		current = path.Clean(target)
	}

	return "", fmt.Errorf("%w: %s", ErrTooManyLinks, p)
}
