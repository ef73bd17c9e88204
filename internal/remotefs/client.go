package remotefs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/droidlink/droidlink/internal/adb"
	"github.com/droidlink/droidlink/internal/constants"
	"github.com/droidlink/droidlink/internal/logging"
	"github.com/droidlink/droidlink/internal/util/sanitize"
)

// Client issues filesystem commands against a single device. Queries fail
// soft (empty/default results); mutations fail loud with the device's own
// error text.
type Client struct {
	runner   *adb.Runner
	deviceID string
	log      *logging.Logger
}

// NewClient creates a client bound to the given device id.
func NewClient(runner *adb.Runner, deviceID string, log *logging.Logger) *Client {
	return &Client{runner: runner, deviceID: deviceID, log: log}
}

// DeviceID returns the device this client operates on.
func (c *Client) DeviceID() string {
	return c.deviceID
}

// List returns the entries of a remote directory. On subprocess failure it
// returns an empty slice plus the diagnostic; callers render the empty
// listing and surface the message.
func (c *Client) List(ctx context.Context, dir string) ([]Entry, error) {
	dir = sanitize.NormalizeRemotePath(dir)
	res, err := c.runner.Shell(ctx, constants.ListTimeout, c.deviceID,
		"ls", "-la", sanitize.QuoteShell(dir))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	return ParseListing(res.Stdout, dir, c.log), nil
}

// FileSize queries a remote file's size in bytes via `stat -c %s`.
func (c *Client) FileSize(ctx context.Context, path string) (int64, error) {
	res, err := c.runner.Shell(ctx, constants.MetadataTimeout, c.deviceID,
		"stat", "-c", "%s", sanitize.QuoteShell(path))
	if err != nil {
		return 0, fmt.Errorf("size query for %s: %w", path, err)
	}

	size, err := strconv.ParseInt(strings.TrimSpace(res.Stdout), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("size query for %s: unparseable stat output %q", path, strings.TrimSpace(res.Stdout))
	}
	return size, nil
}

// IsDir reports whether path is a directory (`test -d`). Any failure,
// including timeout, reads as false.
func (c *Client) IsDir(ctx context.Context, path string) bool {
	_, err := c.runner.Shell(ctx, constants.MetadataTimeout, c.deviceID,
		"test", "-d", sanitize.QuoteShell(path))
	return err == nil
}

// IsLink reports whether path is a symbolic link (`test -L`).
func (c *Client) IsLink(ctx context.Context, path string) bool {
	_, err := c.runner.Shell(ctx, constants.MetadataTimeout, c.deviceID,
		"test", "-L", sanitize.QuoteShell(path))
	return err == nil
}

// Exists reports whether path exists at all (`test -e`).
func (c *Client) Exists(ctx context.Context, path string) bool {
	_, err := c.runner.Shell(ctx, constants.MetadataTimeout, c.deviceID,
		"test", "-e", sanitize.QuoteShell(path))
	return err == nil
}

// ReadLink returns the target text of a symbolic link.
func (c *Client) ReadLink(ctx context.Context, path string) (string, error) {
	res, err := c.runner.Shell(ctx, constants.MetadataTimeout, c.deviceID,
		"readlink", sanitize.QuoteShell(path))
	if err != nil {
		return "", fmt.Errorf("readlink %s: %w", path, err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Resolve follows symlinks from path to a final non-link target.
func (c *Client) Resolve(ctx context.Context, path string) (string, error) {
	return ResolveLink(ctx, c, path)
}

// MkdirAll creates a remote directory and any missing parents.
func (c *Client) MkdirAll(ctx context.Context, path string) error {
	_, err := c.runner.Shell(ctx, constants.MutateTimeout, c.deviceID,
		"mkdir", "-p", sanitize.QuoteShell(path))
	if err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// Move renames a remote file or directory.
func (c *Client) Move(ctx context.Context, oldPath, newPath string) error {
	_, err := c.runner.Shell(ctx, constants.MutateTimeout, c.deviceID,
		"mv", sanitize.QuoteShell(oldPath), sanitize.QuoteShell(newPath))
	if err != nil {
		return fmt.Errorf("move %s to %s: %w", oldPath, newPath, err)
	}
	return nil
}

// Remove deletes a remote file or directory tree (`rm -rf`).
func (c *Client) Remove(ctx context.Context, path string) error {
	_, err := c.runner.Shell(ctx, constants.MutateTimeout, c.deviceID,
		"rm", "-rf", sanitize.QuoteShell(path))
	if err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
