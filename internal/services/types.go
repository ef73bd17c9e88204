// Package services provides frontend-agnostic business logic for DroidLink.
// This layer sits between any display surface (CLI today, GUI tomorrow) and
// the adb-backed core, so frontends never touch subprocess plumbing directly.
package services

import (
	"context"
	"fmt"

	"github.com/droidlink/droidlink/internal/remotefs"
	"github.com/droidlink/droidlink/internal/transfer"
)

// Side selects which filesystem an operation targets.
type Side string

const (
	SideLocal  Side = "local"
	SideRemote Side = "remote"
)

// DestinationConflictError indicates a move or copy whose destination lies
// inside the source tree. Always raised before any subprocess is spawned.
type DestinationConflictError struct {
	Source string
	Dest   string
}

func (e *DestinationConflictError) Error() string {
	return fmt.Sprintf("cannot move or copy %s into itself or its descendant %s", e.Source, e.Dest)
}

// RemoteFS is the device-filesystem surface the facade needs. Implemented by
// *remotefs.Client; narrowed here so tests can substitute fakes.
type RemoteFS interface {
	List(ctx context.Context, dir string) ([]remotefs.Entry, error)
	IsDir(ctx context.Context, path string) bool
	Resolve(ctx context.Context, path string) (string, error)
	MkdirAll(ctx context.Context, path string) error
	Move(ctx context.Context, oldPath, newPath string) error
	Remove(ctx context.Context, path string) error
}

// Transferrer executes single transfers. Implemented by *transfer.Engine.
type Transferrer interface {
	Download(ctx context.Context, remotePath, localPath string, onProgress transfer.ProgressFunc) error
	Upload(ctx context.Context, localPath, remotePath string, onProgress transfer.ProgressFunc) error
}
