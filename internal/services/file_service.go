package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/droidlink/droidlink/internal/config"
	"github.com/droidlink/droidlink/internal/events"
	"github.com/droidlink/droidlink/internal/localfs"
	"github.com/droidlink/droidlink/internal/logging"
	"github.com/droidlink/droidlink/internal/remotefs"
	"github.com/droidlink/droidlink/internal/util/sanitize"
	"github.com/droidlink/droidlink/internal/validation"
)

// FileService is the facade the display layer calls: navigation on both
// sides, directory creation, rename, delete, and cross-device copy/move.
// It owns no subprocess details; those live in remotefs and transfer.
type FileService struct {
	session  *Session
	remote   RemoteFS
	engine   Transferrer
	eventBus *events.EventBus
	logger   *logging.Logger

	// ShowHidden controls local listings; remote ls -la always shows all.
	ShowHidden bool
}

// NewFileService composes the facade for one device session.
func NewFileService(session *Session, remote RemoteFS, engine Transferrer, eventBus *events.EventBus, logger *logging.Logger, cfg *config.Config) *FileService {
	fs := &FileService{
		session:  session,
		remote:   remote,
		engine:   engine,
		eventBus: eventBus,
		logger:   logger,
	}
	if cfg != nil {
		fs.ShowHidden = cfg.ShowHidden
	}
	return fs
}

// Session returns the session this facade operates on.
func (fs *FileService) Session() *Session {
	return fs.session
}

// NavigateRemote lists the given remote directory, records it as the current
// remote path, and injects the synthetic ".." entry when not at the root.
// Listing failures surface the error alongside an empty slice so a browser
// can still render.
func (fs *FileService) NavigateRemote(ctx context.Context, dir string) ([]remotefs.Entry, error) {
	dir = sanitize.NormalizeRemotePath(dir)

	entries, err := fs.remote.List(ctx, dir)
	if err != nil {
		fs.logger.Warn().Err(err).Str("path", dir).Msg("remote listing failed")
		entries = nil
	}

	fs.session.SetRemotePath(dir)

	if dir != "/" {
		parent := remotefs.Entry{
			Name:     "..",
			FullPath: sanitize.RemoteParent(dir),
			Kind:     remotefs.KindParent,
		}
		entries = append([]remotefs.Entry{parent}, entries...)
	}
	return entries, err
}

// GoUpRemote navigates to the parent of the current remote directory.
func (fs *FileService) GoUpRemote(ctx context.Context) ([]remotefs.Entry, error) {
	return fs.NavigateRemote(ctx, sanitize.RemoteParent(fs.session.RemotePath()))
}

// EnterRemote navigates into an entry, following symlinks to their final
// directory target first.
func (fs *FileService) EnterRemote(ctx context.Context, entry remotefs.Entry) ([]remotefs.Entry, error) {
	target := entry.FullPath
	if entry.Kind == remotefs.KindLink {
		resolved, err := fs.remote.Resolve(ctx, target)
		if err != nil {
			return nil, err
		}
		if !fs.remote.IsDir(ctx, resolved) {
			return nil, fmt.Errorf("%s is not a directory", resolved)
		}
		target = resolved
	}
	return fs.NavigateRemote(ctx, target)
}

// NavigateLocal lists a local directory, records it as the current local
// path, and injects the synthetic ".." entry when not at a filesystem root.
func (fs *FileService) NavigateLocal(dir string) ([]localfs.Entry, error) {
	dir = filepath.Clean(dir)

	entries, err := localfs.ListDirectory(dir, localfs.ListOptions{IncludeHidden: fs.ShowHidden})
	if err != nil {
		return nil, err
	}

	fs.session.SetLocalPath(dir)

	if parent := filepath.Dir(dir); parent != dir {
		entries = append([]localfs.Entry{{
			Path: parent,
			Name: "..",
			Kind: localfs.KindParent,
		}}, entries...)
	}
	return entries, nil
}

// GoUpLocal navigates to the parent of the current local directory.
func (fs *FileService) GoUpLocal() ([]localfs.Entry, error) {
	return fs.NavigateLocal(filepath.Dir(fs.session.LocalPath()))
}

// CreateDirectory creates a directory on the chosen side, including parents.
func (fs *FileService) CreateDirectory(ctx context.Context, side Side, path string) error {
	switch side {
	case SideRemote:
		return fs.remote.MkdirAll(ctx, sanitize.NormalizeRemotePath(path))
	case SideLocal:
		return os.MkdirAll(path, 0o755)
	default:
		return fmt.Errorf("unknown side %q", side)
	}
}

// Rename renames a file or directory on the chosen side.
func (fs *FileService) Rename(ctx context.Context, side Side, oldPath, newPath string) error {
	switch side {
	case SideRemote:
		return fs.remote.Move(ctx,
			sanitize.NormalizeRemotePath(oldPath),
			sanitize.NormalizeRemotePath(newPath))
	case SideLocal:
		return os.Rename(oldPath, newPath)
	default:
		return fmt.Errorf("unknown side %q", side)
	}
}

// Delete removes a file or directory tree on the chosen side.
func (fs *FileService) Delete(ctx context.Context, side Side, path string) error {
	switch side {
	case SideRemote:
		return fs.remote.Remove(ctx, sanitize.NormalizeRemotePath(path))
	case SideLocal:
		return os.RemoveAll(path)
	default:
		return fmt.Errorf("unknown side %q", side)
	}
}

// Download pulls a remote file into localDir, sanitizing the filename for
// the host OS.
func (fs *FileService) Download(ctx context.Context, remotePath, localDir string, onProgress func(transferred, total int64)) error {
	name := sanitize.Filename(sanitize.RemoteBase(remotePath))
	return fs.engine.Download(ctx, remotePath, filepath.Join(localDir, name), onProgress)
}

// Upload pushes a local file into remoteDir under its own basename.
func (fs *FileService) Upload(ctx context.Context, localPath, remoteDir string, onProgress func(transferred, total int64)) error {
	dest := sanitize.JoinRemote(remoteDir, filepath.Base(localPath))
	return fs.engine.Upload(ctx, localPath, dest, onProgress)
}

// MoveRemoteToRemote moves src into the destination directory. Rejected with
// a DestinationConflictError before any subprocess runs when the destination
// lies inside src; moving into the directory src already lives in is a
// silent no-op.
func (fs *FileService) MoveRemoteToRemote(ctx context.Context, src, dstDir string) error {
	src = sanitize.NormalizeRemotePath(src)
	dstDir = sanitize.NormalizeRemotePath(dstDir)

	if validation.IsWithin(src, dstDir) {
		return &DestinationConflictError{Source: src, Dest: dstDir}
	}
	if sanitize.RemoteParent(src) == dstDir {
		// Already there; `mv X X` would only produce a device error.
		return nil
	}

	return fs.remote.Move(ctx, src, sanitize.JoinRemote(dstDir, sanitize.RemoteBase(src)))
}

// CopyRemoteToRemote copies src into the destination directory. adb has no
// server-side copy, so this pulls to a host tempdir and pushes back. The
// into-self and same-directory rules match MoveRemoteToRemote: a
// same-directory copy is skipped before any staging happens.
func (fs *FileService) CopyRemoteToRemote(ctx context.Context, src, dstDir string) error {
	src = sanitize.NormalizeRemotePath(src)
	dstDir = sanitize.NormalizeRemotePath(dstDir)

	if validation.IsWithin(src, dstDir) {
		return &DestinationConflictError{Source: src, Dest: dstDir}
	}
	if sanitize.RemoteParent(src) == dstDir {
		return nil
	}

	tmpDir, err := os.MkdirTemp("", "droidlink-copy-")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	base := sanitize.RemoteBase(src)
	staged := filepath.Join(tmpDir, sanitize.Filename(base))

	if err := fs.engine.Download(ctx, src, staged, nil); err != nil {
		return fmt.Errorf("staging %s: %w", src, err)
	}
	if err := fs.engine.Upload(ctx, staged, sanitize.JoinRemote(dstDir, base), nil); err != nil {
		return fmt.Errorf("pushing to %s: %w", dstDir, err)
	}
	return nil
}
