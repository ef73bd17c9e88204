package transfer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/droidlink/droidlink/internal/adb"
	"github.com/droidlink/droidlink/internal/constants"
	"github.com/droidlink/droidlink/internal/diskspace"
	"github.com/droidlink/droidlink/internal/logging"
	"github.com/droidlink/droidlink/internal/remotefs"
	"github.com/droidlink/droidlink/internal/util/sanitize"
)

// ProgressFunc receives (transferredBytes, totalBytes) at each progress tick.
// When the remote size could not be determined, transferred is a raw percent
// and total is the literal value 100.
type ProgressFunc func(transferred, total int64)

// SourceNotFoundError indicates the local file to upload does not exist.
type SourceNotFoundError struct {
	Path string
}

func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("source file not found: %s", e.Path)
}

// percentRe matches the `[ 42%]` markers adb emits on pull -p / push -p
// output lines.
var percentRe = regexp.MustCompile(`\[\s*(\d+)%\]`)

// Engine executes single-file transfers against one device. Safe for
// concurrent use; each transfer is an independent subprocess.
type Engine struct {
	runner   *adb.Runner
	remote   *remotefs.Client
	deviceID string
	queue    *Queue
	log      *logging.Logger

	// Timeout for a single pull/push subprocess.
	Timeout time.Duration
}

// NewEngine creates an engine for the given device. queue may be nil; the
// engine then tracks its async tasks in a private queue with no event bus,
// so DownloadAsync/UploadAsync work either way.
func NewEngine(runner *adb.Runner, remote *remotefs.Client, deviceID string, queue *Queue, log *logging.Logger) *Engine {
	if queue == nil {
		queue = NewQueue(nil)
	}
	return &Engine{
		runner:   runner,
		remote:   remote,
		deviceID: deviceID,
		queue:    queue,
		log:      log,
		Timeout:  constants.TransferTimeout,
	}
}

// Download pulls a remote file to localPath. The remote size is queried
// first; a failed size query is non-fatal and degrades to percent-out-of-100
// progress. Local parent directories are created as needed. On success the
// final callback always reports (total, total).
func (e *Engine) Download(ctx context.Context, remotePath, localPath string, onProgress ProgressFunc) error {
	total, sizeKnown := e.querySize(ctx, remotePath)

	if dir := filepath.Dir(localPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	if sizeKnown {
		if err := diskspace.CheckAvailableSpace(localPath, total, constants.DiskSpaceSafetyMargin); err != nil {
			return err
		}
	}

	stream, err := e.runner.Start(ctx, e.Timeout,
		"-s", e.deviceID, "pull", "-p", remotePath, localPath)
	if err != nil {
		return err
	}

	scanPercentStream(stream.Stdout, total, sizeKnown, onProgress)
	if err := stream.Wait(); err != nil {
		return err
	}

	if onProgress != nil {
		if sizeKnown {
			onProgress(total, total)
		} else {
			onProgress(100, 100)
		}
	}
	return nil
}

// Upload pushes a local file to remotePath. The source must exist; the
// remote parent directory is created first. Progress contract matches
// Download, with the size taken from the local file.
func (e *Engine) Upload(ctx context.Context, localPath, remotePath string, onProgress ProgressFunc) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return &SourceNotFoundError{Path: localPath}
	}
	total := info.Size()

	if parent := sanitize.RemoteParent(remotePath); parent != "" {
		if err := e.remote.MkdirAll(ctx, parent); err != nil {
			return err
		}
	}

	stream, err := e.runner.Start(ctx, e.Timeout,
		"-s", e.deviceID, "push", "-p", localPath, remotePath)
	if err != nil {
		return err
	}

	scanPercentStream(stream.Stdout, total, true, onProgress)
	if err := stream.Wait(); err != nil {
		return err
	}

	if onProgress != nil {
		onProgress(total, total)
	}
	return nil
}

// DownloadAsync runs Download on a worker goroutine, tracked in the queue.
// Progress, completion, and failure are delivered as queue events; a
// cancelled task's terminal event is suppressed by the queue.
func (e *Engine) DownloadAsync(ctx context.Context, remotePath, localPath string) *TransferTask {
	total, sizeKnown := e.querySize(ctx, remotePath)
	if !sizeKnown {
		total = 100
	}

	task := e.queue.Track(TaskTypeDownload, sanitize.RemoteBase(remotePath),
		remotePath, localPath, total, sizeKnown)

	go func() {
		e.queue.Start(task.ID)
		err := e.Download(ctx, remotePath, localPath, func(transferred, _ int64) {
			e.queue.UpdateProgress(task.ID, transferred)
		})
		if err != nil {
			e.queue.Fail(task.ID, err)
			return
		}
		e.queue.Complete(task.ID)
	}()
	return task
}

// UploadAsync runs Upload on a worker goroutine, tracked in the queue.
func (e *Engine) UploadAsync(ctx context.Context, localPath, remotePath string) *TransferTask {
	var total int64
	if info, err := os.Stat(localPath); err == nil {
		total = info.Size()
	}

	task := e.queue.Track(TaskTypeUpload, filepath.Base(localPath),
		localPath, remotePath, total, true)

	go func() {
		e.queue.Start(task.ID)
		err := e.Upload(ctx, localPath, remotePath, func(transferred, _ int64) {
			e.queue.UpdateProgress(task.ID, transferred)
		})
		if err != nil {
			e.queue.Fail(task.ID, err)
			return
		}
		e.queue.Complete(task.ID)
	}()
	return task
}

// Cancel marks a queued task cancelled. Best-effort: the subprocess is not
// killed, only its reporting is suppressed.
func (e *Engine) Cancel(taskID string) bool {
	return e.queue.Cancel(taskID)
}

// querySize fetches the remote file size. Failure is non-fatal: the
// transfer proceeds with unknown-size progress semantics.
func (e *Engine) querySize(ctx context.Context, remotePath string) (int64, bool) {
	size, err := e.remote.FileSize(ctx, remotePath)
	if err != nil {
		if e.log != nil {
			e.log.Debug().Err(err).Str("path", remotePath).Msg("size query failed, using percent progress")
		}
		return 0, false
	}
	return size, true
}

// scanPercentStream reads a pull/push stdout stream line by line, extracting
// `[ NN%]` markers and reporting progress. Reported values never decrease.
// When sizeKnown, transferred = floor(total * percent / 100); otherwise the
// raw percent is reported against a total of 100.
func scanPercentStream(r io.Reader, total int64, sizeKnown bool, onProgress ProgressFunc) {
	if onProgress == nil {
		io.Copy(io.Discard, r)
		return
	}

	var last int64 = -1
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		matches := percentRe.FindAllStringSubmatch(scanner.Text(), -1)
		if len(matches) == 0 {
			continue
		}
		// adb rewrites the progress line in place; when a read contains
		// several markers only the latest matters.
		pct, err := strconv.ParseInt(matches[len(matches)-1][1], 10, 64)
		if err != nil || pct < 0 || pct > 100 {
			continue
		}

		var transferred, reportTotal int64
		if sizeKnown {
			transferred = total * pct / 100
			reportTotal = total
		} else {
			transferred = pct
			reportTotal = 100
		}

		if transferred <= last {
			continue
		}
		last = transferred
		onProgress(transferred, reportTotal)
	}
}
