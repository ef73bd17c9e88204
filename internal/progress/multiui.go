package progress

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// MultiUI manages progress bars for a batch of concurrent transfers using
// mpb. On a non-terminal it degrades to plain per-file lines.
type MultiUI struct {
	progress   *mpb.Progress
	isTerminal bool
	totalFiles int
	completed  int32
}

// TransferBar is a single file's bar within a MultiUI.
type TransferBar struct {
	bar        *mpb.Bar
	ui         *MultiUI
	index      int
	name       string
	dest       string
	size       int64
	startTime  time.Time
	lastUpdate time.Time
	lastBytes  int64
}

// NewMultiUI creates a batch UI for the given number of transfers.
func NewMultiUI(totalFiles int) *MultiUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))

	var p *mpb.Progress
	if isTerminal {
		enableWindowsANSI(os.Stderr)

		p = mpb.New(
			mpb.WithOutput(os.Stderr),
			mpb.WithRefreshRate(300*time.Millisecond),
			mpb.WithWidth(80),
		)
	} else {
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &MultiUI{
		progress:   p,
		isTerminal: isTerminal,
		totalFiles: totalFiles,
	}
}

// AddBar creates a bar for one transfer. name is the device-side path,
// dest the host-side destination.
func (u *MultiUI) AddBar(index int, name, dest string, size int64) *TransferBar {
	tb := &TransferBar{
		ui:         u,
		index:      index,
		name:       name,
		dest:       dest,
		size:       size,
		startTime:  time.Now(),
		lastUpdate: time.Now(),
	}

	if u.isTerminal {
		tb.bar = u.progress.New(size,
			mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
			mpb.PrependDecorators(
				decor.Name(fmt.Sprintf("[%d/%d] %s", index, u.totalFiles, truncatePath(dest, 2)), decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersKibiByte("% .1f / % .1f", decor.WCSyncSpace),
				decor.Name("  "),
				decor.Percentage(decor.WCSyncSpace),
				decor.Name("  "),
				decor.EwmaSpeed(decor.SizeB1024(0), "% .1f", 60, decor.WCSyncSpace),
			),
			mpb.BarRemoveOnComplete(),
		)
	} else {
		fmt.Fprintf(os.Stderr, "Transferring [%d/%d]: %s (%s)\n",
			index, u.totalFiles, tb.name, FormatSize(size))
	}

	return tb
}

// Update moves the bar to the current byte position. Throttled to keep the
// EWMA speed estimate meaningful.
func (t *TransferBar) Update(current int64) {
	if t.bar == nil {
		return
	}

	now := time.Now()
	elapsed := now.Sub(t.lastUpdate)

	const updateInterval = 300 * time.Millisecond
	if elapsed >= updateInterval {
		t.bar.EwmaIncrBy(int(current-t.lastBytes), elapsed)
		t.lastBytes = current
		t.lastUpdate = now
	}
}

// Complete finishes the bar and prints a one-line summary above the bars.
func (t *TransferBar) Complete(err error) {
	elapsed := time.Since(t.startTime)

	var msg string
	if err == nil {
		if t.bar != nil {
			t.bar.SetCurrent(t.size)
			t.bar.SetTotal(t.size, true)
		}
		speed := float64(t.size) / elapsed.Seconds() / (1024 * 1024)
		msg = fmt.Sprintf("✓ %s → %s (%s, %s, %.1f MiB/s)\n",
			t.name, truncatePath(t.dest, 2),
			FormatSize(t.size), elapsed.Round(time.Second), speed)
	} else {
		if t.bar != nil {
			t.bar.Abort(false)
		}
		msg = fmt.Sprintf("✗ %s: %v\n", t.name, err)
	}

	if t.ui.isTerminal && t.ui.progress != nil {
		t.ui.progress.Write([]byte(msg))
	} else {
		fmt.Fprint(os.Stderr, msg)
	}

	atomic.AddInt32(&t.ui.completed, 1)
}

// Wait blocks until all bars complete.
func (u *MultiUI) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}

// LogWriter returns a writer that safely prints above the bars.
func (u *MultiUI) LogWriter() io.Writer {
	if u.progress != nil && u.isTerminal {
		return u.progress
	}
	return os.Stderr
}

// Completed returns the number of finished transfers.
func (u *MultiUI) Completed() int {
	return int(atomic.LoadInt32(&u.completed))
}

// IsTerminal reports whether bars are actually rendering.
func (u *MultiUI) IsTerminal() bool {
	return u.isTerminal
}

// truncatePath shortens a path to its last maxComponents segments for
// display.
func truncatePath(path string, maxComponents int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= maxComponents {
		return filepath.Base(path)
	}
	relevant := parts[len(parts)-maxComponents:]
	return "…/" + strings.Join(relevant, "/")
}
