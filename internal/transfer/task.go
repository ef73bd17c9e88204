// Package transfer moves single files between the device and the host via
// `adb pull -p` / `adb push -p`, reporting progress parsed from the tool's
// streaming output. The queue tracks task state and publishes events;
// execution belongs to the Engine.
package transfer

import (
	"fmt"
	"sync"
	"time"
)

// TaskType indicates whether a task is an upload or download.
type TaskType string

const (
	TaskTypeUpload   TaskType = "upload"
	TaskTypeDownload TaskType = "download"
)

// TaskState represents the current state of a transfer task.
type TaskState string

const (
	TaskQueued    TaskState = "queued"    // Registered, not yet transferring
	TaskRunning   TaskState = "running"   // Subprocess launched
	TaskCompleted TaskState = "completed" // Finished successfully
	TaskFailed    TaskState = "failed"    // Finished with error
	TaskCancelled TaskState = "cancelled" // Cancelled by user (bookkeeping only)
)

// TransferTask is a single upload or download tracked by the queue.
// Thread-safe: use the provided methods to read and update state.
type TransferTask struct {
	ID   string
	Type TaskType

	Name   string // Display name (filename)
	Source string // Remote path (download) or local path (upload)
	Dest   string // Local path (download) or remote path (upload)

	// TotalBytes is the expected size. When SizeKnown is false the size
	// query failed and TotalBytes holds the literal value 100, so Bytes is
	// a raw percentage rather than a byte count.
	TotalBytes int64
	SizeKnown  bool

	Bytes int64     // Bytes transferred so far (or percent when !SizeKnown)
	State TaskState
	Speed float64 // bytes/sec, EMA smoothed
	Error error

	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	// Speed calculation internals
	lastBytes      int64
	lastUpdateTime time.Time

	mu sync.RWMutex
}

// NewTransferTask creates a task in TaskQueued state.
func NewTransferTask(taskType TaskType, name, source, dest string, totalBytes int64, sizeKnown bool) *TransferTask {
	return &TransferTask{
		ID:         generateTaskID(),
		Type:       taskType,
		Name:       name,
		Source:     source,
		Dest:       dest,
		TotalBytes: totalBytes,
		SizeKnown:  sizeKnown,
		State:      TaskQueued,
		CreatedAt:  time.Now(),
	}
}

// GetState returns the current state (thread-safe).
func (t *TransferTask) GetState() TaskState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.State
}

// GetError returns the error if any (thread-safe).
func (t *TransferTask) GetError() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Error
}

// Progress returns completion in [0,1]. Zero total reports 0.
func (t *TransferTask) Progress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progressLocked()
}

func (t *TransferTask) progressLocked() float64 {
	if t.TotalBytes <= 0 {
		return 0
	}
	p := float64(t.Bytes) / float64(t.TotalBytes)
	if p > 1 {
		p = 1
	}
	return p
}

// updateBytes records transferred bytes and refreshes the EMA speed.
// Backwards jumps are ignored; progress only moves forward.
func (t *TransferTask) updateBytes(bytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if bytes < t.Bytes {
		return
	}
	t.Bytes = bytes

	now := time.Now()
	if t.lastBytes == 0 && bytes > 0 {
		t.lastBytes = bytes
		t.lastUpdateTime = now
		return
	}

	// Need a previous sample and at least 100ms between updates for a
	// meaningful instantaneous rate.
	if t.lastBytes > 0 && bytes > t.lastBytes {
		elapsed := now.Sub(t.lastUpdateTime).Seconds()
		if elapsed > 0.1 {
			instantRate := float64(bytes-t.lastBytes) / elapsed

			const speedSmoothingAlpha = 0.25
			if t.Speed > 0 {
				t.Speed = speedSmoothingAlpha*instantRate + (1-speedSmoothingAlpha)*t.Speed
			} else {
				t.Speed = instantRate
			}

			t.lastBytes = bytes
			t.lastUpdateTime = now
		}
	}
}

// GetSpeed returns current transfer speed in bytes/sec (thread-safe).
func (t *TransferTask) GetSpeed() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.Speed
}

// Clone returns a snapshot copy of the task for safe external use.
func (t *TransferTask) Clone() TransferTask {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return TransferTask{
		ID:          t.ID,
		Type:        t.Type,
		Name:        t.Name,
		Source:      t.Source,
		Dest:        t.Dest,
		TotalBytes:  t.TotalBytes,
		SizeKnown:   t.SizeKnown,
		Bytes:       t.Bytes,
		State:       t.State,
		Speed:       t.Speed,
		Error:       t.Error,
		CreatedAt:   t.CreatedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}

// IsTerminal reports whether the task reached a final state.
func (t *TransferTask) IsTerminal() bool {
	state := t.GetState()
	return state == TaskCompleted || state == TaskFailed || state == TaskCancelled
}

var (
	taskCounter uint64
	taskMu      sync.Mutex
)

func generateTaskID() string {
	taskMu.Lock()
	defer taskMu.Unlock()
	taskCounter++
	return fmt.Sprintf("task-%d-%d", time.Now().UnixNano(), taskCounter)
}
