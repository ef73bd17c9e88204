package transfer

import (
	"sync"
	"time"

	"github.com/droidlink/droidlink/internal/events"
)

// QueueStats holds per-state task counts.
type QueueStats struct {
	Queued    int
	Running   int
	Completed int
	Failed    int
	Cancelled int
}

// Total returns total number of tasks in the queue.
func (s QueueStats) Total() int {
	return s.Queued + s.Running + s.Completed + s.Failed + s.Cancelled
}

// Queue is a passive transfer tracker that publishes events for display
// layers. It does not execute transfers; the Engine registers tasks here and
// reports progress and completion.
//
// Cancellation is bookkeeping only: an in-flight adb subprocess is not
// killed (aborting a push mid-write leaves a truncated file on the device),
// but a cancelled task's completion is suppressed.
type Queue struct {
	tasks     []*TransferTask
	tasksByID map[string]*TransferTask
	mu        sync.RWMutex

	eventBus *events.EventBus
}

// NewQueue creates a queue publishing to the given event bus (may be nil).
func NewQueue(eventBus *events.EventBus) *Queue {
	return &Queue{
		tasks:     make([]*TransferTask, 0),
		tasksByID: make(map[string]*TransferTask),
		eventBus:  eventBus,
	}
}

// Track registers a new transfer that will be executed elsewhere.
// The task starts in TaskQueued state.
func (q *Queue) Track(taskType TaskType, name, source, dest string, totalBytes int64, sizeKnown bool) *TransferTask {
	task := NewTransferTask(taskType, name, source, dest, totalBytes, sizeKnown)

	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.tasksByID[task.ID] = task
	q.mu.Unlock()

	q.publishTransferEvent(events.EventTransferQueued, task)
	return task
}

// Start marks a queued task as running. Idempotent for other states.
func (q *Queue) Start(taskID string) {
	q.mu.RLock()
	task := q.tasksByID[taskID]
	q.mu.RUnlock()
	if task == nil {
		return
	}

	started := false
	task.mu.Lock()
	if task.State == TaskQueued {
		task.State = TaskRunning
		task.StartedAt = time.Now()
		started = true
	}
	task.mu.Unlock()

	if started {
		q.publishTransferEvent(events.EventTransferStarted, task)
	}
}

// UpdateProgress records transferred bytes for a task and publishes a
// progress event. Backwards updates are dropped by the task itself.
func (q *Queue) UpdateProgress(taskID string, bytes int64) {
	q.mu.RLock()
	task := q.tasksByID[taskID]
	q.mu.RUnlock()
	if task == nil {
		return
	}

	task.updateBytes(bytes)
	q.publishTransferEvent(events.EventTransferProgress, task)
}

// Complete marks a task as successfully completed. A cancelled task stays
// cancelled: the transfer may well have finished on disk, but the user asked
// not to hear about it.
func (q *Queue) Complete(taskID string) {
	q.mu.RLock()
	task := q.tasksByID[taskID]
	q.mu.RUnlock()
	if task == nil {
		return
	}

	completed := false
	task.mu.Lock()
	if task.State != TaskCancelled {
		task.State = TaskCompleted
		task.Bytes = task.TotalBytes
		task.CompletedAt = time.Now()
		completed = true
	}
	task.mu.Unlock()

	if completed {
		q.publishTransferEvent(events.EventTransferCompleted, task)
	}
}

// Fail marks a task as failed with an error. Cancelled tasks stay cancelled.
func (q *Queue) Fail(taskID string, err error) {
	q.mu.RLock()
	task := q.tasksByID[taskID]
	q.mu.RUnlock()
	if task == nil {
		return
	}

	failed := false
	task.mu.Lock()
	if task.State != TaskCancelled {
		task.State = TaskFailed
		task.Error = err
		task.CompletedAt = time.Now()
		failed = true
	}
	task.mu.Unlock()

	if failed {
		q.publishTransferEvent(events.EventTransferFailed, task)
	}
}

// Cancel marks a non-terminal task as cancelled. Returns false when the
// task does not exist or already reached a terminal state. The subprocess,
// if any, runs to completion; only its reporting is suppressed.
func (q *Queue) Cancel(taskID string) bool {
	q.mu.RLock()
	task := q.tasksByID[taskID]
	q.mu.RUnlock()
	if task == nil {
		return false
	}

	task.mu.Lock()
	if task.State == TaskCompleted || task.State == TaskFailed || task.State == TaskCancelled {
		task.mu.Unlock()
		return false
	}
	task.State = TaskCancelled
	task.CompletedAt = time.Now()
	task.mu.Unlock()

	q.publishTransferEvent(events.EventTransferCancelled, task)
	return true
}

// CancelAll cancels every queued or running task.
func (q *Queue) CancelAll() {
	q.mu.RLock()
	ids := make([]string, 0, len(q.tasks))
	for _, task := range q.tasks {
		ids = append(ids, task.ID)
	}
	q.mu.RUnlock()

	for _, id := range ids {
		q.Cancel(id)
	}
}

// ClearCompleted removes all terminal tasks from the queue.
func (q *Queue) ClearCompleted() {
	q.mu.Lock()
	defer q.mu.Unlock()

	filtered := make([]*TransferTask, 0, len(q.tasks))
	for _, task := range q.tasks {
		if !task.IsTerminal() {
			filtered = append(filtered, task)
		} else {
			delete(q.tasksByID, task.ID)
		}
	}
	q.tasks = filtered
}

// Stats returns current queue statistics.
func (q *Queue) Stats() QueueStats {
	q.mu.RLock()
	defer q.mu.RUnlock()

	stats := QueueStats{}
	for _, task := range q.tasks {
		switch task.GetState() {
		case TaskQueued:
			stats.Queued++
		case TaskRunning:
			stats.Running++
		case TaskCompleted:
			stats.Completed++
		case TaskFailed:
			stats.Failed++
		case TaskCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// Tasks returns a snapshot of all tasks in creation order.
func (q *Queue) Tasks() []TransferTask {
	q.mu.RLock()
	defer q.mu.RUnlock()

	result := make([]TransferTask, len(q.tasks))
	for i, task := range q.tasks {
		result[i] = task.Clone()
	}
	return result
}

// Task returns a snapshot of a specific task by ID.
func (q *Queue) Task(taskID string) (TransferTask, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	task, exists := q.tasksByID[taskID]
	if !exists || task == nil {
		return TransferTask{}, false
	}
	return task.Clone(), true
}

func (q *Queue) publishTransferEvent(eventType events.EventType, task *TransferTask) {
	if q.eventBus == nil {
		return
	}

	snap := task.Clone()
	q.eventBus.Publish(&events.TransferEvent{
		BaseEvent: events.BaseEvent{
			EventType: eventType,
			Time:      time.Now(),
		},
		TaskID:     snap.ID,
		TaskType:   string(snap.Type),
		Name:       snap.Name,
		Bytes:      snap.Bytes,
		TotalBytes: snap.TotalBytes,
		SizeKnown:  snap.SizeKnown,
		Progress:   snap.Progress(),
		Error:      snap.Error,
	})
}
