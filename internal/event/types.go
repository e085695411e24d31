package event

import (
	"time"

	"github.com/Iron-Ham/uploadsim/internal/upload"
)

// Event types published by the registry.
const (
	TypeTasksUpdated  = "tasks.updated"
	TypeTaskAdded     = "task.added"
	TypeStatusChanged = "task.status_changed"
	TypeTaskRetried   = "task.retried"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string, at time.Time) baseEvent {
	return baseEvent{eventType: eventType, timestamp: at}
}

// TasksUpdatedEvent carries the snapshot published after a mutation.
type TasksUpdatedEvent struct {
	baseEvent
	Snapshot upload.Snapshot
}

// NewTasksUpdatedEvent creates a TasksUpdatedEvent stamped with the snapshot time.
func NewTasksUpdatedEvent(snap upload.Snapshot) TasksUpdatedEvent {
	return TasksUpdatedEvent{
		baseEvent: newBaseEvent(TypeTasksUpdated, snap.At),
		Snapshot:  snap,
	}
}

// TaskAddedEvent is emitted once per task created by AddFiles.
type TaskAddedEvent struct {
	baseEvent
	Task upload.Task
}

// NewTaskAddedEvent creates a TaskAddedEvent.
func NewTaskAddedEvent(task upload.Task) TaskAddedEvent {
	return TaskAddedEvent{
		baseEvent: newBaseEvent(TypeTaskAdded, task.UpdatedAt),
		Task:      task,
	}
}

// StatusChangedEvent is emitted when a task moves between statuses.
// Progress-only updates within uploading do not produce one.
type StatusChangedEvent struct {
	baseEvent
	Task upload.Task
	From upload.Status
}

// NewStatusChangedEvent creates a StatusChangedEvent for task leaving from.
func NewStatusChangedEvent(task upload.Task, from upload.Status) StatusChangedEvent {
	return StatusChangedEvent{
		baseEvent: newBaseEvent(TypeStatusChanged, task.UpdatedAt),
		Task:      task,
		From:      from,
	}
}

// TaskRetriedEvent is emitted when a retry resets a task.
type TaskRetriedEvent struct {
	baseEvent
	Task upload.Task
}

// NewTaskRetriedEvent creates a TaskRetriedEvent.
func NewTaskRetriedEvent(task upload.Task) TaskRetriedEvent {
	return TaskRetriedEvent{
		baseEvent: newBaseEvent(TypeTaskRetried, task.UpdatedAt),
		Task:      task,
	}
}
