package upload

import "time"

// Status represents the current state of an upload task.
type Status string

const (
	// StatusWaiting indicates the task was created or retried and the
	// simulator has not reported its first tick yet.
	StatusWaiting Status = "waiting"

	// StatusUploading indicates at least one progress tick has arrived.
	StatusUploading Status = "uploading"

	// StatusCompleted indicates the simulator reported its final tick.
	StatusCompleted Status = "completed"

	// StatusError indicates the simulated transfer failed.
	StatusError Status = "error"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a final state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

// IsActive returns true while a simulation is expected to report on the task.
func (s Status) IsActive() bool {
	return s == StatusWaiting || s == StatusUploading
}

// File describes a file selected by a collaborator (picker, drop folder, TUI).
// The core only holds the descriptor; it never reads the content.
type File struct {
	// Name is the display name of the file.
	Name string `json:"name"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Path is the local path the file was selected from, if any.
	Path string `json:"path,omitempty"`

	// ContentType is the sniffed MIME type, if the collaborator detected one.
	ContentType string `json:"content_type,omitempty"`

	// Data optionally carries in-memory content supplied by the collaborator.
	Data []byte `json:"-"`
}

// Task is one unit of work representing a single file's simulated transfer.
// Values are replaced, never mutated, on every state change.
type Task struct {
	ID       string  `json:"id"`
	File     File    `json:"file"`
	Progress float64 `json:"progress"`
	Status   Status  `json:"status"`

	// Attempt is 1 for the first run and increases by one on every retry.
	Attempt int `json:"attempt"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WithProgress returns a copy of t reflecting a progress tick. A fraction of
// exactly 1 completes the task.
func (t Task) WithProgress(fraction float64, now time.Time) Task {
	t.Progress = fraction
	if fraction >= 1 {
		t.Progress = 1
		t.Status = StatusCompleted
	} else {
		t.Status = StatusUploading
	}
	t.UpdatedAt = now
	return t
}

// WithError returns a copy of t marked as failed. Progress keeps its last value.
func (t Task) WithError(now time.Time) Task {
	t.Status = StatusError
	t.UpdatedAt = now
	return t
}

// Reset returns a copy of t back in the waiting state for another attempt.
func (t Task) Reset(now time.Time) Task {
	t.Progress = 0
	t.Status = StatusWaiting
	t.Attempt++
	t.UpdatedAt = now
	return t
}

// Snapshot is the full ordered task sequence at one point in time.
type Snapshot struct {
	// Version increases by one on every publish.
	Version uint64 `json:"version"`

	// Tasks are in insertion order. The slice must be treated as read-only.
	Tasks []Task `json:"tasks"`

	At time.Time `json:"at"`
}

// Len returns the number of tasks in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Tasks)
}

// Find returns the task with the given ID.
func (s Snapshot) Find(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Summary is the aggregate view shown by the summary overlay.
type Summary struct {
	Total     int `json:"total"`
	Waiting   int `json:"waiting"`
	Uploading int `json:"uploading"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`

	// AverageProgress is the mean progress across tasks that are not waiting.
	AverageProgress float64 `json:"average_progress"`
}

// Done reports whether no task is waiting or uploading.
func (s Summary) Done() bool {
	return s.Waiting == 0 && s.Uploading == 0
}
