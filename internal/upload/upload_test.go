package upload

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusWaiting, false},
		{StatusUploading, false},
		{StatusCompleted, true},
		{StatusError, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
			if got := tt.status.IsActive(); got == tt.want {
				t.Errorf("IsActive() = %v, want %v", got, !tt.want)
			}
		})
	}
}

func TestTask_Transitions(t *testing.T) {
	now := time.Now()
	task := Task{ID: "t-1", File: File{Name: "a.png", Size: 1000}, Status: StatusWaiting, Attempt: 1}

	uploading := task.WithProgress(0.25, now)
	if uploading.Status != StatusUploading || uploading.Progress != 0.25 {
		t.Errorf("WithProgress(0.25) = %s/%v, want uploading/0.25", uploading.Status, uploading.Progress)
	}
	if task.Status != StatusWaiting {
		t.Error("WithProgress must not mutate the receiver")
	}

	done := uploading.WithProgress(1, now)
	if done.Status != StatusCompleted || done.Progress != 1 {
		t.Errorf("WithProgress(1) = %s/%v, want completed/1", done.Status, done.Progress)
	}

	failed := uploading.WithError(now)
	if failed.Status != StatusError {
		t.Errorf("WithError status = %s, want error", failed.Status)
	}
	if failed.Progress != 0.25 {
		t.Errorf("WithError progress = %v, want last value 0.25", failed.Progress)
	}

	reset := failed.Reset(now)
	if reset.Status != StatusWaiting || reset.Progress != 0 {
		t.Errorf("Reset = %s/%v, want waiting/0", reset.Status, reset.Progress)
	}
	if reset.Attempt != 2 {
		t.Errorf("Reset attempt = %d, want 2", reset.Attempt)
	}
	if reset.ID != task.ID {
		t.Errorf("ID changed across transitions: %q -> %q", task.ID, reset.ID)
	}
}

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	a := NewID("a.png", now)
	b := NewID("a.png", now)
	if a == b {
		t.Errorf("same name in the same millisecond produced duplicate id %q", a)
	}
	if !strings.HasPrefix(a, "1700000000000-a.png-") {
		t.Errorf("id %q should start with timestamp and name", a)
	}
}

func TestNewID_SanitizesName(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := []struct {
		name string
		want string
	}{
		{"a.png", "a.png"},
		{"holiday photos/2024-final.png", "holiday_photos_2024_final.png"},
		{"résumé.pdf", "r_sum_.pdf"},
		{"", "untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			id := NewID(tt.name, now)
			prefix := "1700000000000-" + tt.want + "-"
			if !strings.HasPrefix(id, prefix) {
				t.Fatalf("NewID(%q) = %q, want prefix %q", tt.name, id, prefix)
			}
			if suffix := strings.TrimPrefix(id, prefix); len(suffix) != 8 || strings.Contains(suffix, "-") {
				t.Errorf("NewID(%q) suffix = %q, want 8 uuid characters", tt.name, suffix)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(File{Name: "  ", Size: -5})
	if got.Name != "untitled" {
		t.Errorf("Name = %q, want untitled", got.Name)
	}
	if got.Size != 0 {
		t.Errorf("Size = %d, want 0", got.Size)
	}

	kept := Normalize(File{Name: "report.pdf", Size: 42})
	if kept.Name != "report.pdf" || kept.Size != 42 {
		t.Errorf("Normalize altered a valid descriptor: %+v", kept)
	}
}

func TestSummarize(t *testing.T) {
	tasks := []Task{
		{ID: "1", Status: StatusWaiting},
		{ID: "2", Status: StatusUploading, Progress: 0.5},
		{ID: "3", Status: StatusCompleted, Progress: 1},
		{ID: "4", Status: StatusError, Progress: 0.3},
	}

	s := Summarize(tasks)
	if s.Total != 4 || s.Waiting != 1 || s.Uploading != 1 || s.Completed != 1 || s.Failed != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if want := 0.6; math.Abs(s.AverageProgress-want) > 1e-9 {
		t.Errorf("AverageProgress = %v, want %v", s.AverageProgress, want)
	}
	if s.Done() {
		t.Error("Done() should be false while tasks are active")
	}

	empty := Summarize(nil)
	if empty.AverageProgress != 0 || !empty.Done() {
		t.Errorf("empty summary = %+v, want zero and done", empty)
	}

	allWaiting := Summarize([]Task{{Status: StatusWaiting}})
	if allWaiting.AverageProgress != 0 {
		t.Errorf("waiting tasks must not count toward average, got %v", allWaiting.AverageProgress)
	}
}

func TestGroupByStatus(t *testing.T) {
	tasks := []Task{
		{ID: "c1", Status: StatusCompleted},
		{ID: "u1", Status: StatusUploading},
		{ID: "e1", Status: StatusError},
		{ID: "w1", Status: StatusWaiting},
		{ID: "u2", Status: StatusUploading},
	}

	grouped := GroupByStatus(tasks)
	want := []string{"u1", "u2", "w1", "e1", "c1"}
	for i, id := range want {
		if grouped[i].ID != id {
			t.Errorf("grouped[%d] = %s, want %s", i, grouped[i].ID, id)
		}
	}

	if tasks[0].ID != "c1" || tasks[1].ID != "u1" {
		t.Error("GroupByStatus must not reorder its input")
	}
}

func TestSnapshot_Find(t *testing.T) {
	snap := Snapshot{Tasks: []Task{{ID: "a"}, {ID: "b"}}}

	if _, ok := snap.Find("b"); !ok {
		t.Error("Find(b) should succeed")
	}
	if _, ok := snap.Find("missing"); ok {
		t.Error("Find(missing) should fail")
	}
	if snap.Len() != 2 {
		t.Errorf("Len() = %d, want 2", snap.Len())
	}
}
