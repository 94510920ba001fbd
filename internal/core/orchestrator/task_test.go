package orchestrator

import (
	"testing"

	"tunedeck/internal/shared"
)

func TestTaskStartsQueued(t *testing.T) {
	task := newTask("query", &shared.User{Username: "u"})
	if got := task.Status(); got != StatusQueued {
		t.Errorf("new task status = %s, want QUEUED", got)
	}
	if task.ID() == "" {
		t.Error("new task has empty id")
	}
	if task.Progress() != 0 {
		t.Errorf("new task progress = %v, want 0", task.Progress())
	}
}

func TestTerminalStatusIsFinal(t *testing.T) {
	for _, terminal := range []Status{StatusCompleted, StatusFailed, StatusCancelled} {
		task := newTask("query", &shared.User{Username: "u"})
		task.setStatus(StatusDownloading)
		if !task.setStatus(terminal) {
			t.Fatalf("transition to %s refused", terminal)
		}
		if task.setStatus(StatusDownloading) {
			t.Errorf("left terminal state %s", terminal)
		}
		if got := task.Status(); got != terminal {
			t.Errorf("status = %s, want %s", got, terminal)
		}
		if task.EndTime().IsZero() {
			t.Errorf("terminal task %s has zero end time", terminal)
		}
	}
}

func TestProgressClampedAndMonotone(t *testing.T) {
	task := newTask("query", &shared.User{Username: "u"})

	task.setProgress(150)
	if got := task.Progress(); got != 100 {
		t.Errorf("progress = %v, want clamped to 100", got)
	}

	task = newTask("query", &shared.User{Username: "u"})
	task.setProgress(80)
	task.setProgress(10)
	if got := task.Progress(); got != 80 {
		t.Errorf("progress = %v, want 80 (never decreases)", got)
	}
	task.setProgress(-5)
	if got := task.Progress(); got != 80 {
		t.Errorf("progress = %v after negative set, want 80", got)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	cases := []struct {
		status Status
		want   bool
	}{
		{StatusQueued, false},
		{StatusDownloading, false},
		{StatusCompleted, true},
		{StatusFailed, true},
		{StatusCancelled, true},
	}
	for _, tc := range cases {
		if got := tc.status.IsTerminal(); got != tc.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tc.status, got, tc.want)
		}
	}
}
