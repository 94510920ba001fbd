package orchestrator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tunedeck/internal/shared"
)

// Status is the lifecycle state of a download task.
type Status string

const (
	StatusQueued      Status = "QUEUED"
	StatusDownloading Status = "DOWNLOADING"
	StatusCompleted   Status = "COMPLETED"
	StatusFailed      Status = "FAILED"
	StatusCancelled   Status = "CANCELLED"
)

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// DownloadTask tracks one user-initiated download request through its
// lifecycle. Transitions are monotone: QUEUED → DOWNLOADING → terminal,
// with CANCELLED reachable from both non-terminal states. Fields are
// guarded by the task's own lock so listeners and status polls can read
// them while a worker mutates.
type DownloadTask struct {
	mu          sync.RWMutex
	id          string
	query       string
	requestedBy *shared.User
	status      Status
	progress    float64
	errorMsg    string
	resultSong  *shared.Song
	startTime   time.Time
	endTime     time.Time
}

func newTask(query string, user *shared.User) *DownloadTask {
	return &DownloadTask{
		id:          uuid.NewString(),
		query:       query,
		requestedBy: user,
		status:      StatusQueued,
		startTime:   time.Now(),
	}
}

// ID returns the task's unique identifier.
func (t *DownloadTask) ID() string { return t.id }

// Query returns the original search text.
func (t *DownloadTask) Query() string { return t.query }

// RequestedBy returns the requesting user.
func (t *DownloadTask) RequestedBy() *shared.User { return t.requestedBy }

// Status returns the current lifecycle state.
func (t *DownloadTask) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Progress returns the current progress in percent.
func (t *DownloadTask) Progress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// ErrorMessage returns the failure text; empty unless the task FAILED.
func (t *DownloadTask) ErrorMessage() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.errorMsg
}

// ResultSong returns the downloaded song; nil unless the task COMPLETED.
func (t *DownloadTask) ResultSong() *shared.Song {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resultSong
}

// ResultFilePath returns the completed download's file path, if any.
func (t *DownloadTask) ResultFilePath() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.resultSong == nil {
		return ""
	}
	return t.resultSong.FilePath
}

// StartTime returns when the task was created.
func (t *DownloadTask) StartTime() time.Time { return t.startTime }

// EndTime returns when the task reached a terminal state; zero before that.
func (t *DownloadTask) EndTime() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.endTime
}

// Duration returns elapsed time so far, or total time once terminal.
func (t *DownloadTask) Duration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.endTime.IsZero() {
		return t.endTime.Sub(t.startTime)
	}
	return time.Since(t.startTime)
}

// setStatus applies a transition, refusing to leave a terminal state.
// It reports whether the transition took effect.
func (t *DownloadTask) setStatus(s Status) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return false
	}
	t.status = s
	if s.IsTerminal() {
		t.endTime = time.Now()
	}
	return true
}

// setProgress clamps to [0, 100] and never moves backwards.
func (t *DownloadTask) setProgress(p float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p < 0 {
		p = 0
	} else if p > 100 {
		p = 100
	}
	if p > t.progress {
		t.progress = p
	}
}

func (t *DownloadTask) setError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errorMsg = msg
}

func (t *DownloadTask) setResult(song *shared.Song) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resultSong = song
}

// DownloadListener receives task lifecycle events. Callbacks run
// synchronously on the orchestrator's notification path; panics are
// recovered and logged, never allowed to break orchestration.
type DownloadListener interface {
	OnDownloadStarted(task *DownloadTask)
	OnDownloadProgress(task *DownloadTask, progress float64)
	OnDownloadCompleted(task *DownloadTask, song *shared.Song)
	OnDownloadFailed(task *DownloadTask, errMsg string)
	OnDownloadCancelled(task *DownloadTask)
}
