// Package orchestrator coordinates music downloads: an unbounded FIFO of
// requests drained into a bounded set of concurrent backend calls, with
// per-task state tracking, listener notifications, and library dedup.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"tunedeck/internal/cache"
	"tunedeck/internal/executor"
	"tunedeck/internal/library"
	"tunedeck/internal/shared"
)

const (
	// drainInterval is the safety-net tick that re-checks the queue even if
	// a wake-up was missed.
	drainInterval = 1 * time.Second

	// latestFileCacheKey is the cache slot for the most recent backend file.
	latestFileCacheKey = "latest_audio_file"

	// latestFileMaxAge bounds how old a cached latest-file entry may be
	// before it is considered stale for a fresh download.
	latestFileMaxAge = 30 * time.Second

	// latestFileRetryDelay is the single re-poll delay tolerated for the
	// downloads-directory race right after the backend reports success.
	latestFileRetryDelay = 500 * time.Millisecond

	// historyLimit caps how many terminal tasks stay queryable; older ones
	// are forgotten so a long session does not grow without bound.
	historyLimit = 100
)

// Orchestrator accepts download requests, dedups against the library, and
// runs at most Parallelism concurrent backend downloads. One instance is
// constructed per process and handed to whoever consumes it; there is no
// package-level state.
type Orchestrator struct {
	mu           sync.Mutex
	queue        []*DownloadTask          // FIFO of QUEUED tasks
	active       map[string]*DownloadTask // id -> DOWNLOADING task
	cancels      map[string]context.CancelFunc
	history      map[string]*DownloadTask // terminal tasks kept for status polls
	historyOrder []string                 // task ids in completion order, for eviction
	listeners    []DownloadListener
	results      *cache.ResultCache
	session      []string // file paths produced during this process lifetime

	exec        executor.Executor
	lib         *library.Library
	warnings    *shared.WarningCollector
	parallelism int
	sem         *semaphore.Weighted

	wake    chan struct{}
	stop    chan struct{}
	stopped sync.Once
	workers sync.WaitGroup
}

// New constructs an orchestrator and starts its drain loop. parallelism is
// the concurrency ceiling; values below one fall back to one.
func New(exec executor.Executor, lib *library.Library, results *cache.ResultCache, warnings *shared.WarningCollector, parallelism int) *Orchestrator {
	if parallelism < 1 {
		parallelism = 1
	}
	o := &Orchestrator{
		active:      make(map[string]*DownloadTask),
		cancels:     make(map[string]context.CancelFunc),
		history:     make(map[string]*DownloadTask),
		results:     results,
		exec:        exec,
		lib:         lib,
		warnings:    warnings,
		parallelism: parallelism,
		sem:         semaphore.NewWeighted(int64(parallelism)),
		wake:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
	}
	go o.drainLoop()
	return o
}

// QueueDownload validates and enqueues a download request. It never blocks:
// the returned task is QUEUED, or already COMPLETED when the library owns a
// downloaded song matching the query (in which case the backend is never
// invoked). Promotion to DOWNLOADING happens asynchronously.
func (o *Orchestrator) QueueDownload(query string, user *shared.User) (*DownloadTask, error) {
	if strings.TrimSpace(query) == "" {
		return nil, shared.ErrEmptyQuery
	}
	if user == nil {
		return nil, shared.ErrNilUser
	}

	if existing := o.lib.FindByQuery(query); existing != nil && existing.Downloaded {
		task := newTask(query, user)
		task.setProgress(100)
		task.setResult(existing)
		task.setStatus(StatusCompleted)

		o.mu.Lock()
		o.recordHistory(task)
		o.mu.Unlock()

		o.notifyCompleted(task, existing)
		return task, nil
	}

	task := newTask(query, user)
	o.mu.Lock()
	o.queue = append(o.queue, task)
	queueSize := len(o.queue)
	o.mu.Unlock()

	shared.ColorInfo.Printf("🎵 Queued download: %s (queue size: %d)\n", query, queueSize)
	o.signalDrain()
	return task, nil
}

// CancelDownload cancels the task with the given id. A DOWNLOADING task has
// its backend subprocess killed via context cancellation; a QUEUED task is
// removed before it is ever dispatched. Unknown or already-terminal ids
// return false.
func (o *Orchestrator) CancelDownload(taskID string) bool {
	o.mu.Lock()
	if task, ok := o.active[taskID]; ok {
		if !task.setStatus(StatusCancelled) {
			o.mu.Unlock()
			return false
		}
		if cancel, ok := o.cancels[taskID]; ok {
			cancel()
			delete(o.cancels, taskID)
		}
		delete(o.active, taskID)
		o.recordHistory(task)
		o.mu.Unlock()

		o.notifyCancelled(task)
		o.signalDrain()
		return true
	}

	for i, task := range o.queue {
		if task.ID() == taskID {
			o.queue = append(o.queue[:i], o.queue[i+1:]...)
			task.setStatus(StatusCancelled)
			o.recordHistory(task)
			o.mu.Unlock()

			o.notifyCancelled(task)
			return true
		}
	}
	o.mu.Unlock()
	return false
}

// GetDownloadStatus returns the task with the given id, or nil. Active
// tasks are checked first, then the queue, then terminal history.
func (o *Orchestrator) GetDownloadStatus(taskID string) *DownloadTask {
	o.mu.Lock()
	defer o.mu.Unlock()
	if task, ok := o.active[taskID]; ok {
		return task
	}
	for _, task := range o.queue {
		if task.ID() == taskID {
			return task
		}
	}
	return o.history[taskID]
}

// GetActiveDownloads returns a snapshot of DOWNLOADING tasks.
func (o *Orchestrator) GetActiveDownloads() []*DownloadTask {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*DownloadTask, 0, len(o.active))
	for _, task := range o.active {
		out = append(out, task)
	}
	return out
}

// GetQueuedDownloads returns a snapshot of still-queued tasks in FIFO order.
func (o *Orchestrator) GetQueuedDownloads() []*DownloadTask {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*DownloadTask, len(o.queue))
	copy(out, o.queue)
	return out
}

// GetQueueSize returns the number of tasks waiting to start.
func (o *Orchestrator) GetQueueSize() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// IsDownloading reports whether any task is currently active.
func (o *Orchestrator) IsDownloading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.active) > 0
}

// QueuePlaylistDownload queues every not-yet-downloaded song of the
// playlist, in track order, and returns the created tasks.
func (o *Orchestrator) QueuePlaylistDownload(playlist *shared.Playlist, user *shared.User) ([]*DownloadTask, error) {
	tasks, err := o.queueSongs(playlist.Songs, user)
	if err != nil {
		return tasks, err
	}
	shared.ColorInfo.Printf("🎵 Queued playlist download: %s (%d songs)\n", playlist.Name, len(tasks))
	return tasks, nil
}

// QueueAlbumDownload queues every not-yet-downloaded track of the album, in
// track order, and returns the created tasks.
func (o *Orchestrator) QueueAlbumDownload(album *shared.Album, user *shared.User) ([]*DownloadTask, error) {
	tasks, err := o.queueSongs(album.Tracks, user)
	if err != nil {
		return tasks, err
	}
	shared.ColorInfo.Printf("🎵 Queued album download: %s (%d songs)\n", album.DisplayName(), len(tasks))
	return tasks, nil
}

func (o *Orchestrator) queueSongs(songs []shared.Song, user *shared.User) ([]*DownloadTask, error) {
	var tasks []*DownloadTask
	for _, song := range songs {
		if song.Downloaded {
			continue
		}
		query := strings.TrimSpace(song.Artist + " " + song.Title)
		task, err := o.QueueDownload(query, user)
		if err != nil {
			return tasks, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// AddDownloadListener registers a listener for task lifecycle events.
func (o *Orchestrator) AddDownloadListener(l DownloadListener) {
	if l == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, l)
}

// RemoveDownloadListener unregisters a previously added listener.
func (o *Orchestrator) RemoveDownloadListener(l DownloadListener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, registered := range o.listeners {
		if registered == l {
			o.listeners = append(o.listeners[:i], o.listeners[i+1:]...)
			return
		}
	}
}

// SessionFiles returns the paths of files produced during this process
// lifetime, for shutdown cleanup.
func (o *Orchestrator) SessionFiles() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.session))
	copy(out, o.session)
	return out
}

// Shutdown stops the drain loop and waits for in-flight workers, up to the
// context deadline.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.stopped.Do(func() { close(o.stop) })

	done := make(chan struct{})
	go func() {
		o.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out with downloads in flight: %w", ctx.Err())
	}
}

// drainLoop is the single goroutine that promotes queued tasks. Explicit
// wake-ups come from QueueDownload and task completion; the ticker is a
// safety net against missed ones.
func (o *Orchestrator) drainLoop() {
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()
	for {
		select {
		case <-o.stop:
			return
		case <-o.wake:
			o.drain()
		case <-ticker.C:
			o.drain()
		}
	}
}

func (o *Orchestrator) signalDrain() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// drain promotes queued tasks to DOWNLOADING while under the concurrency
// ceiling. Only the drain loop goroutine calls this.
func (o *Orchestrator) drain() {
	o.mu.Lock()
	if len(o.active) >= o.parallelism {
		o.mu.Unlock()
		return
	}

	var promoted []*DownloadTask
	for len(o.queue) > 0 && len(o.active) < o.parallelism {
		task := o.queue[0]
		o.queue = o.queue[1:]
		if !task.setStatus(StatusDownloading) {
			continue // cancelled while queued, racing removal
		}
		o.active[task.ID()] = task
		ctx, cancel := context.WithCancel(context.Background())
		o.cancels[task.ID()] = cancel
		promoted = append(promoted, task)
		o.workers.Add(1)
		go o.runTask(ctx, task)
	}
	o.mu.Unlock()

	for _, task := range promoted {
		shared.ColorInfo.Printf("🔄 Started download: %s\n", task.Query())
		o.notifyStarted(task)
	}
}

// runTask executes one download off the orchestrator lock, bounded by the
// worker semaphore. Any failure is converted to task state; nothing
// propagates out of the pool.
func (o *Orchestrator) runTask(ctx context.Context, task *DownloadTask) {
	defer o.workers.Done()

	if err := o.sem.Acquire(ctx, 1); err != nil {
		o.finishTask(task, nil, err)
		return
	}
	defer o.sem.Release(1)

	song, err := o.performDownload(ctx, task)
	o.finishTask(task, song, err)
}

// performDownload is the per-task pipeline: backend download, latest-file
// resolution, song construction. Progress checkpoints are 10 (dispatched),
// 80 (backend succeeded), 100 (file resolved and wrapped).
func (o *Orchestrator) performDownload(ctx context.Context, task *DownloadTask) (*shared.Song, error) {
	task.setProgress(10)
	o.notifyProgress(task, 10)

	ok, fresh, err := o.cachedDownload(ctx, task.Query())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &shared.DownloadError{Query: task.Query(), Message: "backend reported failure"}
	}
	if fresh {
		// The backend just produced a new file; a latest-file entry cached
		// by an earlier task must not be handed to this one.
		o.mu.Lock()
		o.results.Invalidate(latestFileCacheKey)
		o.mu.Unlock()
	}

	task.setProgress(80)
	o.notifyProgress(task, 80)

	filePath, err := o.resolveLatestFile(ctx)
	if err != nil {
		return nil, err
	}
	if filePath == "" {
		return nil, &shared.DownloadError{Query: task.Query(), Message: "file not found after reported success"}
	}

	song := shared.SongFromFile(filePath, task.Query())

	task.setProgress(100)
	o.notifyProgress(task, 100)
	return song, nil
}

// cachedDownload fronts the backend's download call with the result cache.
// Only successes are cached: a failed attempt must not poison retries. fresh
// reports whether the backend actually ran, as opposed to a cache hit.
func (o *Orchestrator) cachedDownload(ctx context.Context, query string) (ok, fresh bool, err error) {
	o.mu.Lock()
	cached, found := o.results.GetResult(query)
	o.mu.Unlock()
	if found && cached {
		shared.ColorInfo.Printf("🎵 Using cached download result for: %s\n", query)
		return true, false, nil
	}

	ok, err = o.exec.DownloadByQuery(ctx, query)
	if err != nil {
		return false, true, err
	}
	if ok {
		o.mu.Lock()
		o.results.PutResult(query, true)
		o.mu.Unlock()
	}
	return ok, true, nil
}

// resolveLatestFile fronts the backend's latest-file lookup with the cache.
// Cached entries older than latestFileMaxAge are stale for a download that
// just finished and are dropped. A nil first scan is re-polled once: the
// downloads directory is eventually consistent right after the backend
// reports success.
func (o *Orchestrator) resolveLatestFile(ctx context.Context) (string, error) {
	o.mu.Lock()
	if path, ok := o.results.GetPath(latestFileCacheKey); ok {
		if recentFile(path, latestFileMaxAge) {
			o.mu.Unlock()
			return path, nil
		}
		o.results.Invalidate(latestFileCacheKey)
	}
	o.mu.Unlock()

	path, err := o.exec.FindLatestAudioFile()
	if err != nil {
		return "", err
	}
	if path == "" {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(latestFileRetryDelay):
		}
		path, err = o.exec.FindLatestAudioFile()
		if err != nil {
			return "", err
		}
	}
	if path != "" {
		o.mu.Lock()
		o.results.PutPath(latestFileCacheKey, path)
		o.mu.Unlock()
	}
	return path, nil
}

// finishTask applies the terminal transition, updates the library on
// success, and triggers the next drain pass. A task cancelled mid-flight
// keeps CANCELLED; its late result is ignored.
func (o *Orchestrator) finishTask(task *DownloadTask, song *shared.Song, err error) {
	o.mu.Lock()
	delete(o.active, task.ID())
	if cancel, ok := o.cancels[task.ID()]; ok {
		cancel()
		delete(o.cancels, task.ID())
	}
	o.recordHistory(task)
	o.mu.Unlock()

	switch {
	case task.Status() == StatusCancelled:
		// Cancellation already notified; drop the late result.
	case err == nil && song != nil:
		stored := o.lib.Add(*song)
		task.setResult(stored)
		task.setStatus(StatusCompleted)
		o.mu.Lock()
		o.session = append(o.session, stored.FilePath)
		o.mu.Unlock()
		shared.ColorSuccess.Printf("✅ Completed download: %s (%s)\n", task.Query(), shared.FormatElapsed(task.Duration()))
		o.notifyCompleted(task, stored)
	default:
		msg := "download failed for unknown reason"
		if err != nil {
			msg = err.Error()
		}
		task.setError(msg)
		task.setStatus(StatusFailed)
		shared.ColorError.Printf("❌ Failed download: %s - %s\n", task.Query(), msg)
		o.notifyFailed(task, msg)
	}

	o.signalDrain()
}

// recordHistory remembers a terminal task for status polls, evicting the
// oldest entries past historyLimit. Caller holds o.mu.
func (o *Orchestrator) recordHistory(task *DownloadTask) {
	id := task.ID()
	if _, seen := o.history[id]; !seen {
		o.historyOrder = append(o.historyOrder, id)
	}
	o.history[id] = task
	for len(o.historyOrder) > historyLimit {
		oldest := o.historyOrder[0]
		o.historyOrder = o.historyOrder[1:]
		delete(o.history, oldest)
	}
}

func recentFile(path string, maxAge time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < maxAge
}

func (o *Orchestrator) snapshotListeners() []DownloadListener {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]DownloadListener, len(o.listeners))
	copy(out, o.listeners)
	return out
}

func (o *Orchestrator) notifyStarted(task *DownloadTask) {
	for _, l := range o.snapshotListeners() {
		o.safeNotify("started", func() { l.OnDownloadStarted(task) })
	}
}

func (o *Orchestrator) notifyProgress(task *DownloadTask, progress float64) {
	for _, l := range o.snapshotListeners() {
		o.safeNotify("progress", func() { l.OnDownloadProgress(task, progress) })
	}
}

func (o *Orchestrator) notifyCompleted(task *DownloadTask, song *shared.Song) {
	for _, l := range o.snapshotListeners() {
		o.safeNotify("completed", func() { l.OnDownloadCompleted(task, song) })
	}
}

func (o *Orchestrator) notifyFailed(task *DownloadTask, errMsg string) {
	for _, l := range o.snapshotListeners() {
		o.safeNotify("failed", func() { l.OnDownloadFailed(task, errMsg) })
	}
}

func (o *Orchestrator) notifyCancelled(task *DownloadTask) {
	shared.ColorWarning.Printf("🚫 Cancelled download: %s\n", task.Query())
	for _, l := range o.snapshotListeners() {
		o.safeNotify("cancelled", func() { l.OnDownloadCancelled(task) })
	}
}

// safeNotify shields orchestration from listener panics.
func (o *Orchestrator) safeNotify(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			shared.ColorError.Printf("❌ Listener error on %s: %v\n", event, r)
			if o.warnings != nil {
				o.warnings.AddListenerWarning(event, fmt.Sprint(r))
			}
		}
	}()
	fn()
}
