package commands

import (
	"fmt"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"tunedeck/internal/core/orchestrator"
	"tunedeck/internal/services"
	"tunedeck/internal/shared"
)

// NewDownloadCommand creates the download command
func NewDownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download [query]...",
		Short: "Download one or more songs by search query.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDownloadCommand,
	}

	cmd.Flags().Bool("no-wait", false, "Queue the downloads and exit without waiting")

	return cmd
}

func runDownloadCommand(cmd *cobra.Command, args []string) error {
	_, serviceContainer, err := initConfigAndServices()
	if err != nil {
		return err
	}
	defer serviceContainer.Shutdown()

	noWait, _ := cmd.Flags().GetBool("no-wait")
	tasks, err := queueDownloads(serviceContainer, args, !noWait)
	if err != nil {
		return err
	}
	if noWait {
		for _, task := range tasks {
			serviceContainer.Logger.Info("Queued %s as task %s", task.Query(), task.ID())
		}
	}
	return nil
}

// queueDownloads submits every query and, when wait is set, blocks with
// progress bars until all tasks are terminal. Shared between the one-shot
// command and the interactive console.
func queueDownloads(serviceContainer *services.ServiceContainer, queries []string, wait bool) ([]*orchestrator.DownloadTask, error) {
	user := currentUser()

	var listener *progressBarListener
	if wait {
		listener = newProgressBarListener(len(queries))
		serviceContainer.Orchestrator.AddDownloadListener(listener)
		defer serviceContainer.Orchestrator.RemoveDownloadListener(listener)
	}

	var tasks []*orchestrator.DownloadTask
	for _, query := range queries {
		task, err := serviceContainer.Orchestrator.QueueDownload(query, user)
		if err != nil {
			return tasks, fmt.Errorf("could not queue %q: %w", query, err)
		}
		if task.Status() == orchestrator.StatusCompleted {
			shared.ColorSuccess.Printf("✅ Already in library: %s\n", task.ResultSong().DisplayName())
			continue
		}
		if listener != nil {
			listener.track(task)
		}
		tasks = append(tasks, task)
	}

	if listener != nil && len(tasks) > 0 {
		listener.wait(tasks)
		listener.finish()
		printDownloadSummary(tasks)
	}
	return tasks, nil
}

func printDownloadSummary(tasks []*orchestrator.DownloadTask) {
	stats := shared.DownloadStats{}
	for _, task := range tasks {
		switch task.Status() {
		case orchestrator.StatusCompleted:
			stats.SuccessCount++
		case orchestrator.StatusCancelled:
			stats.SkippedCount++
		default:
			stats.FailedCount++
			stats.FailedItems = append(stats.FailedItems, fmt.Sprintf("%s (%s)", task.Query(), task.ErrorMessage()))
		}
	}

	fmt.Printf("\n")
	shared.ColorInfo.Printf("📊 Download Summary:\n")
	if stats.SuccessCount > 0 {
		shared.ColorSuccess.Printf("✅ Successfully downloaded: %d\n", stats.SuccessCount)
	}
	if stats.SkippedCount > 0 {
		shared.ColorWarning.Printf("⏭️  Cancelled: %d\n", stats.SkippedCount)
	}
	if stats.FailedCount > 0 {
		shared.ColorError.Printf("❌ Failed: %d\n", stats.FailedCount)
		for _, item := range stats.FailedItems {
			shared.ColorError.Printf("   %s\n", item)
		}
	}
}

// progressBarListener renders one pb bar per task and wakes the waiter
// whenever a task reaches a terminal state.
type progressBarListener struct {
	mu   sync.Mutex
	bars map[string]*pb.ProgressBar
	pool *pb.Pool
	done chan struct{}
}

func newProgressBarListener(capacity int) *progressBarListener {
	return &progressBarListener{
		bars: make(map[string]*pb.ProgressBar, capacity),
		done: make(chan struct{}, 1),
	}
}

func (pl *progressBarListener) track(task *orchestrator.DownloadTask) {
	bar := pb.New(100)
	bar.SetTemplateString(`{{ string . "prefix" }} {{ bar . }} {{ percent . }}`)
	bar.Set("prefix", fmt.Sprintf("%-40s:", shared.TruncateString(task.Query(), 40)))

	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.bars[task.ID()] = bar
	if pl.pool == nil {
		pool, err := pb.StartPool(bar)
		if err != nil {
			// Not a terminal; fall back to silent bars.
			pl.pool = nil
			return
		}
		pl.pool = pool
		return
	}
	pl.pool.Add(bar)
}

func (pl *progressBarListener) bar(taskID string) *pb.ProgressBar {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return pl.bars[taskID]
}

func (pl *progressBarListener) OnDownloadStarted(task *orchestrator.DownloadTask) {}

func (pl *progressBarListener) OnDownloadProgress(task *orchestrator.DownloadTask, progress float64) {
	if bar := pl.bar(task.ID()); bar != nil {
		bar.SetCurrent(int64(progress))
	}
}

func (pl *progressBarListener) OnDownloadCompleted(task *orchestrator.DownloadTask, song *shared.Song) {
	if bar := pl.bar(task.ID()); bar != nil {
		bar.SetCurrent(100)
	}
	pl.signal()
}

func (pl *progressBarListener) OnDownloadFailed(task *orchestrator.DownloadTask, errMsg string) {
	pl.signal()
}

func (pl *progressBarListener) OnDownloadCancelled(task *orchestrator.DownloadTask) {
	pl.signal()
}

func (pl *progressBarListener) signal() {
	select {
	case pl.done <- struct{}{}:
	default:
	}
}

// wait blocks until every given task has reached a terminal state. The
// done channel is a wake-up, the ticker covers events delivered before a
// task's bar was registered.
func (pl *progressBarListener) wait(tasks []*orchestrator.DownloadTask) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		allDone := true
		for _, task := range tasks {
			if !task.Status().IsTerminal() {
				allDone = false
				break
			}
		}
		if allDone {
			return
		}
		select {
		case <-pl.done:
		case <-ticker.C:
		}
	}
}

func (pl *progressBarListener) finish() {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if pl.pool != nil {
		pl.pool.Stop()
	}
}
