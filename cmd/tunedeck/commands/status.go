package commands

import (
	"github.com/spf13/cobra"

	"tunedeck/internal/core/orchestrator"
	"tunedeck/internal/interfaces"
	"tunedeck/internal/shared"
)

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [task_id]",
		Short: "Show active and queued downloads, or one task by id.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatusCommand,
	}
}

func runStatusCommand(cmd *cobra.Command, args []string) error {
	_, serviceContainer, err := initConfigAndServices()
	if err != nil {
		return err
	}
	defer serviceContainer.Shutdown()

	if len(args) == 1 {
		task := serviceContainer.Orchestrator.GetDownloadStatus(args[0])
		if task == nil {
			shared.ColorWarning.Printf("⚠️ No task with id %s\n", args[0])
			return nil
		}
		printTask(task)
		return nil
	}

	printDownloadStatus(serviceContainer.Orchestrator)
	return nil
}

func printDownloadStatus(orch interfaces.DownloadOrchestrator) {
	active := orch.GetActiveDownloads()
	queued := orch.GetQueuedDownloads()

	if len(active) == 0 && len(queued) == 0 {
		shared.ColorInfo.Println("No downloads in progress.")
		return
	}

	if len(active) > 0 {
		shared.ColorInfo.Printf("⬇️  Active downloads (%d):\n", len(active))
		for _, task := range active {
			printTask(task)
		}
	}
	if len(queued) > 0 {
		shared.ColorInfo.Printf("⏳ Queued downloads (%d):\n", len(queued))
		for _, task := range queued {
			printTask(task)
		}
	}
}

func printTask(task *orchestrator.DownloadTask) {
	line := shared.ColorInfo
	switch task.Status() {
	case orchestrator.StatusCompleted:
		line = shared.ColorSuccess
	case orchestrator.StatusFailed:
		line = shared.ColorError
	case orchestrator.StatusCancelled:
		line = shared.ColorWarning
	}
	line.Printf("  %s  %-11s %3.0f%%  %s", task.ID(), task.Status(), task.Progress(), task.Query())
	if msg := task.ErrorMessage(); msg != "" {
		line.Printf("  (%s)", msg)
	}
	line.Printf("\n")
}
