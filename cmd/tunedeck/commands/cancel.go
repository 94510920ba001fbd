package commands

import (
	"github.com/spf13/cobra"

	"tunedeck/internal/shared"
)

// NewCancelCommand creates the cancel command
func NewCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [task_id]",
		Short: "Cancel a queued or in-flight download.",
		Args:  cobra.ExactArgs(1),
		RunE:  runCancelCommand,
	}
}

func runCancelCommand(cmd *cobra.Command, args []string) error {
	_, serviceContainer, err := initConfigAndServices()
	if err != nil {
		return err
	}
	defer serviceContainer.Shutdown()

	if serviceContainer.Orchestrator.CancelDownload(args[0]) {
		shared.ColorSuccess.Printf("✅ Cancelled task %s\n", args[0])
	} else {
		shared.ColorWarning.Printf("⚠️ Task %s is not queued or downloading\n", args[0])
	}
	return nil
}
