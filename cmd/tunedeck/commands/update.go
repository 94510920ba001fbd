package commands

import (
	"github.com/spf13/cobra"

	"tunedeck/internal/config"
	"tunedeck/internal/core/updater"
	"tunedeck/internal/shared"
)

// NewUpdateCommand creates the update check command
func NewUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check whether a newer release is available.",
		Args:  cobra.NoArgs,
		RunE:  runUpdateCommand,
	}
}

func runUpdateCommand(cmd *cobra.Command, args []string) error {
	shared.InitializeColors()

	cfg, err := config.EnsureConfigExists(configPath)
	if err != nil {
		return err
	}
	updater.CheckForUpdates(cfg, toolVersion)
	return nil
}
