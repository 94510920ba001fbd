package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tunedeck/internal/services"
	"tunedeck/internal/shared"
)

// NewPlayCommand creates the play command
func NewPlayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "play [query]",
		Short: "Play a downloaded song from the library.",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlayCommand,
	}
}

func runPlayCommand(cmd *cobra.Command, args []string) error {
	_, serviceContainer, err := initConfigAndServices()
	if err != nil {
		return err
	}
	defer serviceContainer.Shutdown()

	return playSong(serviceContainer, args[0])
}

func playSong(serviceContainer *services.ServiceContainer, query string) error {
	ctx, cancel := context.WithTimeout(context.Background(), serviceContainer.Config.PlaybackTimeout())
	defer cancel()

	song, err := serviceContainer.PlaySong(ctx, query)
	if err != nil {
		shared.ColorError.Printf("❌ Playback failed: %v\n", err)
		return nil
	}
	shared.ColorSuccess.Printf("▶️  Now playing: %s\n", song.DisplayName())
	return nil
}
