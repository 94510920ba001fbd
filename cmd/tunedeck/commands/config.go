package commands

import (
	"github.com/spf13/cobra"

	"tunedeck/internal/config"
	"tunedeck/internal/shared"
)

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration.",
		Args:  cobra.NoArgs,
		RunE:  runConfigShowCommand,
	})
	return cmd
}

func runConfigShowCommand(cmd *cobra.Command, args []string) error {
	shared.InitializeColors()

	cfg, err := config.EnsureConfigExists(configPath)
	if err != nil {
		return err
	}
	if downloadLocation != "" {
		cfg.DownloadLocation = downloadLocation
	}

	shared.ColorInfo.Printf("Configuration (%s):\n", configPath)
	shared.ColorInfo.Printf("  Download location:  %s\n", cfg.DownloadLocation)
	shared.ColorInfo.Printf("  Library file:       %s\n", cfg.LibraryFile)
	shared.ColorInfo.Printf("  Parallelism:        %d\n", cfg.Parallelism)
	shared.ColorInfo.Printf("  Cache capacity:     %d\n", cfg.CacheCapacity)
	shared.ColorInfo.Printf("  Download timeout:   %s\n", cfg.DownloadTimeout())
	shared.ColorInfo.Printf("  Playback timeout:   %s\n", cfg.PlaybackTimeout())
	shared.ColorInfo.Printf("  Python executable:  %s\n", cfg.PythonExecutable)
	if cfg.BackendPath != "" {
		shared.ColorInfo.Printf("  Backend path:       %s\n", cfg.BackendPath)
	}
	shared.ColorInfo.Printf("  Spotify configured: %v\n", cfg.SpotifyClientID != "")
	shared.ColorInfo.Printf("  Navidrome server:   %s\n", cfg.NavidromeURL)
	shared.ColorInfo.Printf("  Warning behavior:   %s\n", cfg.WarningBehavior)
	return nil
}
