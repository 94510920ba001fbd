// Package commands holds the cobra command tree. Commands stay thin: every
// operation goes through the ServiceContainer.
package commands

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"tunedeck/internal/config"
	"tunedeck/internal/services"
	"tunedeck/internal/shared"
)

const toolVersion = "1.0.0"

var (
	configPath       string
	downloadLocation string
	debugFlag        bool
)

// NewRootCommand builds the full command tree. Running with no subcommand
// starts the interactive console.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tunedeck",
		Version: toolVersion,
		Short:   "A console music player with queued background downloads.",
		Long: fmt.Sprintf(`TuneDeck (v%s)

A console music player that downloads songs through a python backend,
keeps a local library, and plays your music. Downloads run in the
background with bounded concurrency; unplayed session downloads are
cleaned up when an interactive session ends.

Run with no arguments for the interactive console, or use the
subcommands directly.`, toolVersion),
		RunE: runConsoleCommand,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&downloadLocation, "download-location", "", "Directory to save downloads")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewDownloadCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewCancelCommand())
	rootCmd.AddCommand(NewSearchCommand())
	rootCmd.AddCommand(NewPlayCommand())
	rootCmd.AddCommand(NewPlaylistCommand())
	rootCmd.AddCommand(NewLibraryCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewUpdateCommand())

	return rootCmd
}

func initConfigAndServices() (*config.Config, *services.ServiceContainer, error) {
	shared.InitializeColors()

	cfg, err := config.EnsureConfigExists(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if downloadLocation != "" {
		cfg.DownloadLocation = downloadLocation
	}

	serviceContainer, err := services.NewServiceContainer(cfg, debugFlag)
	if err != nil {
		return nil, nil, err
	}
	return cfg, serviceContainer, nil
}

func currentUser() *shared.User {
	username := os.Getenv("USER")
	if u, err := user.Current(); err == nil && u.Username != "" {
		username = u.Username
	}
	if username == "" {
		username = "local"
	}
	return &shared.User{ID: username, Username: username}
}
