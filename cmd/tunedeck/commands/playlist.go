package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tunedeck/internal/shared"
)

// NewPlaylistCommand creates the playlist command group
func NewPlaylistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Import playlists from Spotify and export them to Navidrome.",
	}

	importCmd := &cobra.Command{
		Use:   "import [spotify_url]",
		Short: "Import a Spotify playlist or album and download its tracks.",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlaylistImportCommand,
	}
	importCmd.Flags().Bool("no-wait", false, "Queue the downloads and exit without waiting")

	exportCmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Export a local playlist to the configured Navidrome server.",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlaylistExportCommand,
	}

	cmd.AddCommand(importCmd)
	cmd.AddCommand(exportCmd)
	return cmd
}

func runPlaylistImportCommand(cmd *cobra.Command, args []string) error {
	cfg, serviceContainer, err := initConfigAndServices()
	if err != nil {
		return err
	}
	defer serviceContainer.Shutdown()

	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		shared.ColorError.Println("❌ Spotify credentials are not configured. Set SpotifyClientID and SpotifyClientSecret in", configPath)
		return nil
	}

	playlist, tasks, err := serviceContainer.ImportSpotifyPlaylist(context.Background(), args[0], currentUser())
	if err != nil {
		shared.ColorError.Printf("❌ Import failed: %v\n", err)
		return nil
	}
	shared.ColorSuccess.Printf("✅ Imported playlist %q with %d track(s)\n", playlist.Name, len(playlist.Songs))

	noWait, _ := cmd.Flags().GetBool("no-wait")
	if noWait || len(tasks) == 0 {
		shared.ColorInfo.Printf("⏳ Queued %d download(s)\n", len(tasks))
		return nil
	}

	listener := newProgressBarListener(len(tasks))
	serviceContainer.Orchestrator.AddDownloadListener(listener)
	defer serviceContainer.Orchestrator.RemoveDownloadListener(listener)
	for _, task := range tasks {
		listener.track(task)
	}
	listener.wait(tasks)
	listener.finish()
	printDownloadSummary(tasks)
	return nil
}

func runPlaylistExportCommand(cmd *cobra.Command, args []string) error {
	cfg, serviceContainer, err := initConfigAndServices()
	if err != nil {
		return err
	}
	defer serviceContainer.Shutdown()

	if cfg.NavidromeURL == "" {
		shared.ColorError.Println("❌ Navidrome is not configured. Set NavidromeURL, NavidromeUsername and NavidromePassword in", configPath)
		return nil
	}

	count, err := serviceContainer.ExportPlaylistToNavidrome(args[0])
	if err != nil {
		shared.ColorError.Printf("❌ Export failed: %v\n", err)
		return nil
	}
	shared.ColorSuccess.Printf("✅ Exported %d track(s) of %q to %s\n", count, args[0], cfg.NavidromeURL)
	return nil
}
