package commands

import (
	"sort"

	"github.com/spf13/cobra"

	"tunedeck/internal/library"
	"tunedeck/internal/shared"
)

// NewLibraryCommand creates the library command group
func NewLibraryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect the local music library.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every song in the library.",
		Args:  cobra.NoArgs,
		RunE:  runLibraryListCommand,
	})
	return cmd
}

func runLibraryListCommand(cmd *cobra.Command, args []string) error {
	_, serviceContainer, err := initConfigAndServices()
	if err != nil {
		return err
	}
	defer serviceContainer.Shutdown()

	printLibrary(serviceContainer.Library)
	return nil
}

func printLibrary(lib *library.Library) {
	songs := lib.Songs()
	if len(songs) == 0 {
		shared.ColorInfo.Println("Library is empty.")
		return
	}
	sort.Slice(songs, func(i, j int) bool {
		return songs[i].DisplayName() < songs[j].DisplayName()
	})

	shared.ColorInfo.Printf("🎵 Library (%d song(s)):\n", len(songs))
	for _, song := range songs {
		shared.ColorInfo.Printf("  %s", song.DisplayName())
		if song.PlayCount > 0 {
			shared.ColorInfo.Printf("  (played %d)", song.PlayCount)
		}
		shared.ColorInfo.Printf("\n")
	}
}
