package commands

import (
	"github.com/spf13/cobra"

	"tunedeck/internal/core/search"
	"tunedeck/internal/library"
	"tunedeck/internal/shared"
)

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search the local library.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearchCommand,
	}
}

func runSearchCommand(cmd *cobra.Command, args []string) error {
	_, serviceContainer, err := initConfigAndServices()
	if err != nil {
		return err
	}
	defer serviceContainer.Shutdown()

	printSearchResults(serviceContainer.Library, args[0])
	return nil
}

func printSearchResults(lib *library.Library, query string) {
	results := search.Library(lib, query)
	if len(results.Songs) == 0 {
		shared.ColorWarning.Printf("⚠️ No songs match %q\n", query)
		return
	}

	shared.ColorInfo.Printf("🔍 %d result(s) for %q:\n", len(results.Songs), query)
	for _, song := range results.Songs {
		marker := " "
		if song.Downloaded {
			marker = "⬇"
		}
		shared.ColorInfo.Printf("  %s %s", marker, song.DisplayName())
		if song.Album != "" {
			shared.ColorInfo.Printf("  [%s]", song.Album)
		}
		shared.ColorInfo.Printf("\n")
	}
}
