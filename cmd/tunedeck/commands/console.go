package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tunedeck/internal/config"
	"tunedeck/internal/core/orchestrator"
	"tunedeck/internal/shared"
)

// runConsoleCommand is the interactive session: downloads run in the
// background while the user keeps typing, and unplayed session downloads
// are removed on exit.
func runConsoleCommand(cmd *cobra.Command, args []string) error {
	if err := firstRunSetup(); err != nil {
		return err
	}

	_, serviceContainer, err := initConfigAndServices()
	if err != nil {
		return err
	}

	listener := &consoleListener{}
	serviceContainer.Orchestrator.AddDownloadListener(listener)

	shared.ColorInfo.Println("🎵 TuneDeck interactive console. Type 'help' for commands, 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	user := currentUser()
	for {
		shared.ColorPrompt.Printf("tunedeck> ")
		if !scanner.Scan() {
			break
		}
		verb, rest := splitCommand(scanner.Text())
		if verb == "" {
			continue
		}
		if verb == "quit" || verb == "exit" {
			break
		}

		switch verb {
		case "help":
			printConsoleHelp()
		case "download", "dl":
			if rest == "" {
				shared.ColorWarning.Println("⚠️ Usage: download <query>")
				continue
			}
			task, err := serviceContainer.Orchestrator.QueueDownload(rest, user)
			if err != nil {
				shared.ColorError.Printf("❌ %v\n", err)
				continue
			}
			if task.Status() == orchestrator.StatusCompleted {
				shared.ColorSuccess.Printf("✅ Already in library: %s\n", task.ResultSong().DisplayName())
			} else {
				shared.ColorInfo.Printf("⏳ Queued %q as task %s\n", rest, task.ID())
			}
		case "status":
			if rest == "" {
				printDownloadStatus(serviceContainer.Orchestrator)
			} else if task := serviceContainer.Orchestrator.GetDownloadStatus(rest); task != nil {
				printTask(task)
			} else {
				shared.ColorWarning.Printf("⚠️ No task with id %s\n", rest)
			}
		case "cancel":
			if rest == "" {
				shared.ColorWarning.Println("⚠️ Usage: cancel <task_id>")
			} else if serviceContainer.Orchestrator.CancelDownload(rest) {
				shared.ColorSuccess.Printf("✅ Cancelled task %s\n", rest)
			} else {
				shared.ColorWarning.Printf("⚠️ Task %s is not queued or downloading\n", rest)
			}
		case "search":
			if rest == "" {
				shared.ColorWarning.Println("⚠️ Usage: search <text>")
			} else {
				printSearchResults(serviceContainer.Library, rest)
			}
		case "play":
			if rest == "" {
				shared.ColorWarning.Println("⚠️ Usage: play <query>")
			} else {
				playSong(serviceContainer, rest)
			}
		case "list", "library":
			printLibrary(serviceContainer.Library)
		default:
			shared.ColorWarning.Printf("⚠️ Unknown command %q. Type 'help'.\n", verb)
		}
	}

	shared.ColorInfo.Println("👋 Shutting down...")
	if removed := serviceContainer.RunSessionCleanup(); removed > 0 {
		shared.ColorInfo.Printf("🧹 Removed %d unplayed session download(s)\n", removed)
	}
	return serviceContainer.Shutdown()
}

// firstRunSetup writes an initial config file on the first interactive
// session, asking where downloads should go. One-shot commands skip the
// prompt and use defaults.
func firstRunSetup() error {
	if shared.FileExists(configPath) {
		return nil
	}
	cfg := config.GetDefaultConfig()
	shared.ColorInfo.Printf("No config found at %s, setting up.\n", configPath)
	cfg.DownloadLocation = shared.GetUserInput("Download directory", cfg.DownloadLocation)
	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	shared.ColorSuccess.Printf("✅ Created %s\n", configPath)
	return nil
}

func splitCommand(line string) (verb, rest string) {
	fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
	verb = strings.ToLower(fields[0])
	if len(fields) == 2 {
		rest = strings.TrimSpace(fields[1])
	}
	return verb, rest
}

func printConsoleHelp() {
	fmt.Println(`Commands:
  download <query>   Queue a background download
  status [task_id]   Show downloads, or one task
  cancel <task_id>   Cancel a queued or in-flight download
  search <text>      Search the local library
  play <query>       Play a downloaded song
  list               List the library
  quit               Exit (removes unplayed session downloads)`)
}

// consoleListener announces download lifecycle events between prompts.
type consoleListener struct{}

func (cl *consoleListener) OnDownloadStarted(task *orchestrator.DownloadTask) {
	shared.ColorInfo.Printf("\n⬇️  Download started: %s\n", task.Query())
}

func (cl *consoleListener) OnDownloadProgress(task *orchestrator.DownloadTask, progress float64) {}

func (cl *consoleListener) OnDownloadCompleted(task *orchestrator.DownloadTask, song *shared.Song) {
	shared.ColorSuccess.Printf("\n✅ Download complete: %s (%s)\n", song.DisplayName(), shared.FormatElapsed(task.Duration()))
}

func (cl *consoleListener) OnDownloadFailed(task *orchestrator.DownloadTask, errMsg string) {
	shared.ColorError.Printf("\n❌ Download failed: %s (%s)\n", task.Query(), errMsg)
}

func (cl *consoleListener) OnDownloadCancelled(task *orchestrator.DownloadTask) {
	shared.ColorWarning.Printf("\n🚫 Download cancelled: %s\n", task.Query())
}
