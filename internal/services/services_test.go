package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"tunedeck/internal/core/cleanup"
	"tunedeck/internal/core/orchestrator"
	"tunedeck/internal/interfaces"
	"tunedeck/internal/library"
	"tunedeck/internal/shared"
)

// fakeOrchestrator stands in for the real download orchestrator so
// container behavior can be tested without backend subprocesses.
type fakeOrchestrator struct {
	sessionFiles []string
}

var _ interfaces.DownloadOrchestrator = (*fakeOrchestrator)(nil)

func (f *fakeOrchestrator) QueueDownload(query string, user *shared.User) (*orchestrator.DownloadTask, error) {
	return nil, nil
}
func (f *fakeOrchestrator) CancelDownload(taskID string) bool                      { return false }
func (f *fakeOrchestrator) GetDownloadStatus(taskID string) *orchestrator.DownloadTask { return nil }
func (f *fakeOrchestrator) GetActiveDownloads() []*orchestrator.DownloadTask       { return nil }
func (f *fakeOrchestrator) GetQueuedDownloads() []*orchestrator.DownloadTask       { return nil }
func (f *fakeOrchestrator) GetQueueSize() int                                      { return 0 }
func (f *fakeOrchestrator) IsDownloading() bool                                    { return false }
func (f *fakeOrchestrator) QueuePlaylistDownload(playlist *shared.Playlist, user *shared.User) ([]*orchestrator.DownloadTask, error) {
	return nil, nil
}
func (f *fakeOrchestrator) QueueAlbumDownload(album *shared.Album, user *shared.User) ([]*orchestrator.DownloadTask, error) {
	return nil, nil
}
func (f *fakeOrchestrator) AddDownloadListener(l orchestrator.DownloadListener)    {}
func (f *fakeOrchestrator) RemoveDownloadListener(l orchestrator.DownloadListener) {}
func (f *fakeOrchestrator) SessionFiles() []string                                 { return f.sessionFiles }
func (f *fakeOrchestrator) Shutdown(ctx context.Context) error                     { return nil }

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunSessionCleanupRemovesUnplayedSessionFiles(t *testing.T) {
	dir := t.TempDir()
	unplayed := writeFile(t, dir, "Artist - Fresh.mp3")
	played := writeFile(t, dir, "Artist - Loved.mp3")

	lib := library.New("")
	lib.Add(shared.Song{Title: "Fresh", Artist: "Artist", FilePath: unplayed, Downloaded: true})
	lib.Add(shared.Song{Title: "Loved", Artist: "Artist", FilePath: played, Downloaded: true})
	lib.MarkPlayed(played)

	warnings := shared.NewWarningCollector(false)
	sc := &ServiceContainer{
		Library:          lib,
		Cleanup:          cleanup.New(lib, warnings),
		Orchestrator:     &fakeOrchestrator{sessionFiles: []string{unplayed, played}},
		WarningCollector: warnings,
	}

	if removed := sc.RunSessionCleanup(); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if shared.FileExists(unplayed) {
		t.Error("unplayed session file survived cleanup")
	}
	if !shared.FileExists(played) {
		t.Error("played session file was removed")
	}
}
