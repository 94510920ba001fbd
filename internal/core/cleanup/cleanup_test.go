package cleanup

import (
	"os"
	"path/filepath"
	"testing"

	"tunedeck/internal/library"
	"tunedeck/internal/shared"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunRemovesOnlyUnplayedSessionFiles(t *testing.T) {
	dir := t.TempDir()
	lib := library.New("")

	// A: downloaded this session, never played.
	pathA := writeFile(t, dir, "A - Song.mp3")
	lib.Add(shared.Song{Title: "Song", Artist: "A", FilePath: pathA, Downloaded: true})

	// B: downloaded this session, played twice.
	pathB := writeFile(t, dir, "B - Song.mp3")
	lib.Add(shared.Song{Title: "Song", Artist: "B", FilePath: pathB, Downloaded: true})
	lib.MarkPlayed(pathB)
	lib.MarkPlayed(pathB)

	// C: predates the session, never played. Not in sessionFiles.
	pathC := writeFile(t, dir, "C - Song.mp3")
	lib.Add(shared.Song{Title: "Song", Artist: "C", FilePath: pathC, Downloaded: true})

	removed := New(lib, shared.NewWarningCollector(false)).Run([]string{pathA, pathB})

	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if shared.FileExists(pathA) {
		t.Error("unplayed session file A survived")
	}
	if !shared.FileExists(pathB) {
		t.Error("played session file B was removed")
	}
	if !shared.FileExists(pathC) {
		t.Error("pre-session file C was removed")
	}
}

func TestRunToleratesMissingFiles(t *testing.T) {
	lib := library.New("")
	gone := filepath.Join(t.TempDir(), "already-gone.mp3")
	lib.Add(shared.Song{Title: "Gone", Artist: "X", FilePath: gone, Downloaded: true})

	removed := New(lib, shared.NewWarningCollector(false)).Run([]string{gone})
	if removed != 0 {
		t.Errorf("removed = %d for a missing file, want 0", removed)
	}
}

func TestRunRemovesFilesUnknownToLibrary(t *testing.T) {
	dir := t.TempDir()
	lib := library.New("")
	// Produced by the backend but never registered: treated as unplayed.
	orphan := writeFile(t, dir, "Orphan - Song.mp3")

	removed := New(lib, shared.NewWarningCollector(false)).Run([]string{orphan})
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if shared.FileExists(orphan) {
		t.Error("orphan session file survived")
	}
}
