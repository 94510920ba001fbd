package executor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLatestAudioFilePicksNewest(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "old - song.mp3")
	if err := os.WriteFile(old, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	newest := filepath.Join(dir, "new - song.flac")
	if err := os.WriteFile(newest, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// Non-audio files and directories are ignored even when newer.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "covers.mp3"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := LatestAudioFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != newest {
		t.Errorf("LatestAudioFile = %q, want %q", got, newest)
	}
}

func TestLatestAudioFileEmptyCases(t *testing.T) {
	got, err := LatestAudioFile(t.TempDir())
	if err != nil || got != "" {
		t.Errorf("empty dir: got (%q, %v), want (\"\", nil)", got, err)
	}

	got, err = LatestAudioFile(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil || got != "" {
		t.Errorf("missing dir: got (%q, %v), want (\"\", nil)", got, err)
	}
}

func TestParseMarker(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   bool
	}{
		{"success", "noise\nDOWNLOAD_RESULT:True\n", true},
		{"failure", "DOWNLOAD_RESULT:False\n", false},
		{"absent", "spotdl output without marker\n", false},
		{"last wins", "DOWNLOAD_RESULT:True\nDOWNLOAD_RESULT:False\n", false},
		{"embedded in line", "   [info] DOWNLOAD_RESULT:True", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseMarker(tc.output, downloadResultMarker); got != tc.want {
				t.Errorf("parseMarker(%q) = %v, want %v", tc.output, got, tc.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("  error: boom\ntraceback...\n"); got != "error: boom" {
		t.Errorf("firstLine = %q", got)
	}
	if got := firstLine("single"); got != "single" {
		t.Errorf("firstLine = %q", got)
	}
}
