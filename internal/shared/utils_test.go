package shared

import (
	"os"
	"testing"
)

func TestParseArtistTitle(t *testing.T) {
	cases := []struct {
		name       string
		fileName   string
		query      string
		wantArtist string
		wantTitle  string
	}{
		{"spotdl naming", "Daft Punk - Get Lucky.mp3", "whatever", "Daft Punk", "Get Lucky"},
		{"dash in title", "Jay-Z - 99 Problems.mp3", "whatever", "Jay-Z", "99 Problems"},
		{"no separator, two word query", "getlucky.mp3", "Daft Punk", "Daft", "Punk"},
		{"no separator, one word query", "song.mp3", "Adele", "Unknown Artist", "Adele"},
		{"extra whitespace", "  Adele - Hello .flac", "x y", "Adele", "Hello"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			artist, title := ParseArtistTitle(tc.fileName, tc.query)
			if artist != tc.wantArtist || title != tc.wantTitle {
				t.Errorf("ParseArtistTitle(%q, %q) = (%q, %q), want (%q, %q)",
					tc.fileName, tc.query, artist, title, tc.wantArtist, tc.wantTitle)
			}
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Daft Punk  ", "daft punk"},
		{"GET LUCKY", "get lucky"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeQuery(tc.in); got != tc.want {
			t.Errorf("NormalizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsAudioFile(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.FLAC", true},
		{"song.wav", true},
		{"song.m4a", true},
		{"song.txt", false},
		{"song.mp3.part", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := IsAudioFile(tc.path); got != tc.want {
			t.Errorf("IsAudioFile(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestGetUserInput(t *testing.T) {
	feed := func(t *testing.T, input string) {
		t.Helper()
		r, w, err := os.Pipe()
		if err != nil {
			t.Fatal(err)
		}
		old := os.Stdin
		os.Stdin = r
		t.Cleanup(func() { os.Stdin = old })
		if _, err := w.WriteString(input); err != nil {
			t.Fatal(err)
		}
		w.Close()
	}

	t.Run("empty input keeps default", func(t *testing.T) {
		feed(t, "\n")
		if got := GetUserInput("Download directory", "/music"); got != "/music" {
			t.Errorf("got %q, want /music", got)
		}
	})

	t.Run("entered value wins", func(t *testing.T) {
		feed(t, "/tmp/tunes\n")
		if got := GetUserInput("Download directory", "/music"); got != "/tmp/tunes" {
			t.Errorf("got %q, want /tmp/tunes", got)
		}
	})
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString(short, 10) = %q", got)
	}
	got := TruncateString("a very long string indeed", 10)
	if len(got) != 10 {
		t.Errorf("truncated length = %d, want 10", len(got))
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("truncated string %q lacks ellipsis", got)
	}
}
