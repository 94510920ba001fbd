package search

import (
	"testing"

	"tunedeck/internal/library"
	"tunedeck/internal/shared"
)

func seededLibrary() *library.Library {
	lib := library.New("")
	lib.Add(shared.Song{Title: "Get Lucky", Artist: "Daft Punk", Album: "Random Access Memories"})
	lib.Add(shared.Song{Title: "One More Time", Artist: "Daft Punk", Album: "Discovery"})
	lib.Add(shared.Song{Title: "Hello", Artist: "Adele", Album: "25"})
	return lib
}

func TestLibrarySearch(t *testing.T) {
	lib := seededLibrary()

	cases := []struct {
		query string
		want  int
	}{
		{"daft punk", 2},
		{"DAFT", 2},
		{"lucky", 1},
		{"discovery", 1}, // album match
		{"adele", 1},
		{"nothing here", 0},
		{"   ", 0},
	}
	for _, tc := range cases {
		got := Library(lib, tc.query)
		if len(got.Songs) != tc.want {
			t.Errorf("Library(%q) returned %d songs, want %d", tc.query, len(got.Songs), tc.want)
		}
	}
}

func TestLibrarySearchSorted(t *testing.T) {
	results := Library(seededLibrary(), "daft")
	if len(results.Songs) != 2 {
		t.Fatalf("got %d songs, want 2", len(results.Songs))
	}
	if results.Songs[0].DisplayName() > results.Songs[1].DisplayName() {
		t.Errorf("results not sorted: %q before %q",
			results.Songs[0].DisplayName(), results.Songs[1].DisplayName())
	}
}
