// Package search filters the local library. Matching is plain
// case-insensitive substring over title, artist and album.
package search

import (
	"sort"
	"strings"

	"tunedeck/internal/library"
	"tunedeck/internal/shared"
)

// Results groups library matches for console display.
type Results struct {
	Songs []shared.Song
}

// Library searches the library for songs matching the query text.
func Library(lib *library.Library, query string) *Results {
	norm := shared.NormalizeQuery(query)
	results := &Results{}
	if norm == "" {
		return results
	}

	for _, song := range lib.Songs() {
		if matches(&song, norm) {
			results.Songs = append(results.Songs, song)
		}
	}
	sort.Slice(results.Songs, func(i, j int) bool {
		return results.Songs[i].DisplayName() < results.Songs[j].DisplayName()
	})
	return results
}

func matches(song *shared.Song, norm string) bool {
	return strings.Contains(shared.NormalizeQuery(song.Title), norm) ||
		strings.Contains(shared.NormalizeQuery(song.Artist), norm) ||
		strings.Contains(shared.NormalizeQuery(song.Album), norm)
}
