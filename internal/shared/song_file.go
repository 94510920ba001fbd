package shared

import (
	"os"
	"path/filepath"
	"time"
)

// defaultQuality is what the backend produces when spotdl is not told
// otherwise.
const defaultQuality = "192k"

// SongFromFile wraps a downloaded audio file into a Song, deriving artist
// and title from the file name (see ParseArtistTitle for the heuristic and
// its fallbacks).
func SongFromFile(filePath, originalQuery string) *Song {
	artist, title := ParseArtistTitle(filepath.Base(filePath), originalQuery)

	song := &Song{
		Title:      title,
		Artist:     artist,
		FilePath:   filePath,
		Quality:    defaultQuality,
		Downloaded: true,
		AddedAt:    time.Now(),
	}
	if info, err := os.Stat(filePath); err == nil {
		song.FileSize = info.Size()
	}
	return song
}
