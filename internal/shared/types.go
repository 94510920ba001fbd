package shared

import (
	"errors"
	"fmt"
	"time"
)

// Music data structures
type Song struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Album      string    `json:"album,omitempty"`
	Genre      string    `json:"genre,omitempty"`
	Duration   int       `json:"duration,omitempty"` // seconds
	FilePath   string    `json:"filePath,omitempty"`
	FileSize   int64     `json:"fileSize,omitempty"`
	Quality    string    `json:"quality,omitempty"`
	Downloaded bool      `json:"downloaded"`
	PlayCount  int       `json:"playCount"`
	AddedAt    time.Time `json:"addedAt,omitempty"`
}

// DisplayName returns "Artist - Title" for console listings.
func (s *Song) DisplayName() string {
	return fmt.Sprintf("%s - %s", s.Artist, s.Title)
}

type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
}

type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

type Album struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Year   string `json:"year,omitempty"`
	Tracks []Song `json:"tracks"`
}

// DisplayName returns "Artist - Title" for console listings.
func (a *Album) DisplayName() string {
	return fmt.Sprintf("%s - %s", a.Artist, a.Title)
}

type Playlist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner,omitempty"`
	Songs []Song `json:"songs"`
}

// Download statistics for batch operations
type DownloadStats struct {
	SuccessCount int
	SkippedCount int
	FailedCount  int
	FailedItems  []string
}

// Spotify types
type SpotifyTrack struct {
	Name        string
	Artist      string
	AlbumName   string
	AlbumArtist string
}

// Navidrome types
type NavidromePlaylist struct {
	ID   string
	Name string
}

// VersionInfo is the published release descriptor the update check reads.
type VersionInfo struct {
	Version string `json:"version"`
}

// Input validation errors. These are the only errors the orchestrator's
// public API returns directly; everything else flows through task state.
var (
	ErrEmptyQuery = errors.New("download query cannot be empty")
	ErrNilUser    = errors.New("user cannot be nil")
)

// ErrExecutorUnavailable is returned when the external backend cannot be
// launched at all.
var ErrExecutorUnavailable = errors.New("download backend unavailable")

// DownloadError carries the external tool's failure text for a task that
// ran but did not produce a usable file.
type DownloadError struct {
	Query   string
	Message string
}

func (e *DownloadError) Error() string {
	if e.Query == "" {
		return e.Message
	}
	return fmt.Sprintf("download %q: %s", e.Query, e.Message)
}
