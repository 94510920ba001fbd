// Package library holds the on-disk music library: every song the player
// knows about, download state and play counts included. Persistence is
// whole-object JSON with an atomic rename, good enough for a single-process
// console player.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tunedeck/internal/shared"
)

type libraryFile struct {
	Songs     []shared.Song     `json:"songs"`
	Playlists []shared.Playlist `json:"playlists,omitempty"`
}

// Library is the searchable index over owned songs. Safe for concurrent use.
type Library struct {
	mu        sync.RWMutex
	filePath  string
	songs     map[string]*shared.Song // song ID -> song
	byQuery   map[string]string       // normalized "artist title" -> song ID
	playlists map[string]*shared.Playlist
}

// New creates an empty library persisted at filePath. An empty filePath
// disables persistence (used by tests).
func New(filePath string) *Library {
	return &Library{
		filePath:  filePath,
		songs:     make(map[string]*shared.Song),
		byQuery:   make(map[string]string),
		playlists: make(map[string]*shared.Playlist),
	}
}

// Load reads the library file if it exists. A missing file is not an error:
// the library starts empty.
func Load(filePath string) (*Library, error) {
	lib := New(filePath)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, fmt.Errorf("failed to read library file: %w", err)
	}

	var content libraryFile
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal library: %w", err)
	}
	for i := range content.Songs {
		song := content.Songs[i]
		lib.songs[song.ID] = &song
		lib.index(&song)
	}
	for i := range content.Playlists {
		pl := content.Playlists[i]
		lib.playlists[pl.ID] = &pl
	}
	return lib, nil
}

// Save writes the whole library to disk via a temp file and rename.
func (l *Library) Save() error {
	l.mu.RLock()
	content := libraryFile{
		Songs:     make([]shared.Song, 0, len(l.songs)),
		Playlists: make([]shared.Playlist, 0, len(l.playlists)),
	}
	for _, s := range l.songs {
		content.Songs = append(content.Songs, *s)
	}
	for _, p := range l.playlists {
		content.Playlists = append(content.Playlists, *p)
	}
	l.mu.RUnlock()

	if l.filePath == "" {
		return nil
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal library: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}
	tmp := l.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write library file: %w", err)
	}
	return os.Rename(tmp, l.filePath)
}

// Add stores a song and indexes it for query lookups. A song with no ID
// gets one assigned. The stored copy is returned.
func (l *Library) Add(song shared.Song) *shared.Song {
	l.mu.Lock()
	defer l.mu.Unlock()

	if song.ID == "" {
		song.ID = uuid.NewString()
	}
	if song.AddedAt.IsZero() {
		song.AddedAt = time.Now()
	}
	stored := song
	l.songs[stored.ID] = &stored
	l.index(&stored)
	return &stored
}

// FindByQuery returns the song matching the query, or nil. Callers that
// need a playable file must check Downloaded themselves. An exact
// normalized "artist title" hit wins; otherwise the first song whose display
// name contains the query is returned.
func (l *Library) FindByQuery(query string) *shared.Song {
	norm := shared.NormalizeQuery(query)
	if norm == "" {
		return nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if id, ok := l.byQuery[norm]; ok {
		if song, ok := l.songs[id]; ok {
			copied := *song
			return &copied
		}
	}
	for _, song := range l.songs {
		if strings.Contains(shared.NormalizeQuery(song.DisplayName()), norm) {
			copied := *song
			return &copied
		}
	}
	return nil
}

// Get returns a copy of the song with the given ID.
func (l *Library) Get(id string) (*shared.Song, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	song, ok := l.songs[id]
	if !ok {
		return nil, false
	}
	copied := *song
	return &copied, true
}

// SetMetadata fills album, genre and duration on a stored song. Empty or
// zero arguments leave the existing value alone.
func (l *Library) SetMetadata(id, album, genre string, durationSec int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	song, ok := l.songs[id]
	if !ok {
		return false
	}
	if album != "" {
		song.Album = album
	}
	if genre != "" {
		song.Genre = genre
	}
	if durationSec > 0 {
		song.Duration = durationSec
	}
	return true
}

// MarkPlayed increments the play count of the song owning filePath.
// It returns false when no library song references that file.
func (l *Library) MarkPlayed(filePath string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, song := range l.songs {
		if song.FilePath == filePath {
			song.PlayCount++
			return true
		}
	}
	return false
}

// PlayCountByPath returns the play count for the song owning filePath.
func (l *Library) PlayCountByPath(filePath string) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, song := range l.songs {
		if song.FilePath == filePath {
			return song.PlayCount, true
		}
	}
	return 0, false
}

// Songs returns a snapshot of all songs.
func (l *Library) Songs() []shared.Song {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]shared.Song, 0, len(l.songs))
	for _, s := range l.songs {
		out = append(out, *s)
	}
	return out
}

// Size returns the number of songs in the library.
func (l *Library) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.songs)
}

// AddPlaylist stores a playlist, assigning an ID when missing.
func (l *Library) AddPlaylist(pl shared.Playlist) *shared.Playlist {
	l.mu.Lock()
	defer l.mu.Unlock()
	if pl.ID == "" {
		pl.ID = uuid.NewString()
	}
	stored := pl
	l.playlists[stored.ID] = &stored
	return &stored
}

// FindPlaylist returns the first playlist with the given name.
func (l *Library) FindPlaylist(name string) *shared.Playlist {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, pl := range l.playlists {
		if strings.EqualFold(pl.Name, name) {
			copied := *pl
			return &copied
		}
	}
	return nil
}

// Playlists returns a snapshot of all playlists.
func (l *Library) Playlists() []shared.Playlist {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]shared.Playlist, 0, len(l.playlists))
	for _, p := range l.playlists {
		out = append(out, *p)
	}
	return out
}

func (l *Library) index(song *shared.Song) {
	key := shared.NormalizeQuery(song.Artist + " " + song.Title)
	if key != "" && key != " " {
		l.byQuery[key] = song.ID
	}
}
