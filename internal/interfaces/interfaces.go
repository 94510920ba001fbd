// Package interfaces defines the contracts the console layer programs
// against, so commands stay thin and testable with fakes.
package interfaces

import (
	"context"

	"tunedeck/internal/core/orchestrator"
	"tunedeck/internal/shared"
)

// DownloadOrchestrator is the download surface exposed to the console
// layer. Implemented by orchestrator.Orchestrator.
type DownloadOrchestrator interface {
	// QueueDownload enqueues a download request; it never blocks.
	QueueDownload(query string, user *shared.User) (*orchestrator.DownloadTask, error)

	// CancelDownload cancels a queued or in-flight task by id.
	CancelDownload(taskID string) bool

	// GetDownloadStatus returns the task with the given id, or nil.
	GetDownloadStatus(taskID string) *orchestrator.DownloadTask

	// GetActiveDownloads returns currently DOWNLOADING tasks.
	GetActiveDownloads() []*orchestrator.DownloadTask

	// GetQueuedDownloads returns still-queued tasks in FIFO order.
	GetQueuedDownloads() []*orchestrator.DownloadTask

	// GetQueueSize returns the number of waiting tasks.
	GetQueueSize() int

	// IsDownloading reports whether any download is active.
	IsDownloading() bool

	// QueuePlaylistDownload queues every not-yet-downloaded playlist song.
	QueuePlaylistDownload(playlist *shared.Playlist, user *shared.User) ([]*orchestrator.DownloadTask, error)

	// QueueAlbumDownload queues every not-yet-downloaded album track.
	QueueAlbumDownload(album *shared.Album, user *shared.User) ([]*orchestrator.DownloadTask, error)

	// AddDownloadListener registers a lifecycle listener.
	AddDownloadListener(l orchestrator.DownloadListener)

	// RemoveDownloadListener unregisters a lifecycle listener.
	RemoveDownloadListener(l orchestrator.DownloadListener)

	// SessionFiles returns the paths produced during this process lifetime.
	SessionFiles() []string

	// Shutdown stops accepting work and waits for in-flight downloads.
	Shutdown(ctx context.Context) error
}

// LoggerService abstracts console logging for services
type LoggerService interface {
	Info(message string, args ...interface{})
	Warning(message string, args ...interface{})
	Error(message string, args ...interface{})
	Debug(message string, args ...interface{})
	Success(message string, args ...interface{})
	SetDebugMode(enabled bool)
}

// SpotifyService defines the interface for Spotify playlist import
type SpotifyService interface {
	Authenticate(ctx context.Context) error
	GetPlaylistTracks(ctx context.Context, playlistURL string) ([]shared.SpotifyTrack, string, error)
	GetAlbumTracks(ctx context.Context, albumURL string) ([]shared.SpotifyTrack, string, error)
}
