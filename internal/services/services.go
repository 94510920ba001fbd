// Package services wires the application together: one ServiceContainer is
// constructed at startup and handed to the console commands. No package
// holds process-wide mutable state; everything flows through the container.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tunedeck/internal/api/musicbrainz"
	"tunedeck/internal/api/navidrome"
	"tunedeck/internal/api/spotify"
	"tunedeck/internal/cache"
	"tunedeck/internal/config"
	"tunedeck/internal/core/cleanup"
	"tunedeck/internal/core/orchestrator"
	"tunedeck/internal/core/tagger"
	"tunedeck/internal/executor"
	"tunedeck/internal/interfaces"
	"tunedeck/internal/library"
	"tunedeck/internal/shared"
)

const shutdownGrace = 10 * time.Second

var _ interfaces.DownloadOrchestrator = (*orchestrator.Orchestrator)(nil)

// ServiceContainer holds all application services
type ServiceContainer struct {
	Config           *config.Config
	Library          *library.Library
	Executor         executor.Executor
	Orchestrator     interfaces.DownloadOrchestrator
	Tagger           *tagger.Tagger
	Cleanup          *cleanup.SessionCleanup
	Spotify          interfaces.SpotifyService
	Navidrome        *navidrome.Client
	Logger           interfaces.LoggerService
	WarningCollector *shared.WarningCollector
}

// NewServiceContainer creates a new service container with all services
// initialized and the download orchestrator running.
func NewServiceContainer(cfg *config.Config, debug bool) (*ServiceContainer, error) {
	cfg.ApplyDefaults()

	logger := NewConsoleLogger()
	logger.SetDebugMode(debug)

	warningCollector := shared.NewWarningCollector(cfg.WarningBehavior != "silent")

	if err := config.CreateDirIfNotExists(cfg.DownloadLocation); err != nil {
		return nil, fmt.Errorf("cannot create download directory: %w", err)
	}

	lib, err := library.Load(cfg.LibraryFile)
	if err != nil {
		return nil, fmt.Errorf("cannot load library: %w", err)
	}

	exec := executor.NewSpotdlExecutor(cfg, debug)
	results := cache.New(cfg.CacheCapacity)
	orch := orchestrator.New(exec, lib, results, warningCollector, cfg.Parallelism)

	tag := tagger.New(warningCollector)
	tagListener := &taggingListener{tagger: tag, lib: lib, warnings: warningCollector}
	if !cfg.DisableMetadataEnrichment {
		tagListener.meta = musicbrainz.NewClient(debug)
	}
	orch.AddDownloadListener(tagListener)

	return &ServiceContainer{
		Config:           cfg,
		Library:          lib,
		Executor:         exec,
		Orchestrator:     orch,
		Tagger:           tag,
		Cleanup:          cleanup.New(lib, warningCollector),
		Spotify:          spotify.NewClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret),
		Navidrome:        navidrome.NewClient(cfg.NavidromeURL, cfg.NavidromeUsername, cfg.NavidromePassword),
		Logger:           logger,
		WarningCollector: warningCollector,
	}, nil
}

// Shutdown drains the orchestrator and persists the library. Session
// cleanup is separate: one-shot commands keep everything they download,
// only the interactive console discards unplayed session files on exit.
func (sc *ServiceContainer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := sc.Orchestrator.Shutdown(ctx); err != nil {
		sc.Logger.Warning("%v", err)
	}

	if err := sc.Library.Save(); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}

	if sc.Config.WarningBehavior == "summary" {
		sc.WarningCollector.DisplaySummary()
	}
	return nil
}

// RunSessionCleanup deletes files downloaded this session that were never
// played. Call before Shutdown when ending an interactive session.
func (sc *ServiceContainer) RunSessionCleanup() int {
	return sc.Cleanup.Run(sc.Orchestrator.SessionFiles())
}

// PlaySong resolves a query against the library and starts playback,
// counting the play on success.
func (sc *ServiceContainer) PlaySong(ctx context.Context, query string) (*shared.Song, error) {
	song := sc.Library.FindByQuery(query)
	if song == nil || !song.Downloaded {
		return nil, fmt.Errorf("no downloaded song matches %q", query)
	}

	started, err := sc.Executor.PlayFile(ctx, song.FilePath)
	if err != nil {
		return nil, err
	}
	if !started {
		return nil, fmt.Errorf("backend could not start playback of %s", song.FilePath)
	}

	sc.Library.MarkPlayed(song.FilePath)
	return song, nil
}

// ImportSpotifyPlaylist fetches a Spotify playlist (or album) track list,
// stores it as a local playlist, and queues downloads for every track.
func (sc *ServiceContainer) ImportSpotifyPlaylist(ctx context.Context, spotifyURL string, user *shared.User) (*shared.Playlist, []*orchestrator.DownloadTask, error) {
	if err := sc.Spotify.Authenticate(ctx); err != nil {
		return nil, nil, err
	}

	var tracks []shared.SpotifyTrack
	var name string
	var err error
	if isAlbumURL(spotifyURL) {
		tracks, name, err = sc.Spotify.GetAlbumTracks(ctx, spotifyURL)
	} else {
		tracks, name, err = sc.Spotify.GetPlaylistTracks(ctx, spotifyURL)
	}
	if err != nil {
		return nil, nil, err
	}

	pl := shared.Playlist{Name: name, Owner: user.Username}
	for _, t := range tracks {
		pl.Songs = append(pl.Songs, shared.Song{
			Title:  t.Name,
			Artist: t.Artist,
			Album:  t.AlbumName,
		})
	}
	stored := sc.Library.AddPlaylist(pl)

	tasks, err := sc.Orchestrator.QueuePlaylistDownload(stored, user)
	return stored, tasks, err
}

// ExportPlaylistToNavidrome creates the named local playlist on the
// configured Navidrome server and fills it with matching server tracks.
func (sc *ServiceContainer) ExportPlaylistToNavidrome(name string) (int, error) {
	pl := sc.Library.FindPlaylist(name)
	if pl == nil {
		return 0, fmt.Errorf("no local playlist named %q", name)
	}

	if err := sc.Navidrome.Authenticate(); err != nil {
		return 0, err
	}
	if err := sc.Navidrome.CreatePlaylist(pl.Name); err != nil {
		return 0, err
	}
	playlistID, err := sc.Navidrome.SearchPlaylist(pl.Name)
	if err != nil {
		return 0, err
	}
	if playlistID == "" {
		return 0, fmt.Errorf("playlist %q not found on server after creation", pl.Name)
	}

	var trackIDs []string
	for _, song := range pl.Songs {
		match, err := sc.Navidrome.SearchTrack(song.Title, song.Artist)
		if err != nil || match == nil {
			sc.WarningCollector.AddWarning(shared.PlaylistExportWarning, song.DisplayName(), "Track not found on server", "")
			continue
		}
		trackIDs = append(trackIDs, match.ID)
	}
	if len(trackIDs) == 0 {
		return 0, fmt.Errorf("none of the playlist's %d tracks were found on the server", len(pl.Songs))
	}

	if err := sc.Navidrome.AddTracksToPlaylist(playlistID, trackIDs); err != nil {
		return 0, err
	}
	return len(trackIDs), nil
}

func isAlbumURL(spotifyURL string) bool {
	return strings.Contains(spotifyURL, "/album/")
}

const enrichTimeout = 10 * time.Second

// taggingListener enriches completed downloads with MusicBrainz metadata
// and writes tags into FLAC files as they finish.
type taggingListener struct {
	tagger   *tagger.Tagger
	meta     *musicbrainz.Client // nil disables enrichment
	lib      *library.Library
	warnings *shared.WarningCollector
}

func (tl *taggingListener) OnDownloadStarted(task *orchestrator.DownloadTask)                    {}
func (tl *taggingListener) OnDownloadProgress(task *orchestrator.DownloadTask, progress float64) {}
func (tl *taggingListener) OnDownloadFailed(task *orchestrator.DownloadTask, errMsg string)      {}
func (tl *taggingListener) OnDownloadCancelled(task *orchestrator.DownloadTask)                  {}

func (tl *taggingListener) OnDownloadCompleted(task *orchestrator.DownloadTask, song *shared.Song) {
	tagged := *song
	if tl.meta != nil {
		ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
		defer cancel()
		if rec, err := tl.meta.LookupRecording(ctx, song.Artist, song.Title); err == nil {
			tl.lib.SetMetadata(song.ID, rec.Album, "", rec.DurationSec)
			if tagged.Album == "" {
				tagged.Album = rec.Album
			}
			if tagged.Duration == 0 {
				tagged.Duration = rec.DurationSec
			}
		}
	}
	if err := tl.tagger.TagDownload(&tagged); err != nil {
		tl.warnings.AddTagWriteWarning(song.Artist, song.Title, err.Error())
	}
}
