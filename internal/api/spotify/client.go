// Package spotify imports playlist and album track lists from the Spotify
// Web API so they can be fed to the download queue as search queries.
package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"tunedeck/internal/shared"
)

// Client holds the spotify client and the app credentials
type Client struct {
	client *spotify.Client
	ID     string
	Secret string
}

// NewClient creates a new spotify client
func NewClient(id, secret string) *Client {
	return &Client{
		ID:     id,
		Secret: secret,
	}
}

// Authenticate authenticates the client with the spotify api using the
// client-credentials flow.
func (s *Client) Authenticate(ctx context.Context) error {
	if s.ID == "" || s.Secret == "" {
		return fmt.Errorf("spotify credentials not configured")
	}
	config := &clientcredentials.Config{
		ClientID:     s.ID,
		ClientSecret: s.Secret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return fmt.Errorf("spotify authentication failed: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	s.client = spotify.New(httpClient)
	return nil
}

// GetPlaylistTracks gets the tracks from a spotify playlist URL and returns
// them with the playlist name.
func (s *Client) GetPlaylistTracks(ctx context.Context, playlistURL string) ([]shared.SpotifyTrack, string, error) {
	id, err := resourceID(playlistURL, "playlist")
	if err != nil {
		return nil, "", err
	}

	playlist, err := s.client.GetPlaylist(ctx, spotify.ID(id))
	if err != nil {
		return nil, "", err
	}

	var tracks []shared.SpotifyTrack
	for _, item := range playlist.Tracks.Tracks {
		if len(item.Track.Artists) == 0 {
			continue
		}
		tracks = append(tracks, shared.SpotifyTrack{
			Name:      item.Track.Name,
			Artist:    item.Track.Artists[0].Name,
			AlbumName: item.Track.Album.Name,
		})
	}
	return tracks, playlist.Name, nil
}

// GetAlbumTracks gets the tracks from a spotify album URL and returns them
// with the album name.
func (s *Client) GetAlbumTracks(ctx context.Context, albumURL string) ([]shared.SpotifyTrack, string, error) {
	id, err := resourceID(albumURL, "album")
	if err != nil {
		return nil, "", err
	}

	album, err := s.client.GetAlbum(ctx, spotify.ID(id))
	if err != nil {
		return nil, "", err
	}

	var tracks []shared.SpotifyTrack
	for _, track := range album.Tracks.Tracks {
		if len(track.Artists) == 0 {
			continue
		}
		tracks = append(tracks, shared.SpotifyTrack{
			Name:        track.Name,
			Artist:      track.Artists[0].Name,
			AlbumName:   album.Name,
			AlbumArtist: album.Artists[0].Name,
		})
	}
	return tracks, album.Name, nil
}

// resourceID pulls the ID out of an open.spotify.com URL of the given kind.
func resourceID(rawURL, kind string) (string, error) {
	parts := strings.Split(rawURL, "/")
	if len(parts) < 5 || parts[3] != kind {
		return "", fmt.Errorf("invalid spotify %s URL: %s", kind, rawURL)
	}
	return strings.Split(parts[4], "?")[0], nil
}
