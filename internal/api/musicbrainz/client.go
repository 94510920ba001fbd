// Package musicbrainz fills in the metadata the download backend cannot
// provide. File names only carry artist and title; album, release date and
// duration come from a MusicBrainz recording lookup.
package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"tunedeck/internal/shared"
)

const (
	defaultBaseURL   = "https://musicbrainz.org/ws/2/"
	defaultUserAgent = "tunedeck/1.0 ( https://github.com/tunedeck/tunedeck )"
	defaultTimeout   = 30 * time.Second

	// MusicBrainz allows roughly 3 requests per second for anonymous use.
	defaultRateLimit  = 333 * time.Millisecond
	defaultBurstLimit = 3

	defaultMaxRetries   = 3
	defaultInitialDelay = 2 * time.Second
)

// Client is a minimal MusicBrainz API client for recording lookups.
type Client struct {
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a MusicBrainz client with default limits.
func NewClient(debug bool) *Client {
	return &Client{
		baseURL:     defaultBaseURL,
		userAgent:   defaultUserAgent,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(rate.Every(defaultRateLimit), defaultBurstLimit),
		debug:       debug,
	}
}

// Recording is the subset of a MusicBrainz recording tunedeck cares about.
type Recording struct {
	ID          string
	Title       string
	Artist      string
	Album       string
	ReleaseDate string
	DurationSec int
}

// LookupRecording searches for the best recording match by artist and title.
func (c *Client) LookupRecording(ctx context.Context, artist, title string) (*Recording, error) {
	if artist == "" || title == "" {
		return nil, fmt.Errorf("artist and title cannot be empty")
	}

	query := fmt.Sprintf("artist:%q AND recording:%q", artist, title)
	path := fmt.Sprintf("recording?query=%s&limit=1", url.QueryEscape(query))

	body, err := c.getWithRetry(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to look up recording: %w", err)
	}

	var result struct {
		Recordings []recording `json:"recordings"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recording search result: %w", err)
	}
	if len(result.Recordings) == 0 {
		return nil, fmt.Errorf("no recording found for %s - %s", artist, title)
	}
	return result.Recordings[0].toRecording(), nil
}

func (c *Client) getWithRetry(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := shared.RetryWithBackoff(defaultMaxRetries, defaultInitialDelay, func() error {
		var err error
		body, err = c.get(ctx, path)
		return err
	})
	return body, err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	shared.DebugPrint(c.debug, "musicbrainz GET %s", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("musicbrainz returned %s", resp.Status)
	}
	return body, nil
}

// Wire types, trimmed to the fields the lookup reads.

type artistCredit struct {
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type release struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

type recording struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Length       int            `json:"length"` // milliseconds
	ArtistCredit []artistCredit `json:"artist-credit"`
	Releases     []release      `json:"releases"`
}

func (r recording) toRecording() *Recording {
	out := &Recording{
		ID:          r.ID,
		Title:       r.Title,
		DurationSec: r.Length / 1000,
	}
	if len(r.ArtistCredit) > 0 {
		out.Artist = r.ArtistCredit[0].Artist.Name
	}
	if len(r.Releases) > 0 {
		out.Album = r.Releases[0].Title
		out.ReleaseDate = r.Releases[0].Date
	}
	return out
}
