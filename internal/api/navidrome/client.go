// Package navidrome pushes locally downloaded playlists to a Navidrome (or
// any subsonic-compatible) server.
package navidrome

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	subsonic "github.com/delucks/go-subsonic"
)

const (
	apiVersion = "1.16.1"
	clientName = "tunedeck"
)

// Client holds the navidrome connection state
type Client struct {
	URL      string
	Username string
	Password string
	Client   subsonic.Client
	Salt     string
	Token    string
}

// NewClient creates a new navidrome client
func NewClient(serverURL, username, password string) *Client {
	return &Client{
		URL:      serverURL,
		Username: username,
		Password: password,
	}
}

// Authenticate pings the server for a salt, derives the salted token, and
// authenticates the underlying subsonic client.
func (n *Client) Authenticate() error {
	if n.URL == "" {
		return fmt.Errorf("navidrome URL not configured")
	}

	pingURL := fmt.Sprintf("%s/rest/ping.view?u=%s&p=%s&v=%s&c=%s&f=json",
		n.URL, url.QueryEscape(n.Username), url.QueryEscape(n.Password), apiVersion, clientName)
	resp, err := http.Get(pingURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pingResponse struct {
		SubsonicResponse struct {
			Status string `json:"status"`
			Salt   string `json:"salt"`
		} `json:"subsonic-response"`
	}
	if err := json.Unmarshal(body, &pingResponse); err != nil {
		return err
	}
	if pingResponse.SubsonicResponse.Status != "ok" {
		return fmt.Errorf("navidrome ping failed: %s", pingResponse.SubsonicResponse.Status)
	}

	n.Salt = pingResponse.SubsonicResponse.Salt
	n.Token = saltedToken(n.Password, n.Salt)

	n.Client = subsonic.Client{
		Client:       http.DefaultClient,
		BaseUrl:      n.URL,
		User:         n.Username,
		ClientName:   clientName,
		PasswordAuth: true,
	}
	return n.Client.Authenticate(n.Password)
}

// SearchTrack looks the song up on the server: combined "title artist"
// query first, exact match preferred, first fuzzy hit as best guess.
func (n *Client) SearchTrack(title, artist string) (*subsonic.Child, error) {
	combined := fmt.Sprintf("%s %s", title, artist)
	searchResult, err := n.Client.Search2(combined, map[string]string{"songCount": "5"})
	if err != nil {
		return nil, fmt.Errorf("navidrome search for %q failed: %w", combined, err)
	}
	if searchResult == nil || len(searchResult.Song) == 0 {
		return nil, nil
	}
	for _, song := range searchResult.Song {
		if strings.EqualFold(song.Title, title) && strings.EqualFold(song.Artist, artist) {
			return song, nil
		}
	}
	return searchResult.Song[0], nil
}

// CreatePlaylist creates a new playlist on the server.
func (n *Client) CreatePlaylist(name string) error {
	data := url.Values{}
	data.Set("name", name)
	return n.restCall("createPlaylist", data)
}

// SearchPlaylist returns the ID of the server playlist with the given
// name, or empty when there is none.
func (n *Client) SearchPlaylist(name string) (string, error) {
	playlists, err := n.Client.GetPlaylists(nil)
	if err != nil {
		return "", err
	}
	for _, pl := range playlists {
		if strings.EqualFold(pl.Name, name) {
			return pl.ID, nil
		}
	}
	return "", nil
}

// AddTracksToPlaylist appends the given server song IDs to a playlist.
func (n *Client) AddTracksToPlaylist(playlistID string, trackIDs []string) error {
	data := url.Values{}
	data.Set("playlistId", playlistID)
	for _, id := range trackIDs {
		data.Add("songIdToAdd", id)
	}
	return n.restCall("updatePlaylist", data)
}

// restCall issues an authenticated subsonic REST request and checks for a
// 200 response.
func (n *Client) restCall(endpoint string, data url.Values) error {
	callURL := fmt.Sprintf("%s/rest/%s.view?%s&u=%s&t=%s&s=%s&v=%s&c=%s&f=json",
		n.URL, endpoint, data.Encode(), url.QueryEscape(n.Username), n.Token, n.Salt, apiVersion, clientName)

	resp, err := http.Get(callURL)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s failed: status code %d, body: %s", endpoint, resp.StatusCode, string(body))
	}
	return nil
}

func saltedToken(password, salt string) string {
	hash := md5.Sum([]byte(password + salt))
	return hex.EncodeToString(hash[:])
}
