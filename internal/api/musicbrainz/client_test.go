package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const recordingJSON = `{
	"recordings": [
		{
			"id": "b1a9c0e9",
			"title": "Get Lucky",
			"length": 248000,
			"artist-credit": [{"artist": {"name": "Daft Punk"}}],
			"releases": [{"title": "Random Access Memories", "date": "2013-05-17"}]
		}
	]
}`

func testClient(server *httptest.Server) *Client {
	c := NewClient(false)
	c.baseURL = server.URL + "/"
	return c
}

func TestLookupRecording(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Error("request carries no User-Agent")
		}
		if got := r.URL.Query().Get("query"); got == "" {
			t.Error("request carries no query")
		}
		w.Write([]byte(recordingJSON))
	}))
	defer server.Close()

	rec, err := testClient(server).LookupRecording(context.Background(), "Daft Punk", "Get Lucky")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Album != "Random Access Memories" {
		t.Errorf("album = %q", rec.Album)
	}
	if rec.DurationSec != 248 {
		t.Errorf("duration = %d, want 248", rec.DurationSec)
	}
	if rec.Artist != "Daft Punk" || rec.Title != "Get Lucky" {
		t.Errorf("recording = %+v", rec)
	}
	if rec.ReleaseDate != "2013-05-17" {
		t.Errorf("release date = %q", rec.ReleaseDate)
	}
}

func TestLookupRecordingNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"recordings": []}`))
	}))
	defer server.Close()

	if _, err := testClient(server).LookupRecording(context.Background(), "Nobody", "Nothing"); err == nil {
		t.Error("expected error for empty result set")
	}
}

func TestLookupRecordingValidation(t *testing.T) {
	c := NewClient(false)
	if _, err := c.LookupRecording(context.Background(), "", "title"); err == nil {
		t.Error("empty artist accepted")
	}
	if _, err := c.LookupRecording(context.Background(), "artist", ""); err == nil {
		t.Error("empty title accepted")
	}
}
