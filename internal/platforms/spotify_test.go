package platforms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestSpotify(handler http.Handler) (*SpotifyPlatform, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return &SpotifyPlatform{baseURL: srv.URL, httpClient: srv.Client()}, srv
}

func TestSpotifyExtractPlaylistID(t *testing.T) {
	s := &SpotifyPlatform{}

	cases := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"share URL", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M", false},
		{"share URL with query", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc", "37i9dQZF1DXcBWIGoYBM5M", false},
		{"URI form", "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M", false},
		{"track URL has no playlist", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ExtractPlaylistID(tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestSpotifyGetPlaylistTracks(t *testing.T) {
	t.Run("follows pagination", func(t *testing.T) {
		var baseURL string
		s, srv := newTestSpotify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("offset") == "100" {
				fmt.Fprint(w, `{"items": [{"track": {"id": "t3", "name": "Three", "artists": [{"name": "C"}]}}], "next": null}`)
				return
			}
			fmt.Fprintf(w, `{
				"items": [
					{"track": {"id": "t1", "name": "One", "artists": [{"name": "A"}], "album": {"name": "Album"}, "duration_ms": 200000, "external_ids": {"isrc": "ISRC1"}}},
					{"track": null},
					{"track": {"id": "t2", "name": "Two", "artists": [{"name": "B"}]}}
				],
				"next": "%s/playlists/PL1/tracks?offset=100&limit=100"
			}`, baseURL)
		}))
		defer srv.Close()
		baseURL = srv.URL

		tracks, err := s.GetPlaylistTracks(context.Background(), "PL1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tracks) != 3 {
			t.Fatalf("expected 3 tracks across pages, got %d", len(tracks))
		}
		if tracks[0].ISRC != "ISRC1" || tracks[0].Artist != "A" || tracks[0].Album != "Album" {
			t.Errorf("unexpected first track: %+v", tracks[0])
		}
		if tracks[2].SourceID != "t3" {
			t.Errorf("expected paged track t3, got %q", tracks[2].SourceID)
		}
	})

	t.Run("maps 404 to not found", func(t *testing.T) {
		s, srv := newTestSpotify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := s.GetPlaylistTracks(context.Background(), "missing")
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected a FetchError, got %v", err)
		}
		if fe.Kind != FailureNotFound {
			t.Errorf("expected not_found, got %v", fe.Kind)
		}
	})

	t.Run("maps 500 to transient", func(t *testing.T) {
		s, srv := newTestSpotify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := s.GetPlaylistTracks(context.Background(), "PL1")
		if !IsTransient(err) {
			t.Errorf("expected a transient error, got %v", err)
		}
	})
}

func TestSpotifySearch(t *testing.T) {
	t.Run("SearchByISRC hit", func(t *testing.T) {
		s, srv := newTestSpotify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if q := r.URL.Query().Get("q"); q != "isrc:USUM71703861" {
				t.Errorf("unexpected query: %q", q)
			}
			fmt.Fprint(w, `{"tracks": {"items": [{"id": "t1", "name": "HUMBLE.", "artists": [{"name": "Kendrick Lamar"}]}]}}`)
		}))
		defer srv.Close()

		candidate, err := s.SearchByISRC(context.Background(), "USUM71703861")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if candidate == nil {
			t.Fatal("expected a candidate")
		}
		if candidate.TargetID != "t1" {
			t.Errorf("expected target t1, got %q", candidate.TargetID)
		}
		if candidate.TrackURL != "https://open.spotify.com/track/t1" {
			t.Errorf("unexpected track URL: %q", candidate.TrackURL)
		}
	})

	t.Run("SearchByISRC miss returns nil", func(t *testing.T) {
		s, srv := newTestSpotify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"tracks": {"items": []}}`)
		}))
		defer srv.Close()

		candidate, err := s.SearchByISRC(context.Background(), "NOPE")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if candidate != nil {
			t.Errorf("expected no candidate, got %+v", candidate)
		}
	})

	t.Run("SearchByMetadata builds field filters", func(t *testing.T) {
		s, srv := newTestSpotify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if q := r.URL.Query().Get("q"); q != "track:Nightcall artist:Kavinsky" {
				t.Errorf("unexpected query: %q", q)
			}
			if limit := r.URL.Query().Get("limit"); limit != "5" {
				t.Errorf("unexpected limit: %q", limit)
			}
			fmt.Fprint(w, `{"tracks": {"items": [
				{"id": "t1", "name": "Nightcall", "artists": [{"name": "Kavinsky"}]},
				{"id": "t2", "name": "Nightcall - Live", "artists": [{"name": "Kavinsky"}]}
			]}}`)
		}))
		defer srv.Close()

		candidates, err := s.SearchByMetadata(context.Background(), "Nightcall", "Kavinsky", 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(candidates))
		}
		if candidates[0].Artist != "Kavinsky" {
			t.Errorf("unexpected artist: %q", candidates[0].Artist)
		}
	})
}

func TestSpotifyLinks(t *testing.T) {
	s := &SpotifyPlatform{}

	if got := s.TrackURL("abc"); got != "https://open.spotify.com/track/abc" {
		t.Errorf("unexpected track URL: %q", got)
	}
	if got := s.PlaybackLink([]string{"abc", "def"}); got != "https://open.spotify.com/track/abc" {
		t.Errorf("expected first-track link, got %q", got)
	}
	if got := s.PlaybackLink(nil); got != "" {
		t.Errorf("expected empty link for no tracks, got %q", got)
	}
}
