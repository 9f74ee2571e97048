// Spotify implementation of [Platform]
//
// Uses the client credentials flow; response types based on
// https://developer.spotify.com/documentation/web-api/reference/
package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/auxshare/auxd/internal/models"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	spotifyPageLimit = 100
)

// SpotifyURLPatterns are the URL signatures the registry uses to
// classify Spotify share links.
var SpotifyURLPatterns = []string{
	`open\.spotify\.com/(playlist|album|track)`,
	`spotify:(playlist|album|track):`,
}

var spotifyPlaylistIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`spotify\.com/playlist/([a-zA-Z0-9]+)`),
	regexp.MustCompile(`spotify:playlist:([a-zA-Z0-9]+)`),
}

type spotifyExternalIDs struct {
	ISRC string `json:"isrc"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Artists     []SpotifyArtist    `json:"artists"`
	Album       SpotifyAlbum       `json:"album"`
	DurationMS  int                `json:"duration_ms"`
	ExternalIDs spotifyExternalIDs `json:"external_ids"`
}

type spotifyPlaylistItem struct {
	Track *SpotifyTrack `json:"track"`
}

type spotifyTrackPage struct {
	Items []spotifyPlaylistItem `json:"items"`
	Next  *string               `json:"next"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
	} `json:"tracks"`
}

// SpotifyPlatform implements [Platform] for the Spotify Web API.
type SpotifyPlatform struct {
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyPlatform creates a Spotify platform client using the client
// credentials flow (no user authorization required for public playlists).
func NewSpotifyPlatform(clientID, clientSecret string) *SpotifyPlatform {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	client := conf.Client(context.Background())
	client.Timeout = 10 * time.Second

	return &SpotifyPlatform{
		baseURL:    spotifyBaseURL,
		httpClient: client,
	}
}

func (s *SpotifyPlatform) Name() string        { return "spotify" }
func (s *SpotifyPlatform) DisplayName() string { return "Spotify" }
func (s *SpotifyPlatform) CanExtract() bool    { return true }

// ExtractPlaylistID parses the playlist ID from open.spotify.com and
// spotify: URI forms.
func (s *SpotifyPlatform) ExtractPlaylistID(rawURL string) (string, error) {
	for _, re := range spotifyPlaylistIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1], nil
		}
	}
	return "", NewFetchError(s.Name(), "extract_playlist_id", FailureNotFound,
		fmt.Errorf("no playlist ID in %q", rawURL))
}

// GetPlaylistTracks fetches all tracks of a playlist, following pagination.
func (s *SpotifyPlatform) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d", url.PathEscape(playlistID), spotifyPageLimit)

	var tracks []models.Track
	for endpoint != "" {
		var page spotifyTrackPage
		if err := s.doRequest(ctx, "get_playlist_tracks", endpoint, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.Track == nil {
				continue // local or removed tracks have no track object
			}
			tracks = append(tracks, spotifyToTrack(*item.Track))
		}

		endpoint = ""
		if page.Next != nil {
			endpoint = strings.TrimPrefix(*page.Next, s.baseURL)
		}
	}

	return tracks, nil
}

// SearchByISRC looks up a track by ISRC using Spotify's isrc: query filter.
func (s *SpotifyPlatform) SearchByISRC(ctx context.Context, isrc string) (*models.MatchCandidate, error) {
	query := url.QueryEscape(fmt.Sprintf("isrc:%s", isrc))
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=1", query)

	var resp spotifySearchResponse
	if err := s.doRequest(ctx, "search_by_isrc", endpoint, &resp); err != nil {
		return nil, err
	}

	if len(resp.Tracks.Items) == 0 {
		return nil, nil
	}

	candidate := spotifyToCandidate(resp.Tracks.Items[0], s)
	return &candidate, nil
}

// SearchByMetadata searches with Spotify's track:/artist: field filters.
func (s *SpotifyPlatform) SearchByMetadata(ctx context.Context, title, artist string, limit int) ([]models.MatchCandidate, error) {
	query := url.QueryEscape(fmt.Sprintf("track:%s artist:%s", title, artist))
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", query, limit)

	var resp spotifySearchResponse
	if err := s.doRequest(ctx, "search_by_metadata", endpoint, &resp); err != nil {
		return nil, err
	}

	candidates := make([]models.MatchCandidate, 0, len(resp.Tracks.Items))
	for _, item := range resp.Tracks.Items {
		candidates = append(candidates, spotifyToCandidate(item, s))
	}
	return candidates, nil
}

// PlaybackLink returns a link playing the given tracks. Spotify has no
// multi-track deep link without creating a playlist, so this links the
// first track.
func (s *SpotifyPlatform) PlaybackLink(trackIDs []string) string {
	if len(trackIDs) == 0 {
		return ""
	}
	return s.TrackURL(trackIDs[0])
}

// TrackURL returns the canonical share URL for a track.
func (s *SpotifyPlatform) TrackURL(trackID string) string {
	return fmt.Sprintf("https://open.spotify.com/track/%s", trackID)
}

// doRequest performs an authenticated GET against the Spotify API and
// decodes the JSON response into result.
func (s *SpotifyPlatform) doRequest(ctx context.Context, op, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return NewFetchError(s.Name(), op, FailurePermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return NewFetchError(s.Name(), op, FailureTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewFetchError(s.Name(), op, kindFromStatus(resp.StatusCode),
			fmt.Errorf("spotify API error: status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return NewFetchError(s.Name(), op, FailureTransient,
			fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}

func spotifyToTrack(st SpotifyTrack) models.Track {
	track := models.Track{
		Title:      st.Name,
		Album:      st.Album.Name,
		ISRC:       st.ExternalIDs.ISRC,
		DurationMS: st.DurationMS,
		SourceID:   st.ID,
	}
	if len(st.Artists) > 0 {
		track.Artist = st.Artists[0].Name
	}
	return track
}

func spotifyToCandidate(st SpotifyTrack, s *SpotifyPlatform) models.MatchCandidate {
	candidate := models.MatchCandidate{
		TargetID: st.ID,
		Title:    st.Name,
		Album:    st.Album.Name,
		TrackURL: s.TrackURL(st.ID),
	}
	if len(st.Artists) > 0 {
		candidate.Artist = st.Artists[0].Name
	}
	return candidate
}
