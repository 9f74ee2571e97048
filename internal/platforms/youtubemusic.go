// YouTube Music implementation of [Platform]
//
// Communicates with the ytmusicapi proxy server; no official YouTube
// Music API exists for search or playlist reads.
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
)

const defaultYTMusicProxyURL = "http://localhost:8080"

// YouTubeMusicURLPatterns are the URL signatures for YouTube Music links.
var YouTubeMusicURLPatterns = []string{
	`music\.youtube\.com/(playlist|watch)`,
}

var ytMusicPlaylistIDPattern = regexp.MustCompile(`list=([a-zA-Z0-9_-]+)`)

// YTMusicArtist represents an artist in proxy responses.
type YTMusicArtist struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type ytMusicAlbum struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// YTMusicTrack represents a track/video in proxy responses.
type YTMusicTrack struct {
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	Artists     []YTMusicArtist `json:"artists"`
	Album       *ytMusicAlbum   `json:"album"`
	DurationSec int             `json:"duration_seconds"`
	ISRC        string          `json:"isrc,omitempty"`
}

type ytMusicPlaylist struct {
	ID     string         `json:"id"`
	Title  string         `json:"title"`
	Tracks []YTMusicTrack `json:"tracks"`
}

// YouTubeMusicPlatform implements [Platform] via the ytmusicapi proxy.
type YouTubeMusicPlatform struct {
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeMusicPlatform creates a YouTube Music platform client
// pointed at the given proxy URL.
func NewYouTubeMusicPlatform(proxyURL string) *YouTubeMusicPlatform {
	if proxyURL == "" {
		proxyURL = defaultYTMusicProxyURL
	}

	return &YouTubeMusicPlatform{
		baseURL:    proxyURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (y *YouTubeMusicPlatform) Name() string        { return "youtube_music" }
func (y *YouTubeMusicPlatform) DisplayName() string { return "YouTube Music" }
func (y *YouTubeMusicPlatform) CanExtract() bool    { return true }

// ExtractPlaylistID parses the list= parameter out of a playlist URL.
func (y *YouTubeMusicPlatform) ExtractPlaylistID(rawURL string) (string, error) {
	if m := ytMusicPlaylistIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}
	return "", NewFetchError(y.Name(), "extract_playlist_id", FailureNotFound,
		fmt.Errorf("no playlist ID in %q", rawURL))
}

// GetPlaylistTracks fetches a playlist with all tracks from the proxy.
func (y *YouTubeMusicPlatform) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/api/playlists/%s", url.PathEscape(playlistID))

	var playlist ytMusicPlaylist
	if err := y.doRequest(ctx, "get_playlist_tracks", endpoint, &playlist); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(playlist.Tracks))
	for _, item := range playlist.Tracks {
		track := models.Track{
			Title:      item.Title,
			ISRC:       item.ISRC,
			DurationMS: item.DurationSec * 1000,
			SourceID:   item.VideoID,
		}
		if len(item.Artists) > 0 {
			track.Artist = item.Artists[0].Name
		}
		if item.Album != nil {
			track.Album = item.Album.Name
		}
		tracks = append(tracks, track)
	}

	return tracks, nil
}

// SearchByISRC returns no candidate: the proxy's search endpoint has no
// ISRC filter.
func (y *YouTubeMusicPlatform) SearchByISRC(ctx context.Context, isrc string) (*models.MatchCandidate, error) {
	return nil, nil
}

// SearchByMetadata searches the proxy's song index.
func (y *YouTubeMusicPlatform) SearchByMetadata(ctx context.Context, title, artist string, limit int) ([]models.MatchCandidate, error) {
	query := url.QueryEscape(fmt.Sprintf("%s %s", title, artist))
	endpoint := fmt.Sprintf("/api/search?q=%s&filter=songs&limit=%d", query, limit)

	var results []YTMusicTrack
	if err := y.doRequest(ctx, "search_by_metadata", endpoint, &results); err != nil {
		return nil, err
	}

	candidates := make([]models.MatchCandidate, 0, len(results))
	for _, result := range results {
		candidate := models.MatchCandidate{
			TargetID: result.VideoID,
			Title:    result.Title,
			TrackURL: y.TrackURL(result.VideoID),
		}
		if len(result.Artists) > 0 {
			candidate.Artist = result.Artists[0].Name
		}
		if result.Album != nil {
			candidate.Album = result.Album.Name
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// PlaybackLink builds a watch URL, chaining additional tracks via list=.
func (y *YouTubeMusicPlatform) PlaybackLink(trackIDs []string) string {
	if len(trackIDs) == 0 {
		return ""
	}
	if len(trackIDs) == 1 {
		return y.TrackURL(trackIDs[0])
	}
	return fmt.Sprintf("https://music.youtube.com/watch?v=%s&list=%s",
		trackIDs[0], strings.Join(trackIDs, ","))
}

// TrackURL returns the watch URL for a single video.
func (y *YouTubeMusicPlatform) TrackURL(trackID string) string {
	return fmt.Sprintf("https://music.youtube.com/watch?v=%s", trackID)
}

func (y *YouTubeMusicPlatform) doRequest(ctx context.Context, op, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+endpoint, nil)
	if err != nil {
		return NewFetchError(y.Name(), op, FailurePermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return NewFetchError(y.Name(), op, FailureTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return NewFetchError(y.Name(), op, kindFromStatus(resp.StatusCode),
				fmt.Errorf("youtube music proxy error (status %d): %s", resp.StatusCode, errResp.Detail))
		}
		return NewFetchError(y.Name(), op, kindFromStatus(resp.StatusCode),
			fmt.Errorf("youtube music proxy error: status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return NewFetchError(y.Name(), op, FailureTransient,
			fmt.Errorf("failed to decode response: %w", err))
	}

	return nil
}
