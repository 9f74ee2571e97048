// Apple Music implementation of [Platform]
//
// Backed by the free iTunes Search API: no authentication, but no
// playlist read access either, so Apple Music is a target-only catalog.
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
	"golang.org/x/time/rate"
)

const itunesBaseURL = "https://itunes.apple.com"

// AppleMusicURLPatterns are the URL signatures for Apple Music share links.
var AppleMusicURLPatterns = []string{
	`music\.apple\.com/.+/(playlist|album|song)`,
}

var appleMusicIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`playlist/[^/]+/(pl\.[a-zA-Z0-9-]+)`),
	regexp.MustCompile(`album/[^/]+/(\d+)`),
}

type itunesResult struct {
	TrackID          int64  `json:"trackId"`
	TrackName        string `json:"trackName"`
	ArtistName       string `json:"artistName"`
	CollectionName   string `json:"collectionName"`
	TrackTimeMillis  int    `json:"trackTimeMillis"`
	PreviewURL       string `json:"previewUrl"`
	TrackViewURL     string `json:"trackViewUrl"`
	ArtworkURL100    string `json:"artworkUrl100"`
	PrimaryGenreName string `json:"primaryGenreName"`
}

type itunesSearchResponse struct {
	ResultCount int            `json:"resultCount"`
	Results     []itunesResult `json:"results"`
}

// AppleMusicPlatform implements [Platform] over the iTunes Search API.
//
// Searches are paced with a courtesy limiter because the unauthenticated
// iTunes endpoint throttles aggressively on bursts. The limiter admits
// the first search immediately and spaces the rest at one per 1.2s.
type AppleMusicPlatform struct {
	baseURL    string
	country    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAppleMusicPlatform creates an Apple Music platform client.
func NewAppleMusicPlatform() *AppleMusicPlatform {
	return &AppleMusicPlatform{
		baseURL:    itunesBaseURL,
		country:    "US",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(1200*time.Millisecond), 1),
	}
}

func (a *AppleMusicPlatform) Name() string        { return "apple_music" }
func (a *AppleMusicPlatform) DisplayName() string { return "Apple Music" }
func (a *AppleMusicPlatform) CanExtract() bool    { return false }

// ExtractPlaylistID validates playlist and album URLs. The free API
// cannot fetch their contents, so this exists only for classification.
func (a *AppleMusicPlatform) ExtractPlaylistID(rawURL string) (string, error) {
	for _, re := range appleMusicIDPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return m[1], nil
		}
	}
	return "", NewFetchError(a.Name(), "extract_playlist_id", FailureNotFound,
		fmt.Errorf("no playlist ID in %q", rawURL))
}

// GetPlaylistTracks always fails: reading Apple Music playlists requires
// MusicKit credentials. The error points the user at a usable source.
func (a *AppleMusicPlatform) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	return nil, NewFetchError(a.Name(), "get_playlist_tracks", FailureUnsupported,
		fmt.Errorf("extracting Apple Music playlists requires MusicKit credentials; use Spotify or YouTube Music as the source instead (converting TO Apple Music still works)"))
}

// SearchByISRC returns no candidate: the iTunes Search API has no ISRC index.
func (a *AppleMusicPlatform) SearchByISRC(ctx context.Context, isrc string) (*models.MatchCandidate, error) {
	return nil, nil
}

// SearchByMetadata searches the iTunes song catalog, waiting on the
// courtesy limiter first.
func (a *AppleMusicPlatform) SearchByMetadata(ctx context.Context, title, artist string, limit int) ([]models.MatchCandidate, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, NewFetchError(a.Name(), "search_by_metadata", FailureTransient, err)
	}

	params := url.Values{}
	params.Set("term", fmt.Sprintf("%s %s", title, artist))
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("country", a.country)

	endpoint := fmt.Sprintf("%s/search?%s", a.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewFetchError(a.Name(), "search_by_metadata", FailurePermanent, err)
	}
	req.Header.Set("User-Agent", "auxd/1.0")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, NewFetchError(a.Name(), "search_by_metadata", FailureTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewFetchError(a.Name(), "search_by_metadata", kindFromStatus(resp.StatusCode),
			fmt.Errorf("itunes API error: status %d", resp.StatusCode))
	}

	var searchResp itunesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, NewFetchError(a.Name(), "search_by_metadata", FailureTransient,
			fmt.Errorf("failed to decode response: %w", err))
	}

	candidates := make([]models.MatchCandidate, 0, len(searchResp.Results))
	for _, result := range searchResp.Results {
		candidates = append(candidates, models.MatchCandidate{
			TargetID:   fmt.Sprintf("%d", result.TrackID),
			Title:      result.TrackName,
			Artist:     result.ArtistName,
			Album:      result.CollectionName,
			TrackURL:   result.TrackViewURL,
			PreviewURL: result.PreviewURL,
			ArtworkURL: strings.Replace(result.ArtworkURL100, "100x100", "600x600", 1),
		})
	}

	return candidates, nil
}

// PlaybackLink returns a deep link to the first track. The free API
// cannot create playlists, so multi-track links are not possible.
func (a *AppleMusicPlatform) PlaybackLink(trackIDs []string) string {
	if len(trackIDs) == 0 {
		return ""
	}
	return a.TrackURL(trackIDs[0])
}

// TrackURL returns a deep link that opens the Apple Music app.
func (a *AppleMusicPlatform) TrackURL(trackID string) string {
	return fmt.Sprintf("https://music.apple.com/us/song/%s", trackID)
}
