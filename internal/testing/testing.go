// package testing contains shared testing utilities
package testing

import (
	"context"
	"fmt"

	"github.com/auxshare/auxd/internal/models"
	"github.com/auxshare/auxd/internal/platforms"
)

// MockPlatform is a configurable test double for [platforms.Platform].
//
// Zero values behave like an empty catalog; error fields and the
// TracksFailures counter simulate fault scenarios.
type MockPlatform struct {
	PlatformName string
	Display      string
	Extractable  bool

	PlaylistID string // returned by ExtractPlaylistID when ExtractErr is nil
	ExtractErr error

	Tracks []models.Track
	// TracksFailures makes the first N GetPlaylistTracks calls fail
	// transiently before succeeding. TracksErr, when set, always fails.
	TracksFailures int
	TracksErr      error
	TracksCalls    int

	ISRCResults map[string]*models.MatchCandidate
	ISRCErr     error

	// MetadataResults is keyed by "title|artist".
	MetadataResults map[string][]models.MatchCandidate
	MetadataErr     error
	MetadataCalls   int
}

func (m *MockPlatform) Name() string {
	if m.PlatformName == "" {
		return "mock"
	}
	return m.PlatformName
}

func (m *MockPlatform) DisplayName() string {
	if m.Display == "" {
		return "Mock"
	}
	return m.Display
}

func (m *MockPlatform) CanExtract() bool { return m.Extractable }

func (m *MockPlatform) ExtractPlaylistID(url string) (string, error) {
	if m.ExtractErr != nil {
		return "", m.ExtractErr
	}
	if m.PlaylistID == "" {
		return "", platforms.NewFetchError(m.Name(), "extract_playlist_id",
			platforms.FailureNotFound, fmt.Errorf("no playlist ID in %q", url))
	}
	return m.PlaylistID, nil
}

func (m *MockPlatform) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	m.TracksCalls++
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	if m.TracksCalls <= m.TracksFailures {
		return nil, platforms.NewFetchError(m.Name(), "get_playlist_tracks",
			platforms.FailureTransient, fmt.Errorf("simulated transient failure %d", m.TracksCalls))
	}
	return m.Tracks, nil
}

func (m *MockPlatform) SearchByISRC(ctx context.Context, isrc string) (*models.MatchCandidate, error) {
	if m.ISRCErr != nil {
		return nil, m.ISRCErr
	}
	candidate, ok := m.ISRCResults[isrc]
	if !ok {
		return nil, nil
	}
	clone := *candidate
	return &clone, nil
}

func (m *MockPlatform) SearchByMetadata(ctx context.Context, title, artist string, limit int) ([]models.MatchCandidate, error) {
	m.MetadataCalls++
	if m.MetadataErr != nil {
		return nil, m.MetadataErr
	}
	results := m.MetadataResults[title+"|"+artist]
	if len(results) > limit {
		results = results[:limit]
	}
	out := make([]models.MatchCandidate, len(results))
	copy(out, results)
	return out, nil
}

func (m *MockPlatform) PlaybackLink(trackIDs []string) string {
	if len(trackIDs) == 0 {
		return ""
	}
	return m.TrackURL(trackIDs[0])
}

func (m *MockPlatform) TrackURL(trackID string) string {
	return fmt.Sprintf("https://mock.example/track/%s", trackID)
}
