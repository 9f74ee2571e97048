// package converter orchestrates playlist conversion between catalogs.
//
// The Pipeline extracts a source playlist, matches every track against
// the target catalog, and assembles the results into a uniform record
// with match statistics.
package converter

import (
	"context"
	"fmt"

	"github.com/auxshare/auxd/internal/matcher"
	"github.com/auxshare/auxd/internal/models"
	"github.com/auxshare/auxd/internal/platforms"
	"github.com/auxshare/auxd/internal/shared"
	"github.com/charmbracelet/log"
)

// Pipeline converts playlists between registered catalogs.
type Pipeline struct {
	registry *platforms.Registry
	matcher  *matcher.Matcher
	retry    RetryPolicy
	logger   *log.Logger
}

// NewPipeline creates a conversion pipeline over the given registry.
func NewPipeline(registry *platforms.Registry, m *matcher.Matcher, logger *log.Logger) *Pipeline {
	return &Pipeline{
		registry: registry,
		matcher:  m,
		retry:    DefaultRetryPolicy(),
		logger:   shared.WithLogger(logger, "component", "converter"),
	}
}

// Convert converts the playlist at sourceURL into targetName's catalog.
//
// Validation failures (unknown URL, write-only source, unknown target,
// unparseable playlist ID, empty playlist) return a
// [shared.ValidationError] before any track matching happens. Playlist
// extraction failures abort the conversion; individual match failures
// degrade that track to confidence 0 and processing continues.
func (p *Pipeline) Convert(ctx context.Context, sourceURL, targetName string) (*models.ConversionResult, error) {
	sourceInfo, err := p.registry.Classify(sourceURL)
	if err != nil {
		return nil, shared.NewValidationError(shared.ErrUnknownPlatform,
			"unsupported platform URL: %s", sourceURL)
	}

	if !sourceInfo.CanExtract {
		names := sourceNames(p.registry)
		return nil, shared.NewValidationError(shared.ErrNotExtractable,
			"%s playlists cannot be used as a source. Supported sources: %s. You can still convert TO %s",
			sourceInfo.DisplayName, names, sourceInfo.DisplayName)
	}

	source, err := p.registry.Get(sourceInfo.Name)
	if err != nil {
		return nil, shared.NewValidationError(shared.ErrUnknownPlatform,
			"unsupported source platform: %s", sourceInfo.Name)
	}

	target, err := p.registry.Get(targetName)
	if err != nil {
		return nil, shared.NewValidationError(shared.ErrUnknownPlatform,
			"unsupported target platform: %s", targetName)
	}

	playlistID, err := source.ExtractPlaylistID(sourceURL)
	if err != nil {
		return nil, shared.NewValidationError(shared.ErrInvalidURL,
			"could not extract playlist ID from URL: %s", sourceURL)
	}

	p.logger.Info("converting playlist",
		"source", sourceInfo.Name, "target", target.Name(), "playlist", playlistID)

	tracks, err := p.fetchTracks(ctx, source, playlistID)
	if err != nil {
		return nil, err
	}

	if len(tracks) == 0 {
		return nil, shared.NewValidationError(shared.ErrEmptyPlaylist,
			"playlist is empty or could not be fetched")
	}

	converted := make([]models.ConvertedTrack, 0, len(tracks))
	for i, track := range tracks {
		p.logger.Debug("matching track",
			"n", i+1, "total", len(tracks), "title", track.Title, "artist", track.Artist)
		converted = append(converted, p.convertTrack(ctx, track, target))
	}

	result := &models.ConversionResult{
		SourcePlatform: sourceInfo.DisplayName,
		TargetPlatform: target.Name(),
		Tracks:         converted,
		Stats:          Aggregate(converted),
	}

	p.logger.Info("conversion complete",
		"total", result.Stats.Total, "matched", result.Stats.Matched,
		"match_rate", fmt.Sprintf("%.1f%%", result.Stats.MatchRate*100))

	return result, nil
}

// fetchTracks retrieves the source playlist under the retry policy.
func (p *Pipeline) fetchTracks(ctx context.Context, source platforms.Platform, playlistID string) ([]models.Track, error) {
	var tracks []models.Track

	attempts, err := p.retry.Do(ctx, p.logger, "get_playlist_tracks", func(ctx context.Context) error {
		var fetchErr error
		tracks, fetchErr = source.GetPlaylistTracks(ctx, playlistID)
		return fetchErr
	})
	if err != nil {
		if platforms.IsTransient(err) {
			return nil, fmt.Errorf("could not fetch playlist after %d attempts: %w; try a different source playlist or check that the playlist is public", attempts, err)
		}
		return nil, fmt.Errorf("could not fetch playlist: %w", err)
	}

	p.logger.Info("fetched source playlist", "tracks", len(tracks), "attempts", attempts)
	return tracks, nil
}

// convertTrack matches one track and merges the candidate's fields into
// a ConvertedTrack. A match failure of any kind leaves the target
// fields zeroed, so TargetID is set iff TargetConfidence > 0.
func (p *Pipeline) convertTrack(ctx context.Context, track models.Track, target platforms.Platform) models.ConvertedTrack {
	converted := models.ConvertedTrack{Track: track}

	candidate, err := p.matcher.Match(ctx, track, target)
	if err != nil {
		p.logger.Warn("track match failed",
			"title", track.Title, "artist", track.Artist, "error", err)
		return converted
	}
	if candidate == nil {
		return converted
	}

	converted.TargetID = candidate.TargetID
	converted.TargetConfidence = candidate.Confidence
	converted.TargetMatchMethod = candidate.MatchMethod
	converted.PreviewURL = candidate.PreviewURL
	converted.ArtworkURL = candidate.ArtworkURL

	converted.TargetURL = candidate.TrackURL
	if converted.TargetURL == "" {
		converted.TargetURL = target.TrackURL(candidate.TargetID)
	}

	// Backfill album metadata the source catalog didn't carry.
	if converted.Album == "" && candidate.Album != "" {
		converted.Album = candidate.Album
	}

	return converted
}

func sourceNames(registry *platforms.Registry) string {
	names := ""
	for i, info := range registry.Sources() {
		if i > 0 {
			names += ", "
		}
		names += info.DisplayName
	}
	return names
}
