package converter

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/auxshare/auxd/internal/matcher"
	"github.com/auxshare/auxd/internal/models"
	"github.com/auxshare/auxd/internal/platforms"
	"github.com/auxshare/auxd/internal/shared"
	tu "github.com/auxshare/auxd/internal/testing"
)

const sourceURL = "https://source.example/playlist?list=PL123"

// newTestPipeline wires a pipeline over a source and target mock with a
// fast retry policy.
func newTestPipeline(source, target *tu.MockPlatform) *Pipeline {
	logger := shared.NewLogger(io.Discard)

	registry := platforms.NewRegistry()
	registry.Register(source, `source\.example`)
	registry.Register(target, `target\.example`)

	p := NewPipeline(registry, matcher.New(matcher.Config{}, logger), logger)
	p.retry = RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}
	return p
}

func newSource(tracks ...models.Track) *tu.MockPlatform {
	return &tu.MockPlatform{
		PlatformName: "source",
		Display:      "Source",
		Extractable:  true,
		PlaylistID:   "PL123",
		Tracks:       tracks,
	}
}

func newTarget() *tu.MockPlatform {
	return &tu.MockPlatform{
		PlatformName: "target",
		Display:      "Target",
		Extractable:  true,
	}
}

func TestConvert(t *testing.T) {
	ctx := context.Background()

	t.Run("full playlist conversion", func(t *testing.T) {
		source := newSource(
			models.Track{Title: "Song One", Artist: "Artist One", ISRC: "ISRC1", SourceID: "s1"},
			models.Track{Title: "Song Two", Artist: "Artist Two", SourceID: "s2"},
			models.Track{Title: "Obscure B-Side", Artist: "Nobody", SourceID: "s3"},
		)
		target := newTarget()
		target.ISRCResults = map[string]*models.MatchCandidate{
			"ISRC1": {TargetID: "t1", Title: "Song One", Artist: "Artist One"},
		}
		target.MetadataResults = map[string][]models.MatchCandidate{
			"Song Two|Artist Two": {{TargetID: "t2", Title: "Song Two", Artist: "Artist Two"}},
		}

		result, err := newTestPipeline(source, target).Convert(ctx, sourceURL, "target")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.SourcePlatform != "Source" {
			t.Errorf("expected source platform Source, got %q", result.SourcePlatform)
		}
		if result.TargetPlatform != "target" {
			t.Errorf("expected target platform target, got %q", result.TargetPlatform)
		}
		if len(result.Tracks) != 3 {
			t.Fatalf("expected 3 tracks, got %d", len(result.Tracks))
		}

		first := result.Tracks[0]
		if first.TargetID != "t1" || first.TargetMatchMethod != models.MatchMethodISRC {
			t.Errorf("expected isrc match for first track, got %+v", first)
		}
		if first.TargetConfidence != 1.0 {
			t.Errorf("expected confidence 1.0 for isrc match, got %v", first.TargetConfidence)
		}

		second := result.Tracks[1]
		if second.TargetID != "t2" || second.TargetMatchMethod != models.MatchMethodMetadata {
			t.Errorf("expected metadata match for second track, got %+v", second)
		}

		third := result.Tracks[2]
		if third.Matched() {
			t.Errorf("expected third track unmatched, got %+v", third)
		}
		if third.TargetConfidence != 0 {
			t.Errorf("expected zero confidence for unmatched track, got %v", third.TargetConfidence)
		}

		if result.Stats.Total != 3 || result.Stats.Matched != 2 || result.Stats.Failed != 1 {
			t.Errorf("unexpected stats: %+v", result.Stats)
		}
	})

	t.Run("source order is preserved", func(t *testing.T) {
		source := newSource(
			models.Track{Title: "A", Artist: "X", SourceID: "s1"},
			models.Track{Title: "B", Artist: "X", SourceID: "s2"},
			models.Track{Title: "C", Artist: "X", SourceID: "s3"},
		)
		target := newTarget()

		result, err := newTestPipeline(source, target).Convert(ctx, sourceURL, "target")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i, want := range []string{"s1", "s2", "s3"} {
			if result.Tracks[i].SourceID != want {
				t.Errorf("track %d: expected source ID %q, got %q", i, want, result.Tracks[i].SourceID)
			}
		}
	})

	t.Run("target url falls back to canonical form", func(t *testing.T) {
		source := newSource(models.Track{Title: "Song", Artist: "Artist", SourceID: "s1"})
		target := newTarget()
		target.MetadataResults = map[string][]models.MatchCandidate{
			"Song|Artist": {{TargetID: "t1", Title: "Song", Artist: "Artist"}},
		}

		result, err := newTestPipeline(source, target).Convert(ctx, sourceURL, "target")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Tracks[0].TargetURL != "https://mock.example/track/t1" {
			t.Errorf("expected canonical track URL, got %q", result.Tracks[0].TargetURL)
		}
	})

	t.Run("album backfilled from candidate", func(t *testing.T) {
		source := newSource(models.Track{Title: "Song", Artist: "Artist", SourceID: "s1"})
		target := newTarget()
		target.MetadataResults = map[string][]models.MatchCandidate{
			"Song|Artist": {{TargetID: "t1", Title: "Song", Artist: "Artist", Album: "The Album"}},
		}

		result, err := newTestPipeline(source, target).Convert(ctx, sourceURL, "target")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Tracks[0].Album != "The Album" {
			t.Errorf("expected album backfill, got %q", result.Tracks[0].Album)
		}
	})

	t.Run("unknown url", func(t *testing.T) {
		_, err := newTestPipeline(newSource(), newTarget()).Convert(ctx, "https://unknown.example/x", "target")

		var validationErr *shared.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !errors.Is(err, shared.ErrUnknownPlatform) {
			t.Errorf("expected ErrUnknownPlatform, got %v", err)
		}
	})

	t.Run("write-only source names alternatives", func(t *testing.T) {
		source := newSource()
		source.Extractable = false
		target := newTarget()

		_, err := newTestPipeline(source, target).Convert(ctx, sourceURL, "target")

		var validationErr *shared.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if !errors.Is(err, shared.ErrNotExtractable) {
			t.Errorf("expected ErrNotExtractable, got %v", err)
		}
		if !strings.Contains(validationErr.Message, "Target") {
			t.Errorf("expected message to name usable sources, got %q", validationErr.Message)
		}
		if !strings.Contains(validationErr.Message, "convert TO Source") {
			t.Errorf("expected message to mention converting to the platform, got %q", validationErr.Message)
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := newTestPipeline(newSource(), newTarget()).Convert(ctx, sourceURL, "nope")

		if !errors.Is(err, shared.ErrUnknownPlatform) {
			t.Errorf("expected ErrUnknownPlatform, got %v", err)
		}
	})

	t.Run("unparseable playlist id", func(t *testing.T) {
		source := newSource()
		source.PlaylistID = ""

		_, err := newTestPipeline(source, newTarget()).Convert(ctx, sourceURL, "target")

		if !errors.Is(err, shared.ErrInvalidURL) {
			t.Errorf("expected ErrInvalidURL, got %v", err)
		}
	})

	t.Run("empty playlist", func(t *testing.T) {
		_, err := newTestPipeline(newSource(), newTarget()).Convert(ctx, sourceURL, "target")

		if !errors.Is(err, shared.ErrEmptyPlaylist) {
			t.Errorf("expected ErrEmptyPlaylist, got %v", err)
		}
	})

	t.Run("transient fetch failures are retried", func(t *testing.T) {
		source := newSource(models.Track{Title: "Song", Artist: "Artist", SourceID: "s1"})
		source.TracksFailures = 2

		result, err := newTestPipeline(source, newTarget()).Convert(ctx, sourceURL, "target")
		if err != nil {
			t.Fatalf("expected success after retries, got %v", err)
		}
		if source.TracksCalls != 3 {
			t.Errorf("expected 3 fetch attempts, got %d", source.TracksCalls)
		}
		if len(result.Tracks) != 1 {
			t.Errorf("expected 1 track, got %d", len(result.Tracks))
		}
	})

	t.Run("transient failures exhaust the retry budget", func(t *testing.T) {
		source := newSource(models.Track{Title: "Song", Artist: "Artist", SourceID: "s1"})
		source.TracksFailures = 10

		_, err := newTestPipeline(source, newTarget()).Convert(ctx, sourceURL, "target")
		if err == nil {
			t.Fatal("expected an error")
		}
		if source.TracksCalls != 3 {
			t.Errorf("expected exactly 3 fetch attempts, got %d", source.TracksCalls)
		}
		if !strings.Contains(err.Error(), "after 3 attempts") {
			t.Errorf("expected attempt count in error, got %v", err)
		}
	})

	t.Run("permanent fetch failure is not retried", func(t *testing.T) {
		source := newSource()
		source.TracksErr = platforms.NewFetchError("source", "get_playlist_tracks",
			platforms.FailurePermanent, errors.New("forbidden"))

		_, err := newTestPipeline(source, newTarget()).Convert(ctx, sourceURL, "target")
		if err == nil {
			t.Fatal("expected an error")
		}
		if source.TracksCalls != 1 {
			t.Errorf("expected a single fetch attempt, got %d", source.TracksCalls)
		}
	})

	t.Run("match errors degrade the track, not the conversion", func(t *testing.T) {
		source := newSource(
			models.Track{Title: "Song One", Artist: "Artist", SourceID: "s1"},
			models.Track{Title: "Song Two", Artist: "Artist", SourceID: "s2"},
		)
		target := newTarget()
		target.MetadataErr = errors.New("search down")

		result, err := newTestPipeline(source, target).Convert(ctx, sourceURL, "target")
		if err != nil {
			t.Fatalf("expected partial success, got %v", err)
		}
		if len(result.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(result.Tracks))
		}
		for i, track := range result.Tracks {
			if track.Matched() {
				t.Errorf("track %d: expected unmatched, got %+v", i, track)
			}
		}
		if result.Stats.Failed != 2 {
			t.Errorf("expected 2 failed, got %d", result.Stats.Failed)
		}
	})
}

func TestRetryPolicy(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(io.Discard)
	policy := RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}

	t.Run("success on first attempt", func(t *testing.T) {
		attempts, err := policy.Do(ctx, logger, "op", func(ctx context.Context) error {
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", attempts)
		}
	})

	t.Run("non-transient error stops immediately", func(t *testing.T) {
		permanent := platforms.NewFetchError("p", "op", platforms.FailurePermanent, errors.New("nope"))
		attempts, err := policy.Do(ctx, logger, "op", func(ctx context.Context) error {
			return permanent
		})
		if err == nil {
			t.Fatal("expected an error")
		}
		if attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", attempts)
		}
	})

	t.Run("transient errors retry up to the budget", func(t *testing.T) {
		transient := platforms.NewFetchError("p", "op", platforms.FailureTransient, errors.New("busy"))
		attempts, err := policy.Do(ctx, logger, "op", func(ctx context.Context) error {
			return transient
		})
		if err == nil {
			t.Fatal("expected an error")
		}
		if attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", attempts)
		}
	})
}
