// package matcher resolves tracks from one catalog to their best
// candidate in another, producing a confidence score.
package matcher

import (
	"context"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/auxshare/auxd/internal/models"
	"github.com/auxshare/auxd/internal/platforms"
	"github.com/auxshare/auxd/internal/shared"
	"github.com/charmbracelet/log"
)

// Scoring policy defaults. These are product policy, not incidental
// values: the acceptance boundary sits exactly at DefaultThreshold.
const (
	DefaultThreshold    = 70.0
	DefaultTitleWeight  = 0.6
	DefaultArtistWeight = 0.4
	DefaultCandidates   = 5
)

// Config holds the matcher's scoring policy.
type Config struct {
	// Threshold is the minimum combined score (0-100) for acceptance.
	Threshold float64
	// TitleWeight and ArtistWeight combine the per-field scores. Titles
	// weigh more: artist strings vary far more in formatting across
	// catalogs than titles do.
	TitleWeight  float64
	ArtistWeight float64
	// Candidates is the number of search results requested per query.
	Candidates int
}

// DefaultConfig returns the default scoring policy.
func DefaultConfig() Config {
	return Config{
		Threshold:    DefaultThreshold,
		TitleWeight:  DefaultTitleWeight,
		ArtistWeight: DefaultArtistWeight,
		Candidates:   DefaultCandidates,
	}
}

// Matcher resolves a source track against a target catalog.
type Matcher struct {
	config Config
	logger *log.Logger
}

// New creates a Matcher with the given scoring policy. Zero-valued
// config fields fall back to the defaults.
func New(config Config, logger *log.Logger) *Matcher {
	defaults := DefaultConfig()
	if config.Threshold == 0 {
		config.Threshold = defaults.Threshold
	}
	if config.TitleWeight == 0 {
		config.TitleWeight = defaults.TitleWeight
	}
	if config.ArtistWeight == 0 {
		config.ArtistWeight = defaults.ArtistWeight
	}
	if config.Candidates == 0 {
		config.Candidates = defaults.Candidates
	}

	return &Matcher{
		config: config,
		logger: shared.WithLogger(logger, "component", "matcher"),
	}
}

// Match resolves track to its best candidate on target.
//
// ISRC lookup is attempted first and accepted unconditionally with
// confidence 1.0: ISRCs identify a specific recording across catalogs.
// Otherwise a metadata search runs, retried once with simplified
// title/artist when the raw query returns nothing, and the highest
// weighted-similarity candidate at or above the threshold wins.
// Returns (nil, nil) when no candidate is confident enough.
func (m *Matcher) Match(ctx context.Context, track models.Track, target platforms.Platform) (*models.MatchCandidate, error) {
	if track.ISRC != "" {
		candidate, err := target.SearchByISRC(ctx, track.ISRC)
		if err != nil {
			// An ISRC lookup fault downgrades to metadata search rather
			// than failing the track.
			m.logger.Warn("isrc lookup failed", "platform", target.Name(), "isrc", track.ISRC, "error", err)
		} else if candidate != nil {
			candidate.Confidence = 1.0
			candidate.MatchMethod = models.MatchMethodISRC
			return candidate, nil
		}
	}

	candidates, err := target.SearchByMetadata(ctx, track.Title, track.Artist, m.config.Candidates)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		simpleTitle := SimplifyTitle(track.Title)
		simpleArtist := SimplifyArtist(track.Artist)
		if simpleTitle == track.Title && simpleArtist == track.Artist {
			return nil, nil
		}

		candidates, err = target.SearchByMetadata(ctx, simpleTitle, simpleArtist, m.config.Candidates)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, nil
		}
	}

	var best *models.MatchCandidate
	bestScore := 0.0

	for i := range candidates {
		candidate := &candidates[i]
		titleScore := similarity(track.Title, candidate.Title)
		artistScore := similarity(track.Artist, candidate.Artist)
		combined := titleScore*m.config.TitleWeight + artistScore*m.config.ArtistWeight

		// Strict > keeps the first-seen candidate on ties, preserving
		// catalog result order.
		if combined > bestScore {
			bestScore = combined
			best = candidate
		}
	}

	if best == nil || bestScore < m.config.Threshold {
		return nil, nil
	}

	best.Confidence = bestScore / 100
	best.MatchMethod = models.MatchMethodMetadata
	return best, nil
}

// similarity scores two strings on a 0-100 scale, case-insensitively,
// taking the better of plain edit-distance similarity and its
// word-order-insensitive variant.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	charScore := strutil.Similarity(a, b, metrics.NewLevenshtein())
	tokenScore := strutil.Similarity(sortWords(a), sortWords(b), metrics.NewLevenshtein())

	return max(charScore, tokenScore) * 100
}

// sortWords rewrites a string with its words in sorted order, making the
// edit-distance comparison insensitive to word reordering.
func sortWords(s string) string {
	words := strings.Fields(s)
	sort.Strings(words)
	return strings.Join(words, " ")
}
