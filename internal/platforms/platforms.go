// package platforms defines the catalog capability interface and its concrete implementations
//
// Spotify, Apple Music (iTunes Search API), YouTube Music (via proxy)
package platforms

import (
	"context"
	"errors"
	"fmt"

	"github.com/auxshare/auxd/internal/models"
)

// Platform is the capability contract every music catalog exposes to the
// conversion engine. Implementations are HTTP clients and should be
// treated as slow, rate-limited, and occasionally flaky.
type Platform interface {
	// Name returns the canonical platform key (e.g. "spotify").
	Name() string

	// DisplayName returns the human-readable platform name.
	DisplayName() string

	// CanExtract reports whether playlists can be read from this catalog.
	// Catalogs with CanExtract() == false are conversion targets only.
	CanExtract() bool

	// ExtractPlaylistID parses the playlist identifier out of a share URL.
	ExtractPlaylistID(url string) (string, error)

	// GetPlaylistTracks fetches every track of a playlist in playlist order.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// SearchByISRC looks a track up by its ISRC. Returns (nil, nil) when
	// the catalog has no ISRC index or no hit was found.
	SearchByISRC(ctx context.Context, isrc string) (*models.MatchCandidate, error)

	// SearchByMetadata searches by title and artist, returning up to
	// limit candidates in catalog result order.
	SearchByMetadata(ctx context.Context, title, artist string, limit int) ([]models.MatchCandidate, error)

	// PlaybackLink builds a deep link that plays the given track IDs.
	PlaybackLink(trackIDs []string) string

	// TrackURL builds the canonical deep link for a single matched track.
	TrackURL(trackID string) string
}

// FailureKind disambiguates catalog I/O failures so that callers can
// decide between retrying, skipping, and aborting.
type FailureKind int

const (
	FailureTransient   FailureKind = iota // network fault, throttling, malformed response
	FailurePermanent                      // access denied or otherwise unrecoverable
	FailureNotFound                       // resource does not exist
	FailureUnsupported                    // the catalog cannot perform this operation
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransient:
		return "transient"
	case FailurePermanent:
		return "permanent"
	case FailureNotFound:
		return "not_found"
	case FailureUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// FetchError is a categorized catalog I/O failure.
type FetchError struct {
	Platform string
	Op       string
	Kind     FailureKind
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s failed (%s): %v", e.Platform, e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a categorized [FetchError].
func NewFetchError(platform, op string, kind FailureKind, err error) *FetchError {
	return &FetchError{Platform: platform, Op: op, Kind: kind, Err: err}
}

// IsTransient reports whether err is a [FetchError] worth retrying.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FailureTransient
}

// IsUnsupported reports whether err is a capability-unsupported [FetchError].
func IsUnsupported(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FailureUnsupported
}

// kindFromStatus maps an HTTP status code to a [FailureKind].
//
// 429 and 5xx are transient; 404 is not-found; everything else in the
// 4xx range is permanent.
func kindFromStatus(status int) FailureKind {
	switch {
	case status == 404:
		return FailureNotFound
	case status == 429 || status >= 500:
		return FailureTransient
	default:
		return FailurePermanent
	}
}
