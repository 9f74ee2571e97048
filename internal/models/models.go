// package models defines the data model for the playlist conversion service
package models

// Track is a track as read from a source catalog. Immutable once extracted.
type Track struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	ISRC       string `json:"isrc,omitempty"`
	DurationMS int    `json:"duration_ms,omitempty"`
	SourceID   string `json:"source_id"`
}

// MatchMethod identifies the technique that produced a match.
type MatchMethod string

const (
	MatchMethodISRC     MatchMethod = "isrc"
	MatchMethodMetadata MatchMethod = "metadata"
)

// MatchCandidate is a single search hit from a target catalog, scored by
// the matcher. Transient; never persisted standalone.
type MatchCandidate struct {
	TargetID    string      `json:"target_id"`
	Title       string      `json:"title"`
	Artist      string      `json:"artist"`
	Album       string      `json:"album,omitempty"`
	Confidence  float64     `json:"confidence"`
	MatchMethod MatchMethod `json:"match_method"`

	// Catalog-specific extras, present when the target exposes them.
	TrackURL   string `json:"track_url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
	ArtworkURL string `json:"artwork_url,omitempty"`
}

// ConvertedTrack is a source Track merged with its resolution against the
// target catalog. TargetID is set iff TargetConfidence > 0.
type ConvertedTrack struct {
	Track

	TargetID          string      `json:"target_id,omitempty"`
	TargetConfidence  float64     `json:"target_confidence"`
	TargetMatchMethod MatchMethod `json:"target_match_method,omitempty"`
	TargetURL         string      `json:"target_url,omitempty"`
	PreviewURL        string      `json:"preview_url,omitempty"`
	ArtworkURL        string      `json:"artwork_url,omitempty"`
}

// Matched reports whether the track resolved to a target catalog entry.
func (t ConvertedTrack) Matched() bool {
	return t.TargetID != ""
}

// Stats summarizes match quality over a converted track list.
//
// Stats is a pure view over its track list: it is recomputed on demand
// and never stored as authoritative state.
type Stats struct {
	Total            int     `json:"total"`
	Matched          int     `json:"matched"`
	Failed           int     `json:"failed"`
	MatchRate        float64 `json:"match_rate"`
	AvgConfidence    float64 `json:"avg_confidence"`
	HighConfidence   int     `json:"high_confidence"`
	MediumConfidence int     `json:"medium_confidence"`
	LowConfidence    int     `json:"low_confidence"`
}

// ConversionResult is the immutable outcome of one conversion request.
type ConversionResult struct {
	SourcePlatform string           `json:"source_platform"`
	TargetPlatform string           `json:"target_platform"`
	Tracks         []ConvertedTrack `json:"tracks"`
	Stats          Stats            `json:"stats"`
}

// SessionPayload is the persisted shape of a conversion session, stored
// as a single serialized blob under its share code.
type SessionPayload struct {
	Tracks         []ConvertedTrack `json:"tracks"`
	SourcePlatform string           `json:"source_platform"`
	TargetPlatform string           `json:"target_platform"`
	CreatedAt      int64            `json:"created_at"`
}
