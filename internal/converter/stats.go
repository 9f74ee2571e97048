package converter

import "github.com/auxshare/auxd/internal/models"

// Confidence bucket boundaries over matched tracks.
//
// The partition is high >= 0.9, medium [0.7, 0.9), low (0, 0.7).
// Metadata matches start at 0.7 by construction, so the low bucket only
// holds ISRC-less matches accepted under a relaxed threshold.
const (
	HighConfidenceMin   = 0.9
	MediumConfidenceMin = 0.7
)

// Aggregate computes match statistics over a converted track list.
//
// It is a pure function of its input: serving a stored session
// recomputes stats from the tracks rather than trusting stored values.
func Aggregate(tracks []models.ConvertedTrack) models.Stats {
	stats := models.Stats{Total: len(tracks)}

	var confidenceSum float64
	for _, track := range tracks {
		if !track.Matched() {
			continue
		}

		stats.Matched++
		confidenceSum += track.TargetConfidence

		switch {
		case track.TargetConfidence >= HighConfidenceMin:
			stats.HighConfidence++
		case track.TargetConfidence >= MediumConfidenceMin:
			stats.MediumConfidence++
		default:
			stats.LowConfidence++
		}
	}

	stats.Failed = stats.Total - stats.Matched
	if stats.Total > 0 {
		stats.MatchRate = float64(stats.Matched) / float64(stats.Total)
	}
	if stats.Matched > 0 {
		stats.AvgConfidence = confidenceSum / float64(stats.Matched)
	}

	return stats
}
