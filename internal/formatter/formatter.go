// package formatter exports conversion results to portable formats (CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/auxshare/auxd/internal/models"
)

// ToCSV renders a session payload as CSV with one row per source track.
func ToCSV(payload *models.SessionPayload) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "Album", "ISRC", "Matched", "Confidence", "Match Method", "Target URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range payload.Tracks {
		record := []string{
			track.Title,
			track.Artist,
			track.Album,
			track.ISRC,
			strconv.FormatBool(track.Matched()),
			fmt.Sprintf("%.2f", track.TargetConfidence),
			string(track.TargetMatchMethod),
			track.TargetURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders a session payload as a Markdown track table.
func ToMarkdown(payload *models.SessionPayload) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s → %s\n\n", payload.SourcePlatform, payload.TargetPlatform))
	buf.WriteString("| # | Title | Artist | Match | Confidence |\n")
	buf.WriteString("|---|-------|--------|-------|------------|\n")

	for i, track := range payload.Tracks {
		match := "—"
		if track.Matched() {
			match = fmt.Sprintf("[link](%s)", track.TargetURL)
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %.0f%% |\n",
			i+1, track.Title, track.Artist, match, track.TargetConfidence*100))
	}

	return buf.Bytes()
}
