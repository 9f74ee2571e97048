package matcher

import (
	"regexp"
	"strings"
)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	bracketedRe     = regexp.MustCompile(`\[[^\]]*\]`)
	featSuffixRe    = regexp.MustCompile(`(?i)\s+(feat\.|ft\.|featuring).*`)
)

// SimplifyTitle strips decorations that vary between catalogs:
// parenthetical and bracketed content, and featuring suffixes.
//
//	"Song (feat. X) [Remix]" -> "Song"
func SimplifyTitle(title string) string {
	title = parentheticalRe.ReplaceAllString(title, "")
	title = bracketedRe.ReplaceAllString(title, "")
	title = featSuffixRe.ReplaceAllString(title, "")
	return strings.Join(strings.Fields(title), " ")
}

// SimplifyArtist reduces a multi-artist string to its first artist.
// Catalogs disagree on how collaborations are written, so the lead
// artist is the most searchable form.
//
//	"Artist A, Artist B" -> "Artist A"
func SimplifyArtist(artist string) string {
	if idx := strings.Index(artist, ","); idx >= 0 {
		artist = artist[:idx]
	}
	if idx := strings.Index(artist, "&"); idx >= 0 {
		artist = artist[:idx]
	}
	if idx := strings.Index(strings.ToLower(artist), " and "); idx >= 0 {
		artist = artist[:idx]
	}
	return strings.TrimSpace(artist)
}
