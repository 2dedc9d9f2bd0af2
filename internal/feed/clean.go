package feed

import (
	"html"
	"regexp"
	"strings"
)

var (
	brTagPattern      = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	paragraphPattern  = regexp.MustCompile(`(?i)</p>\s*<p[^>]*>`)
	htmlTagPattern    = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`[ \t]+`)
)

// CleanHTML reduces a raw HTML or text blob to plain text: entities are
// unescaped, block-level breaks become newlines, remaining tags are stripped.
func CleanHTML(raw string) string {
	text := html.UnescapeString(raw)
	text = brTagPattern.ReplaceAllString(text, "\n")
	text = paragraphPattern.ReplaceAllString(text, "\n")
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// metadataMarkers are the structural prefixes aggregator-style feeds (notably
// hnrss) use to encode link metadata as prose summaries.
var metadataMarkers = []string{
	"Article URL:",
	"Comments URL:",
	"Points:",
	"# Comments:",
}

// IsMetadataBlock reports whether a cleaned summary is nothing but repeated
// structural metadata and should be discarded.
func IsMetadataBlock(text string) bool {
	markerLines := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, marker := range metadataMarkers {
			if strings.HasPrefix(line, marker) {
				markerLines++
				break
			}
		}
	}
	if markerLines >= 3 {
		return true
	}

	// Some feeds collapse the block onto a single line; count distinct
	// markers anywhere in the flattened text instead.
	flat := strings.ToLower(strings.Join(strings.Fields(text), " "))
	distinct := 0
	for _, marker := range metadataMarkers {
		if strings.Contains(flat, strings.ToLower(marker)) {
			distinct++
		}
	}
	return distinct >= 3
}
