package planner

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// RequiredSections are the level-2 headings every itinerary should carry.
var RequiredSections = []string{
	"trip overview",
	"day-by-day itinerary",
	"restaurants",
	"travel tips",
	"budget",
	"packing",
}

var sectionMatcher = func() ahocorasick.AhoCorasick {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.StandardMatch,
		DFA:                  true,
	})
	return builder.Build(RequiredSections)
}()

// MissingSections returns the RequiredSections that do not appear in any
// level-2 heading of markdown.
func MissingSections(markdown string) []string {
	var headings strings.Builder
	for _, line := range strings.Split(markdown, "\n") {
		if strings.HasPrefix(line, "## ") {
			headings.WriteString(line[3:])
			headings.WriteByte('\n')
		}
	}

	seen := make(map[int]bool, len(RequiredSections))
	for _, match := range sectionMatcher.FindAll(headings.String()) {
		seen[match.Pattern()] = true
	}

	var missing []string
	for i, section := range RequiredSections {
		if !seen[i] {
			missing = append(missing, section)
		}
	}
	return missing
}
