package boxscore

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRun     = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	trailingPeriods = regexp.MustCompile(`\.+$`)
)

// NormalizeLabel lowercases text and collapses every run of non letter/digit
// characters into a single space.
func NormalizeLabel(text string) string {
	lowered := strings.ToLower(text)
	return strings.TrimSpace(nonAlnumRun.ReplaceAllString(lowered, " "))
}

// CleanupName strips trailing periods and collapses whitespace. It returns ""
// when nothing usable is left.
func CleanupName(text string) string {
	name := strings.TrimSpace(text)
	name = trailingPeriods.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// IsLikelyTeamLabel reports whether name is really one of the team's labels
// (e.g. the "Home" in "Home Defensive Rebound") rather than a player.
func IsLikelyTeamLabel(name string, team, playTeam *TeamRef) bool {
	candidate := NormalizeLabel(name)
	if candidate == "" {
		return false
	}

	for _, ref := range []*TeamRef{team, playTeam} {
		if ref == nil {
			continue
		}
		for _, label := range []string{ref.FullName, ref.Name, ref.Abbreviation, ref.College} {
			if normalized := NormalizeLabel(label); normalized != "" && normalized == candidate {
				return true
			}
		}
	}
	return false
}
