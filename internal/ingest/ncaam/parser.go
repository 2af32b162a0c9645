package ncaam

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fortuna/courtside/internal/boxscore"
)

// ParseGame converts a /games/{id} response into a boxscore.Game. The record
// may be wrapped in "data" or returned bare.
func ParseGame(resp map[string]interface{}) (*boxscore.Game, error) {
	record := extractMap(resp, "data")
	if len(record) == 0 {
		record = resp
	}

	id := extractID(record, "id")
	if id == "" {
		return nil, fmt.Errorf("game record has no id")
	}

	awayKey := "visitor_team"
	if _, ok := record[awayKey]; !ok {
		awayKey = "away_team"
	}

	return &boxscore.Game{
		ID:         id,
		HomeTeamID: extractOptionalInt(record, "home_team_id"),
		AwayTeamID: firstOptionalInt(record, "visitor_team_id", "away_team_id"),
		HomeTeam:   parseTeam(extractMap(record, "home_team")),
		AwayTeam:   parseTeam(extractMap(record, awayKey)),
	}, nil
}

// ParsePlayByPlay normalizes raw play objects and sorts them by sequence.
// Plays without a sequence take their 1-based position.
func ParsePlayByPlay(raw []interface{}) []boxscore.PlayEvent {
	events := make([]boxscore.PlayEvent, 0, len(raw))
	for i, item := range raw {
		play, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		events = append(events, parsePlay(play, i+1))
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Sequence < events[j].Sequence
	})
	return events
}

func parsePlay(play map[string]interface{}, fallbackSequence int) boxscore.PlayEvent {
	sequence := fallbackSequence
	if seq := firstOptionalInt(play, "sequence", "order"); seq != nil {
		sequence = *seq
	}

	return boxscore.PlayEvent{
		Sequence:      sequence,
		Period:        extractOptionalInt(play, "period"),
		Clock:         strings.TrimSpace(extractString(play, "clock")),
		Description:   strings.TrimSpace(fallbackString(extractString(play, "text"), extractString(play, "description"))),
		HomeScore:     firstOptionalInt(play, "home_score", "homeScore"),
		AwayScore:     firstOptionalInt(play, "away_score", "awayScore"),
		Team:          parseTeam(extractMap(play, "team")),
		IsScoringPlay: extractBool(play, "scoring_play") || extractBool(play, "isScoringPlay"),
		ScoreValue:    firstOptionalInt(play, "score_value", "scoreValue"),
		RawType:       parseType(play),
	}
}

// parseType accepts "type" as a plain string or an object with "text".
func parseType(play map[string]interface{}) string {
	if s := extractString(play, "type"); s != "" {
		return s
	}
	if typ := extractMap(play, "type"); len(typ) > 0 {
		if s := fallbackString(extractString(typ, "text"), extractString(typ, "name")); s != "" {
			return s
		}
	}
	return extractString(play, "rawType")
}

func parseTeam(team map[string]interface{}) *boxscore.TeamRef {
	if len(team) == 0 {
		return nil
	}
	return &boxscore.TeamRef{
		ID:           extractOptionalInt(team, "id"),
		FullName:     fallbackString(extractString(team, "full_name"), extractString(team, "fullName"), extractString(team, "display_name")),
		Name:         extractString(team, "name"),
		Abbreviation: extractString(team, "abbreviation"),
		College:      extractString(team, "college"),
	}
}

// Helper functions

func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// extractID renders string or numeric identifiers as a string.
func extractID(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func fallbackString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func extractBool(m map[string]interface{}, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}

// extractOptionalInt returns nil when the key is missing, not numeric, not
// finite or outside the int range. Fractional values are truncated.
func extractOptionalInt(m map[string]interface{}, key string) *int {
	var f float64
	switch v := m[key].(type) {
	case float64:
		f = v
	case int:
		return &v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	n, ok := toInt(f)
	if !ok {
		return nil
	}
	return &n
}

func toInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < math.MinInt || f >= -math.MinInt {
		return 0, false
	}
	return int(f), true
}

func firstOptionalInt(m map[string]interface{}, keys ...string) *int {
	for _, key := range keys {
		if v := extractOptionalInt(m, key); v != nil {
			return v
		}
	}
	return nil
}

// DecodePlayByPlay parses a saved play-by-play document: either a bare JSON
// array of plays or a response object with a "data" array.
func DecodePlayByPlay(data []byte) ([]boxscore.PlayEvent, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding play-by-play: %w", err)
	}

	switch v := doc.(type) {
	case []interface{}:
		return ParsePlayByPlay(v), nil
	case map[string]interface{}:
		if _, ok := v["data"].([]interface{}); !ok {
			return nil, fmt.Errorf("play-by-play object has no data array")
		}
		return ParsePlayByPlay(extractArray(v, "data")), nil
	default:
		return nil, fmt.Errorf("unexpected play-by-play document of type %T", doc)
	}
}
