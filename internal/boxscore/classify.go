package boxscore

import (
	"strings"
	"unicode"
)

// EventKind is the stat category a play-by-play type tag maps to.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindFieldGoal
	KindFreeThrow
	KindOffensiveRebound
	KindDefensiveRebound
	KindTurnover
	KindSteal
	KindBlock
	KindFoul
)

func (k EventKind) String() string {
	switch k {
	case KindFieldGoal:
		return "field_goal"
	case KindFreeThrow:
		return "free_throw"
	case KindOffensiveRebound:
		return "offensive_rebound"
	case KindDefensiveRebound:
		return "defensive_rebound"
	case KindTurnover:
		return "turnover"
	case KindSteal:
		return "steal"
	case KindBlock:
		return "block"
	case KindFoul:
		return "foul"
	default:
		return "unknown"
	}
}

var exactKinds = map[string]EventKind{
	"jumpshot":         KindFieldGoal,
	"jumper":           KindFieldGoal,
	"threepointjumper": KindFieldGoal,
	"layup":            KindFieldGoal,
	"layupshot":        KindFieldGoal,
	"dunk":             KindFieldGoal,
	"dunkshot":         KindFieldGoal,
	"tipshot":          KindFieldGoal,
	"hookshot":         KindFieldGoal,
	"fieldgoal":        KindFieldGoal,

	"freethrow":       KindFreeThrow,
	"madefreethrow":   KindFreeThrow,
	"missedfreethrow": KindFreeThrow,

	"offensiverebound": KindOffensiveRebound,
	"defensiverebound": KindDefensiveRebound,

	"turnover":         KindTurnover,
	"lostballturnover": KindTurnover,

	"steal": KindSteal,

	"block":     KindBlock,
	"blockshot": KindBlock,

	"foul":         KindFoul,
	"personalfoul": KindFoul,
	"shootingfoul": KindFoul,
}

// substringKinds is checked in order after an exact miss. Order matters:
// "blockshot" has to hit "block" before the generic shot rule.
var substringKinds = []struct {
	needle string
	kind   EventKind
}{
	{"freethrow", KindFreeThrow},
	{"rebound", KindDefensiveRebound}, // promoted to offensive below
	{"turnover", KindTurnover},
	{"steal", KindSteal},
	{"block", KindBlock},
	{"foul", KindFoul},
	{"shot", KindFieldGoal},
	{"layup", KindFieldGoal},
	{"dunk", KindFieldGoal},
	{"jumper", KindFieldGoal},
}

// NormalizeType lowercases a raw type tag and drops all whitespace.
func NormalizeType(rawType string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, rawType)
}

// ClassifyType maps a raw play type tag to the recorder that handles it.
func ClassifyType(rawType string) EventKind {
	tag := NormalizeType(rawType)
	if tag == "" {
		return KindUnknown
	}

	if kind, ok := exactKinds[tag]; ok {
		return kind
	}

	for _, rule := range substringKinds {
		if !strings.Contains(tag, rule.needle) {
			continue
		}
		if rule.needle == "rebound" && strings.Contains(tag, "offensive") {
			return KindOffensiveRebound
		}
		return rule.kind
	}

	return KindUnknown
}
