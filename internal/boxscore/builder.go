// Package boxscore reconstructs per-player and per-team box scores from a
// game's play-by-play descriptions.
package boxscore

import "fmt"

type builder struct {
	home   *teamState
	away   *teamState
	others map[int]*teamState
}

func resolveID(explicit *int, team *TeamRef) *int {
	if explicit != nil {
		return explicit
	}
	if team != nil && team.ID != nil {
		return team.ID
	}
	return nil
}

// syntheticTeam builds a descriptor for an event team that is neither home
// nor away. Missing ids become 0.
func syntheticTeam(payload *TeamRef) *TeamRef {
	id := 0
	if payload.ID != nil {
		id = *payload.ID
	}
	ref := &TeamRef{
		ID:           &id,
		FullName:     payload.FullName,
		Name:         payload.Name,
		Abbreviation: payload.Abbreviation,
		College:      payload.College,
	}
	if ref.FullName == "" {
		ref.FullName = fmt.Sprintf("Team %d", id)
	}
	if ref.Name == "" {
		ref.Name = fmt.Sprintf("Team %d", id)
	}
	return ref
}

// resolveTeam picks the state an event is attributed to, or nil when the
// event carries no team at all.
func (b *builder) resolveTeam(ev PlayEvent) *teamState {
	if ev.Team == nil {
		return nil
	}

	if ev.Team.ID != nil {
		for _, side := range []*teamState{b.home, b.away} {
			if side.matches(*ev.Team.ID) {
				side.adopt(ev.Team)
				return side
			}
		}
	}

	ref := syntheticTeam(ev.Team)
	state, ok := b.others[*ref.ID]
	if !ok {
		state = newTeamState(ref.ID, ref)
		b.others[*ref.ID] = state
	}
	return state
}

func (b *builder) record(ev PlayEvent) {
	ts := b.resolveTeam(ev)
	if ts == nil {
		return
	}

	switch ClassifyType(ev.RawType) {
	case KindFieldGoal:
		recordFieldGoal(ts, ev)
	case KindFreeThrow:
		recordFreeThrow(ts, ev)
	case KindOffensiveRebound:
		recordRebound(ts, ev, true)
	case KindDefensiveRebound:
		recordRebound(ts, ev, false)
	case KindTurnover:
		recordTurnover(ts, ev)
	case KindSteal:
		recordSteal(ts, ev)
	case KindBlock:
		recordBlock(ts, ev)
	case KindFoul:
		recordFoul(ts, ev)
	case KindUnknown:
	}
}

// Build replays events in the given order and returns the finalized box score.
// Events are neither reordered nor deduplicated; every event counts towards
// EventsProcessed even when nothing could be attributed.
func Build(game Game, events []PlayEvent) BoxScore {
	b := &builder{
		home:   newTeamState(resolveID(game.HomeTeamID, game.HomeTeam), game.HomeTeam),
		away:   newTeamState(resolveID(game.AwayTeamID, game.AwayTeam), game.AwayTeam),
		others: make(map[int]*teamState),
	}

	processed := 0
	for _, ev := range events {
		processed++
		b.record(ev)
	}

	return BoxScore{
		GameID:          game.ID,
		EventsProcessed: processed,
		Home:            b.home.finalize(),
		Away:            b.away.finalize(),
	}
}
