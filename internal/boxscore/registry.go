package boxscore

import "strings"

const starterSlots = 5

// teamState is the mutable accumulator for one team during a single Build.
// Players live in a dense slice; byKey maps a normalized name to its index.
type teamState struct {
	teamID       *int
	team         *TeamRef
	players      []PlayerBoxLine
	byKey        map[string]int
	orderCounter int
	nextPlayerID int
	totals       StatLine
}

func newTeamState(teamID *int, team *TeamRef) *teamState {
	return &teamState{
		teamID: teamID,
		team:   team,
		byKey:  make(map[string]int),
	}
}

func (ts *teamState) matches(id int) bool {
	return ts.teamID != nil && *ts.teamID == id
}

// adopt fills in a missing team record from an event payload.
func (ts *teamState) adopt(ref *TeamRef) {
	if ts.team == nil && ref != nil {
		cpy := *ref
		ts.team = &cpy
	}
}

// ensurePlayer resolves rawName to a player index on this team, registering a
// new line on first sight. It returns false when the name is empty or is the
// team's own label.
func (ts *teamState) ensurePlayer(rawName string, playTeam *TeamRef) (int, bool) {
	name := CleanupName(rawName)
	if name == "" {
		return 0, false
	}
	if IsLikelyTeamLabel(name, ts.team, playTeam) {
		return 0, false
	}

	key := NormalizeLabel(name)
	if key == "" {
		return 0, false
	}
	if idx, ok := ts.byKey[key]; ok {
		return idx, true
	}

	firstName, lastName := name, ""
	if i := strings.Index(name, " "); i > 0 {
		firstName, lastName = name[:i], name[i+1:]
	}

	ts.nextPlayerID++
	ts.orderCounter++
	line := PlayerBoxLine{
		PlayerID:  ts.nextPlayerID,
		TeamID:    ts.teamID,
		FirstName: firstName,
		LastName:  lastName,
		FullName:  name,
		Starter:   len(ts.players) < starterSlots,
		Order:     ts.orderCounter,
	}

	ts.players = append(ts.players, line)
	idx := len(ts.players) - 1
	ts.byKey[key] = idx
	return idx, true
}

// player returns the line at idx, or nil when ok is false.
func (ts *teamState) player(idx int, ok bool) *StatLine {
	if !ok {
		return nil
	}
	return &ts.players[idx].StatLine
}

func (ts *teamState) refreshRebounds(line *StatLine) {
	if line != nil {
		line.Reb = line.OReb + line.DReb
	}
	ts.totals.Reb = ts.totals.OReb + ts.totals.DReb
}
