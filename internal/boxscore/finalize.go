package boxscore

import "sort"

func calculateTrueShootingPct(s StatLine) *float64 {
	if s.FGA == 0 && s.FTA == 0 {
		return nil
	}
	denominator := 2.0 * (float64(s.FGA) + 0.44*float64(s.FTA))
	ts := float64(s.Pts) / denominator
	return &ts
}

func calculateEffectiveFGPct(s StatLine) *float64 {
	if s.FGA == 0 {
		return nil
	}
	efg := (float64(s.FGM) + 0.5*float64(s.TPM)) / float64(s.FGA)
	return &efg
}

func finalizeLine(s *StatLine) {
	s.Reb = s.OReb + s.DReb
	s.Minutes = nil
	s.TrueShootingPct = calculateTrueShootingPct(*s)
	s.EffectiveFGPct = calculateEffectiveFGPct(*s)
}

// sortPlayers orders starters first, then points descending, then by the
// order each player first appeared.
func sortPlayers(players []PlayerBoxLine) {
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.Starter != b.Starter {
			return a.Starter
		}
		if a.Pts != b.Pts {
			return a.Pts > b.Pts
		}
		return a.Order < b.Order
	})
}

func (ts *teamState) finalize() TeamBox {
	players := make([]PlayerBoxLine, len(ts.players))
	copy(players, ts.players)
	for i := range players {
		finalizeLine(&players[i].StatLine)
	}
	sortPlayers(players)

	totals := ts.totals
	finalizeLine(&totals)

	starters := make([]PlayerBoxLine, 0, starterSlots)
	bench := make([]PlayerBoxLine, 0, len(players))
	for _, p := range players {
		if p.Starter {
			starters = append(starters, p)
		} else {
			bench = append(bench, p)
		}
	}

	return TeamBox{
		TeamID:   ts.teamID,
		Team:     ts.team,
		Players:  players,
		Starters: starters,
		Bench:    bench,
		Totals:   totals,
	}
}
