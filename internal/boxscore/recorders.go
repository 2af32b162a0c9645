package boxscore

import "strings"

// apply adds value to the field picked by pick on the player line (when
// attributed) and on the team totals.
func apply(ts *teamState, line *StatLine, pick func(*StatLine) *int, value int) {
	if value == 0 {
		return
	}
	if line != nil {
		*pick(line) += value
	}
	*pick(&ts.totals) += value
}

func fga(s *StatLine) *int  { return &s.FGA }
func fgm(s *StatLine) *int  { return &s.FGM }
func tpa(s *StatLine) *int  { return &s.TPA }
func tpm(s *StatLine) *int  { return &s.TPM }
func fta(s *StatLine) *int  { return &s.FTA }
func ftm(s *StatLine) *int  { return &s.FTM }
func oreb(s *StatLine) *int { return &s.OReb }
func dreb(s *StatLine) *int { return &s.DReb }
func ast(s *StatLine) *int  { return &s.Ast }
func stl(s *StatLine) *int  { return &s.Stl }
func blk(s *StatLine) *int  { return &s.Blk }
func tov(s *StatLine) *int  { return &s.Tov }
func pf(s *StatLine) *int   { return &s.PF }
func pts(s *StatLine) *int  { return &s.Pts }

func isThreePointAttempt(ev PlayEvent) bool {
	if ev.ScoreValue != nil && *ev.ScoreValue == 3 {
		return true
	}
	return strings.Contains(strings.ToLower(ev.Description), "three point")
}

func recordFieldGoal(ts *teamState, ev PlayEvent) {
	shooterName := ExtractShooter(ev.Description)
	shooter := ts.player(ts.ensurePlayer(shooterName, ev.Team))
	three := isThreePointAttempt(ev)

	apply(ts, shooter, fga, 1)
	if three {
		apply(ts, shooter, tpa, 1)
	}

	if ev.IsScoringPlay {
		apply(ts, shooter, fgm, 1)
		if three {
			apply(ts, shooter, tpm, 1)
		}
		points := 2
		if three {
			points = 3
		}
		if ev.ScoreValue != nil {
			points = *ev.ScoreValue
		}
		apply(ts, shooter, pts, points)
	}

	assisterName := ExtractAssister(ev.Description)
	if assisterName == "" || NormalizeLabel(assisterName) == NormalizeLabel(shooterName) {
		return
	}
	apply(ts, ts.player(ts.ensurePlayer(assisterName, ev.Team)), ast, 1)
}

func recordFreeThrow(ts *teamState, ev PlayEvent) {
	shooter := ts.player(ts.ensurePlayer(ExtractShooter(ev.Description), ev.Team))

	apply(ts, shooter, fta, 1)
	if !ev.IsScoringPlay {
		return
	}
	apply(ts, shooter, ftm, 1)
	points := 1
	if ev.ScoreValue != nil {
		points = *ev.ScoreValue
	}
	apply(ts, shooter, pts, points)
}

func recordRebound(ts *teamState, ev PlayEvent, offensive bool) {
	rebounder := ts.player(ts.ensurePlayer(ExtractRebounder(ev.Description), ev.Team))
	if offensive {
		apply(ts, rebounder, oreb, 1)
	} else {
		apply(ts, rebounder, dreb, 1)
	}
	ts.refreshRebounds(rebounder)
}

func recordTurnover(ts *teamState, ev PlayEvent) {
	culprit := ts.player(ts.ensurePlayer(ExtractTurnoverCommitter(ev.Description), ev.Team))
	apply(ts, culprit, tov, 1)
}

// Steals and blocks are only counted when a player is named.
func recordSteal(ts *teamState, ev PlayEvent) {
	if thief := ts.player(ts.ensurePlayer(ExtractStealer(ev.Description), ev.Team)); thief != nil {
		apply(ts, thief, stl, 1)
	}
}

func recordBlock(ts *teamState, ev PlayEvent) {
	if blocker := ts.player(ts.ensurePlayer(ExtractBlocker(ev.Description), ev.Team)); blocker != nil {
		apply(ts, blocker, blk, 1)
	}
}

func recordFoul(ts *teamState, ev PlayEvent) {
	fouler := ts.player(ts.ensurePlayer(ExtractFouler(ev.Description), ev.Team))
	apply(ts, fouler, pf, 1)
}
