package boxscore

import (
	"fmt"
	"math"
	"testing"
)

const (
	homeID = 10
	awayID = 20
)

func intPtr(v int) *int { return &v }

func testGame() Game {
	return Game{
		ID:       "1234",
		HomeTeam: &TeamRef{ID: intPtr(homeID), FullName: "Home Team", Name: "Home", Abbreviation: "HME"},
		AwayTeam: &TeamRef{ID: intPtr(awayID), FullName: "Away Team", Name: "Away", Abbreviation: "AWY"},
	}
}

func play(teamID int, rawType, description string) PlayEvent {
	return PlayEvent{
		Team:        &TeamRef{ID: intPtr(teamID)},
		RawType:     rawType,
		Description: description,
	}
}

func scoring(ev PlayEvent, value *int) PlayEvent {
	ev.IsScoringPlay = true
	ev.ScoreValue = value
	return ev
}

func findPlayer(t *testing.T, box TeamBox, fullName string) PlayerBoxLine {
	t.Helper()
	for _, p := range box.Players {
		if p.FullName == fullName {
			return p
		}
	}
	t.Fatalf("player %q not found in %d players", fullName, len(box.Players))
	return PlayerBoxLine{}
}

func TestBuild_AssistedThree(t *testing.T) {
	events := []PlayEvent{
		scoring(play(homeID, "jumpShot", "Jordan Smith made Three Point Jumper. Assisted by Alex Lee."), intPtr(3)),
	}

	box := Build(testGame(), events)

	shooter := findPlayer(t, box.Home, "Jordan Smith")
	if shooter.FGA != 1 || shooter.TPA != 1 || shooter.FGM != 1 || shooter.TPM != 1 || shooter.Pts != 3 {
		t.Errorf("shooter line = %+v, want 1/1 FG, 1/1 3PT, 3 pts", shooter.StatLine)
	}
	if shooter.FirstName != "Jordan" || shooter.LastName != "Smith" {
		t.Errorf("shooter name split = %q/%q", shooter.FirstName, shooter.LastName)
	}

	assister := findPlayer(t, box.Home, "Alex Lee")
	if assister.Ast != 1 {
		t.Errorf("assister ast = %d, want 1", assister.Ast)
	}
	if assister.FGA != 0 || assister.Pts != 0 {
		t.Errorf("assister should have no shooting stats, got %+v", assister.StatLine)
	}

	if box.Home.Totals.Pts != 3 || box.Home.Totals.Ast != 1 || box.Home.Totals.TPM != 1 {
		t.Errorf("home totals = %+v", box.Home.Totals)
	}
	if len(box.Away.Players) != 0 {
		t.Errorf("away should be untouched, got %d players", len(box.Away.Players))
	}
}

func TestBuild_TeamReboundCreatesNoPlayer(t *testing.T) {
	game := testGame()
	game.HomeTeam.College = "Team"

	events := []PlayEvent{
		play(homeID, "defensiveRebound", "Team Rebound"),
		play(homeID, "offensiveRebound", "Home Offensive Rebound."),
	}

	box := Build(game, events)

	if len(box.Home.Players) != 0 {
		t.Fatalf("expected no players, got %+v", box.Home.Players)
	}
	if box.Home.Totals.DReb != 1 || box.Home.Totals.OReb != 1 || box.Home.Totals.Reb != 2 {
		t.Errorf("home totals rebounds = %d/%d/%d, want 1/1/2",
			box.Home.Totals.OReb, box.Home.Totals.DReb, box.Home.Totals.Reb)
	}
}

func TestBuild_RepeatedReboundsShareIdentity(t *testing.T) {
	events := []PlayEvent{
		play(awayID, "defensiveRebound", "Jordan Smith Defensive Rebound"),
		play(awayID, "defensiveRebound", "Jordan Smith Defensive Rebound"),
	}

	box := Build(testGame(), events)

	if len(box.Away.Players) != 1 {
		t.Fatalf("expected 1 player, got %d", len(box.Away.Players))
	}
	p := box.Away.Players[0]
	if p.DReb != 2 || p.Reb != 2 {
		t.Errorf("dreb/reb = %d/%d, want 2/2", p.DReb, p.Reb)
	}
}

func TestBuild_TechnicalFoulUsesFoulRule(t *testing.T) {
	events := []PlayEvent{
		play(homeID, "technicalFoul", "Technical Foul on Chris Young."),
	}

	box := Build(testGame(), events)

	p := findPlayer(t, box.Home, "Chris Young")
	if p.PF != 1 || box.Home.Totals.PF != 1 {
		t.Errorf("pf player/team = %d/%d, want 1/1", p.PF, box.Home.Totals.PF)
	}
}

func TestBuild_EmptyEvents(t *testing.T) {
	box := Build(testGame(), nil)

	if box.EventsProcessed != 0 {
		t.Errorf("EventsProcessed = %d, want 0", box.EventsProcessed)
	}
	for _, side := range []TeamBox{box.Home, box.Away} {
		if side.Players == nil || len(side.Players) != 0 {
			t.Errorf("players = %#v, want empty non-nil slice", side.Players)
		}
		if side.Totals != (StatLine{}) {
			t.Errorf("totals = %+v, want zero", side.Totals)
		}
	}
	if box.GameID != "1234" {
		t.Errorf("GameID = %q", box.GameID)
	}
}

func TestBuild_StarterCapAndSortOrder(t *testing.T) {
	names := []string{"P One", "P Two", "P Three", "P Four", "P Five", "P Six", "P Seven"}
	var events []PlayEvent
	for _, name := range names {
		events = append(events, play(homeID, "personalFoul", "Foul on "+name+"."))
	}
	// bench scorer outscores every starter
	events = append(events,
		scoring(play(homeID, "jumpShot", "P Six made Three Point Jumper."), intPtr(3)),
		scoring(play(homeID, "layup", "P Three made Layup."), nil),
		scoring(play(homeID, "layup", "P Four made Layup."), nil),
	)

	box := Build(testGame(), events)

	if len(box.Home.Starters) != 5 || len(box.Home.Bench) != 2 {
		t.Fatalf("starters/bench = %d/%d, want 5/2", len(box.Home.Starters), len(box.Home.Bench))
	}
	for _, p := range box.Home.Starters {
		if p.Order > 5 {
			t.Errorf("starter %s has order %d", p.FullName, p.Order)
		}
	}

	wantOrder := []string{"P Three", "P Four", "P One", "P Two", "P Five", "P Six", "P Seven"}
	for i, want := range wantOrder {
		if got := box.Home.Players[i].FullName; got != want {
			t.Errorf("players[%d] = %s, want %s", i, got, want)
		}
	}

	seenBench := false
	for i, p := range box.Home.Players {
		if !p.Starter {
			seenBench = true
		} else if seenBench {
			t.Errorf("starter %s sorted after bench", p.FullName)
		}
		if i > 0 && box.Home.Players[i-1].Starter == p.Starter {
			prev := box.Home.Players[i-1]
			if prev.Pts < p.Pts || (prev.Pts == p.Pts && prev.Order > p.Order) {
				t.Errorf("%s sorted before %s", prev.FullName, p.FullName)
			}
		}
	}
}

func TestBuild_ProcessedCountIncludesSkippedEvents(t *testing.T) {
	events := []PlayEvent{
		{RawType: "jumpShot", Description: "Jordan Smith made Jumper.", IsScoringPlay: true},
		play(homeID, "substitution", "Alex Lee enters the game"),
		play(homeID, "", ""),
		play(awayID, "steal", "Sam Hart Steal."),
	}

	box := Build(testGame(), events)

	if box.EventsProcessed != len(events) {
		t.Errorf("EventsProcessed = %d, want %d", box.EventsProcessed, len(events))
	}
	if box.Home.Totals != (StatLine{}) {
		t.Errorf("home totals should be empty, got %+v", box.Home.Totals)
	}
	if box.Away.Totals.Stl != 1 {
		t.Errorf("away stl = %d, want 1", box.Away.Totals.Stl)
	}
}

func TestBuild_UnattributedEvents(t *testing.T) {
	events := []PlayEvent{
		play(homeID, "jumpShot", "Missed jumper"),
		play(homeID, "turnover", "Shot Clock Violation"),
		play(homeID, "personalFoul", "Technical Foul"),
		play(homeID, "steal", "Ball stolen"),
		play(homeID, "blockShot", "Blocked shot"),
	}

	box := Build(testGame(), events)

	totals := box.Home.Totals
	if totals.FGA != 1 || totals.Tov != 1 || totals.PF != 1 {
		t.Errorf("team-level counters = fga %d tov %d pf %d, want 1/1/1", totals.FGA, totals.Tov, totals.PF)
	}
	if totals.Stl != 0 || totals.Blk != 0 {
		t.Errorf("steal/block need a named player, got stl %d blk %d", totals.Stl, totals.Blk)
	}
	if len(box.Home.Players) != 0 {
		t.Errorf("expected no players, got %d", len(box.Home.Players))
	}
}

func TestBuild_FreeThrowsAndSelfAssist(t *testing.T) {
	events := []PlayEvent{
		scoring(play(homeID, "freeThrow", "Jordan Smith made Free Throw."), nil),
		play(homeID, "freeThrow", "Jordan Smith missed Free Throw."),
		scoring(play(homeID, "layup", "Jordan Smith made Layup. Assisted by Jordan Smith."), intPtr(2)),
	}

	box := Build(testGame(), events)

	p := findPlayer(t, box.Home, "Jordan Smith")
	if p.FTA != 2 || p.FTM != 1 {
		t.Errorf("ft = %d/%d, want 1/2", p.FTM, p.FTA)
	}
	if p.Pts != 3 {
		t.Errorf("pts = %d, want 3", p.Pts)
	}
	if p.Ast != 0 || box.Home.Totals.Ast != 0 {
		t.Errorf("self assist should be ignored, got %d", p.Ast)
	}
	if len(box.Home.Players) != 1 {
		t.Errorf("expected a single player, got %d", len(box.Home.Players))
	}
}

func TestBuild_ForeignTeamIsNotMerged(t *testing.T) {
	events := []PlayEvent{
		play(99, "jumpShot", "Ghost Player made Jumper."),
		{Team: &TeamRef{Name: "Nobody"}, RawType: "turnover", Description: "Ghost Player Turnover."},
	}

	box := Build(testGame(), events)

	if box.Home.Totals != (StatLine{}) || box.Away.Totals != (StatLine{}) {
		t.Errorf("foreign-team events leaked into home/away: %+v / %+v", box.Home.Totals, box.Away.Totals)
	}
}

func TestBuild_AdoptsEventTeamWhenRecordMissing(t *testing.T) {
	game := Game{ID: "7", HomeTeamID: intPtr(homeID), AwayTeamID: intPtr(awayID)}
	events := []PlayEvent{
		{Team: &TeamRef{ID: intPtr(homeID), Name: "Hawks"}, RawType: "defensiveRebound", Description: "Hawks Defensive Rebound."},
	}

	box := Build(game, events)

	if box.Home.Team == nil || box.Home.Team.Name != "Hawks" {
		t.Fatalf("home team = %+v, want adopted Hawks payload", box.Home.Team)
	}
	if len(box.Home.Players) != 0 {
		t.Errorf("team label should not become a player")
	}
	if box.Home.TeamID == nil || *box.Home.TeamID != homeID {
		t.Errorf("home team id = %v", box.Home.TeamID)
	}
	if box.Away.Team != nil {
		t.Errorf("away team should stay nil, got %+v", box.Away.Team)
	}
}

func TestBuild_ReboundInvariant(t *testing.T) {
	var events []PlayEvent
	for i := 0; i < 30; i++ {
		team := homeID
		if i%3 == 0 {
			team = awayID
		}
		kind := "defensiveRebound"
		if i%2 == 0 {
			kind = "offensiveRebound"
		}
		label := "Defensive Rebound"
		if i%2 == 0 {
			label = "Offensive Rebound"
		}
		desc := fmt.Sprintf("Player %d %s", i%7, label)
		if i%5 == 0 {
			desc = "Team Rebound"
		}
		events = append(events, play(team, kind, desc))
	}

	box := Build(testGame(), events)

	for _, side := range []TeamBox{box.Home, box.Away} {
		if side.Totals.Reb != side.Totals.OReb+side.Totals.DReb {
			t.Errorf("team reb %d != %d + %d", side.Totals.Reb, side.Totals.OReb, side.Totals.DReb)
		}
		for _, p := range side.Players {
			if p.Reb != p.OReb+p.DReb {
				t.Errorf("%s reb %d != %d + %d", p.FullName, p.Reb, p.OReb, p.DReb)
			}
			if p.Minutes != nil {
				t.Errorf("%s minutes should be nil", p.FullName)
			}
		}
	}
	if got := box.Home.Totals.Reb + box.Away.Totals.Reb; got != len(events) {
		t.Errorf("total rebounds = %d, want %d", got, len(events))
	}
}

func TestBuild_ShootingPercentages(t *testing.T) {
	events := []PlayEvent{
		scoring(play(homeID, "jumpShot", "Jordan Smith made Three Point Jumper."), intPtr(3)),
		play(homeID, "layup", "Jordan Smith missed Layup."),
	}

	box := Build(testGame(), events)
	p := findPlayer(t, box.Home, "Jordan Smith")

	if p.EffectiveFGPct == nil || math.Abs(*p.EffectiveFGPct-0.75) > 1e-9 {
		t.Errorf("eFG%% = %v, want 0.75", p.EffectiveFGPct)
	}
	if p.TrueShootingPct == nil || math.Abs(*p.TrueShootingPct-0.75) > 1e-9 {
		t.Errorf("TS%% = %v, want 0.75", p.TrueShootingPct)
	}
	if p.Stocks() != 0 {
		t.Errorf("Stocks() = %d", p.Stocks())
	}
}

func TestEnsurePlayer_Idempotent(t *testing.T) {
	ts := newTeamState(intPtr(homeID), &TeamRef{ID: intPtr(homeID), Name: "Home"})

	first, ok := ts.ensurePlayer("Jordan Smith", nil)
	if !ok {
		t.Fatal("expected Jordan Smith to register")
	}
	second, ok := ts.ensurePlayer("  jordan   SMITH. ", nil)
	if !ok || second != first {
		t.Errorf("second lookup = %d (%v), want %d", second, ok, first)
	}
	if len(ts.players) != 1 {
		t.Errorf("players = %d, want 1", len(ts.players))
	}
	if ts.players[first].PlayerID != 1 || ts.players[first].Order != 1 || !ts.players[first].Starter {
		t.Errorf("unexpected line %+v", ts.players[first])
	}

	if _, ok := ts.ensurePlayer("home", nil); ok {
		t.Error("team label registered as player")
	}
	if _, ok := ts.ensurePlayer(" .. ", nil); ok {
		t.Error("empty name registered as player")
	}

	other, ok := ts.ensurePlayer("Alex Lee", nil)
	if !ok || other == first || ts.players[other].PlayerID != 2 {
		t.Errorf("Alex Lee = %d (%v), id %d", other, ok, ts.players[other].PlayerID)
	}
}
