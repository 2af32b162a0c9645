package boxscore

// TeamRef identifies a team either from the game record or from the team payload
// embedded in a play-by-play event.
type TeamRef struct {
	ID           *int   `json:"id"`
	FullName     string `json:"full_name,omitempty"`
	Name         string `json:"name,omitempty"`
	Abbreviation string `json:"abbreviation,omitempty"`
	College      string `json:"college,omitempty"`
}

// Game carries the canonical home and away teams for a box score build.
// HomeTeamID/AwayTeamID take precedence over the ids on the team records.
type Game struct {
	ID         string   `json:"id"`
	HomeTeamID *int     `json:"home_team_id,omitempty"`
	AwayTeamID *int     `json:"away_team_id,omitempty"`
	HomeTeam   *TeamRef `json:"home_team"`
	AwayTeam   *TeamRef `json:"visitor_team"`
}

// PlayEvent is a single normalized play-by-play entry.
type PlayEvent struct {
	Sequence      int      `json:"sequence"`
	Period        *int     `json:"period"`
	Clock         string   `json:"clock"`
	Description   string   `json:"description"`
	HomeScore     *int     `json:"home_score"`
	AwayScore     *int     `json:"away_score"`
	Team          *TeamRef `json:"team"`
	IsScoringPlay bool     `json:"is_scoring_play"`
	ScoreValue    *int     `json:"score_value"`
	RawType       string   `json:"raw_type"`
}

// StatLine holds counting stats shared by players and team totals.
type StatLine struct {
	FGM     int `json:"fgm"`
	FGA     int `json:"fga"`
	TPM     int `json:"tpm"`
	TPA     int `json:"tpa"`
	FTM     int `json:"ftm"`
	FTA     int `json:"fta"`
	OReb    int `json:"oreb"`
	DReb    int `json:"dreb"`
	Reb     int `json:"reb"`
	Ast     int `json:"ast"`
	Stl     int `json:"stl"`
	Blk     int `json:"blk"`
	Tov     int `json:"tov"`
	PF      int `json:"pf"`
	Pts     int `json:"pts"`
	Seconds int `json:"seconds"`

	// Playing time is not derivable from play descriptions, so Minutes stays nil.
	Minutes         *float64 `json:"minutes"`
	TrueShootingPct *float64 `json:"true_shooting_pct"`
	EffectiveFGPct  *float64 `json:"effective_fg_pct"`
}

// Stocks returns steals plus blocks.
func (s StatLine) Stocks() int {
	return s.Stl + s.Blk
}

// PlayerBoxLine is one player's line in a reconstructed box score.
type PlayerBoxLine struct {
	PlayerID  int    `json:"player_id"`
	TeamID    *int   `json:"team_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Starter   bool   `json:"starter"`
	Order     int    `json:"order"`
	StatLine
}

// TeamBox is the finalized box score for one side of a game.
type TeamBox struct {
	TeamID   *int            `json:"team_id"`
	Team     *TeamRef        `json:"team"`
	Players  []PlayerBoxLine `json:"players"`
	Starters []PlayerBoxLine `json:"starters"`
	Bench    []PlayerBoxLine `json:"bench"`
	Totals   StatLine        `json:"totals"`
}

// BoxScore is the result of replaying a game's play-by-play.
type BoxScore struct {
	GameID          string  `json:"game_id"`
	EventsProcessed int     `json:"events_processed"`
	Home            TeamBox `json:"home"`
	Away            TeamBox `json:"away"`
}
