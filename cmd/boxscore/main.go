package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fortuna/courtside/internal/boxscore"
	"github.com/fortuna/courtside/internal/ingest/ncaam"
	"github.com/fortuna/courtside/internal/service"
	flag "github.com/spf13/pflag"
)

const (
	appName    = "courtside-boxscore"
	appVersion = "1.0.0"
)

type options struct {
	file     string
	gameID   string
	homeID   int
	awayID   int
	homeName string
	awayName string
	game     string
	apiBase  string
	plays    bool
	compact  bool
	timeout  time.Duration
}

func main() {
	log.SetOutput(os.Stderr)
	log.Printf("=== %s v%s ===", appName, appVersion)

	opts := parseFlags()

	var (
		result interface{}
		err    error
	)
	switch {
	case opts.game != "":
		result, err = fromAPI(opts)
	case opts.file != "":
		result, err = fromFile(opts)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("build box score: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	if !opts.compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		log.Fatalf("write output: %v", err)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVarP(&opts.file, "file", "f", "", "Play-by-play JSON file (array of plays or {\"data\": [...]})")
	flag.StringVar(&opts.gameID, "game-id", "local", "Game id to stamp on a file-based box score")
	flag.IntVar(&opts.homeID, "home-id", 0, "Home team id (file mode)")
	flag.IntVar(&opts.awayID, "away-id", 0, "Away team id (file mode)")
	flag.StringVar(&opts.homeName, "home-name", "", "Home team name, used to recognise team-level plays (file mode)")
	flag.StringVar(&opts.awayName, "away-name", "", "Away team name, used to recognise team-level plays (file mode)")
	flag.StringVarP(&opts.game, "game", "g", "", "Fetch this game from the API instead of reading a file")
	flag.StringVar(&opts.apiBase, "api-base", getEnv("NCAAM_API_BASE", ncaam.BaseURL), "Play-by-play API base URL")
	flag.BoolVar(&opts.plays, "plays", false, "Include normalized plays in API output")
	flag.BoolVar(&opts.compact, "compact", false, "Write compact JSON")
	flag.DurationVar(&opts.timeout, "timeout", time.Minute, "Overall API timeout")
	flag.Parse()
	return opts
}

func fromFile(opts options) (*boxscore.BoxScore, error) {
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", opts.file, err)
	}

	events, err := ncaam.DecodePlayByPlay(data)
	if err != nil {
		return nil, err
	}

	box := boxscore.Build(gameFromFlags(opts), events)
	log.Printf("✓ Processed %d events (%d home / %d away players)",
		box.EventsProcessed, len(box.Home.Players), len(box.Away.Players))
	return &box, nil
}

func gameFromFlags(opts options) boxscore.Game {
	game := boxscore.Game{ID: opts.gameID}
	if opts.homeID != 0 {
		id := opts.homeID
		game.HomeTeamID = &id
		game.HomeTeam = &boxscore.TeamRef{ID: &id, Name: opts.homeName}
	}
	if opts.awayID != 0 {
		id := opts.awayID
		game.AwayTeamID = &id
		game.AwayTeam = &boxscore.TeamRef{ID: &id, Name: opts.awayName}
	}
	return game
}

func fromAPI(opts options) (*service.GameDetail, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	svc := service.NewBoxScoreService(ncaam.NewIngesterWithBaseURL(opts.apiBase), nil, nil)
	detail, err := svc.GetGameDetail(ctx, opts.game, service.DetailOptions{IncludePlays: opts.plays})
	if err != nil {
		return nil, err
	}
	if detail.BoxScoreError != "" {
		log.Printf("⚠️  Box score unavailable: %s", detail.BoxScoreError)
	}
	return detail, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
