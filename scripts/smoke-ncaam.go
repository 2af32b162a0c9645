//go:build ignore

// Smoke test against the live play-by-play API:
//
//	go run scripts/smoke-ncaam.go 1234
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/fortuna/courtside/internal/boxscore"
	"github.com/fortuna/courtside/internal/ingest/ncaam"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: go run scripts/smoke-ncaam.go <game-id>")
	}
	gameID := os.Args[1]

	log.Println("Testing NCAAM API client directly...")

	ingester := ncaam.NewIngesterWithBaseURL(os.Getenv("NCAAM_API_BASE"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Printf("Fetching game %s...", gameID)
	game, err := ingester.Game(ctx, gameID)
	if err != nil {
		log.Printf("❌ ERROR: %v", err)
		return
	}
	log.Printf("✅ SUCCESS! home=%v away=%v", teamName(game.HomeTeam), teamName(game.AwayTeam))

	log.Printf("\nFetching play-by-play for %s...", gameID)
	plays, err := ingester.PlayByPlay(ctx, gameID)
	if err != nil {
		log.Printf("❌ ERROR: %v", err)
		return
	}
	log.Printf("✅ SUCCESS! Got %d plays", len(plays))

	box := boxscore.Build(*game, plays)
	for _, side := range []boxscore.TeamBox{box.Home, box.Away} {
		log.Printf("   %s: %d pts, %d players (%d starters)",
			teamName(side.Team), side.Totals.Pts, len(side.Players), len(side.Starters))
	}

	log.Println("\n✅ All checks passed!")
}

func teamName(team *boxscore.TeamRef) string {
	if team == nil {
		return "unknown"
	}
	if team.FullName != "" {
		return team.FullName
	}
	return team.Name
}
