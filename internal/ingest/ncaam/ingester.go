package ncaam

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/fortuna/courtside/internal/boxscore"
)

// Ingester fetches game records and play-by-play and normalizes them for the
// box score builder.
type Ingester struct {
	client *Client
}

// NewIngester creates an ingester using the default API base.
func NewIngester() *Ingester {
	return NewIngesterWithBaseURL("")
}

// NewIngesterWithBaseURL creates an ingester overriding the API base URL.
func NewIngesterWithBaseURL(baseURL string, opts ...Option) *Ingester {
	if strings.TrimSpace(baseURL) != "" {
		log.Printf("[ingester] Creating NCAAM client with baseURL: %s", baseURL)
	} else {
		log.Printf("[ingester] Creating NCAAM client with default baseURL")
	}
	return &Ingester{client: New(baseURL, opts...)}
}

// Game fetches and parses a single game record.
func (i *Ingester) Game(ctx context.Context, gameID string) (*boxscore.Game, error) {
	resp, err := i.client.FetchGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch game: %w", err)
	}

	game, err := ParseGame(resp)
	if err != nil {
		return nil, fmt.Errorf("parse game %s: %w", gameID, err)
	}
	return game, nil
}

// PlayByPlay fetches every play for gameID, sorted by sequence.
func (i *Ingester) PlayByPlay(ctx context.Context, gameID string) ([]boxscore.PlayEvent, error) {
	if strings.TrimSpace(gameID) == "" {
		return []boxscore.PlayEvent{}, nil
	}

	raw, err := i.client.FetchPlayByPlay(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch play-by-play: %w", err)
	}

	events := ParsePlayByPlay(raw)
	log.Printf("[ingest] ✓ Parsed %d plays for game %s", len(events), gameID)
	return events, nil
}
