package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fortuna/courtside/internal/boxscore"
	"github.com/fortuna/courtside/internal/ingest/ncaam"
	"golang.org/x/sync/singleflight"
)

// ErrGameNotFound is returned when the upstream API has no such game.
var ErrGameNotFound = errors.New("game not found")

// Source supplies game records and play-by-play.
type Source interface {
	Game(ctx context.Context, gameID string) (*boxscore.Game, error)
	PlayByPlay(ctx context.Context, gameID string) ([]boxscore.PlayEvent, error)
}

// Cache memoizes game records and built box scores. Misses return nil
// without an error.
type Cache interface {
	GetGame(ctx context.Context, gameID string) (*boxscore.Game, error)
	SetGame(ctx context.Context, game *boxscore.Game) error
	GetBoxScore(ctx context.Context, gameID string) (*boxscore.BoxScore, error)
	SetBoxScore(ctx context.Context, gameID string, box *boxscore.BoxScore) error
}

// Publisher announces freshly built box scores.
type Publisher interface {
	PublishBoxScore(ctx context.Context, box *boxscore.BoxScore) error
}

// GameDetail is a game with its reconstructed box score. When play-by-play
// could not be loaded BoxScore is nil and BoxScoreError explains why.
type GameDetail struct {
	Game          *boxscore.Game       `json:"game"`
	PlayByPlay    []boxscore.PlayEvent `json:"play_by_play,omitempty"`
	BoxScore      *boxscore.BoxScore   `json:"box_score"`
	BoxScoreError string               `json:"box_score_error,omitempty"`
	Cached        bool                 `json:"cached"`
}

// DetailOptions tunes GetGameDetail.
type DetailOptions struct {
	// IncludePlays returns the normalized plays alongside the box score.
	// It always rebuilds from a fresh fetch.
	IncludePlays bool
}

// BoxScoreService loads games, rebuilds box scores from play-by-play and
// keeps the cache and stream up to date.
// Concurrent loads of the same game share one fetch, build and publish.
type BoxScoreService struct {
	source    Source
	cache     Cache
	publisher Publisher

	games  singleflight.Group
	builds singleflight.Group
}

// buildResult is what concurrent callers of one build share. Callers must
// not mutate it.
type buildResult struct {
	plays []boxscore.PlayEvent
	box   *boxscore.BoxScore
}

// NewBoxScoreService wires the service. cache and publisher may be nil.
func NewBoxScoreService(source Source, cache Cache, publisher Publisher) *BoxScoreService {
	return &BoxScoreService{
		source:    source,
		cache:     cache,
		publisher: publisher,
	}
}

// GetGame returns the game record, preferring the cache.
func (s *BoxScoreService) GetGame(ctx context.Context, gameID string) (*boxscore.Game, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}

	if s.cache != nil {
		game, err := s.cache.GetGame(ctx, gameID)
		if err != nil {
			log.Printf("[boxscore-service] ⚠️  Cache read failed for game %s: %v", gameID, err)
		} else if game != nil {
			return game, nil
		}
	}

	shared := context.WithoutCancel(ctx)
	v, err := await(ctx, s.games.DoChan(gameID, func() (interface{}, error) {
		game, err := s.source.Game(shared, gameID)
		if errors.Is(err, ncaam.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
		}
		if err != nil {
			return nil, fmt.Errorf("loading game %s: %w", gameID, err)
		}

		if s.cache != nil {
			if err := s.cache.SetGame(shared, game); err != nil {
				log.Printf("[boxscore-service] ⚠️  Failed to cache game %s: %v", gameID, err)
			}
		}
		return game, nil
	}))
	if err != nil {
		return nil, err
	}
	return v.(*boxscore.Game), nil
}

// GetPlayByPlay returns the normalized plays for a game. A game without
// play-by-play yields an empty slice.
func (s *BoxScoreService) GetPlayByPlay(ctx context.Context, gameID string) ([]boxscore.PlayEvent, error) {
	plays, err := s.source.PlayByPlay(ctx, gameID)
	if errors.Is(err, ncaam.ErrNotFound) {
		return []boxscore.PlayEvent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading play-by-play for %s: %w", gameID, err)
	}
	return plays, nil
}

// GetGameDetail loads the game and its box score. Failing to load the game
// is an error; failing to load plays is reported in GameDetail.BoxScoreError.
func (s *BoxScoreService) GetGameDetail(ctx context.Context, gameID string, opts DetailOptions) (*GameDetail, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	detail := &GameDetail{Game: game}

	if !opts.IncludePlays && s.cache != nil {
		box, err := s.cache.GetBoxScore(ctx, game.ID)
		if err != nil {
			log.Printf("[boxscore-service] ⚠️  Cache read failed for box score %s: %v", game.ID, err)
		} else if box != nil {
			detail.BoxScore = box
			detail.Cached = true
			return detail, nil
		}
	}

	result, err := s.build(ctx, game)
	if err != nil {
		log.Printf("[boxscore-service] ⚠️  %v", err)
		detail.BoxScoreError = err.Error()
		return detail, nil
	}
	if opts.IncludePlays {
		detail.PlayByPlay = result.plays
	}
	detail.BoxScore = result.box
	return detail, nil
}

// build fetches plays and rebuilds the box score once per game at a time;
// callers arriving while a build is in flight wait for its result. A caller
// that gives up does not cancel the shared build.
func (s *BoxScoreService) build(ctx context.Context, game *boxscore.Game) (*buildResult, error) {
	shared := context.WithoutCancel(ctx)
	v, err := await(ctx, s.builds.DoChan(game.ID, func() (interface{}, error) {
		plays, err := s.GetPlayByPlay(shared, game.ID)
		if err != nil {
			return nil, err
		}

		box := boxscore.Build(*game, plays)
		s.store(shared, &box)

		log.Printf("[boxscore-service] ✓ Built box score for game %s (%d events, %d home / %d away players)",
			game.ID, box.EventsProcessed, len(box.Home.Players), len(box.Away.Players))
		return &buildResult{plays: plays, box: &box}, nil
	}))
	if err != nil {
		return nil, err
	}
	return v.(*buildResult), nil
}

// await waits for a shared call or for ctx, whichever comes first.
func await(ctx context.Context, ch <-chan singleflight.Result) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// GetBoxScore returns just the box score, turning a play-by-play failure
// into an error.
func (s *BoxScoreService) GetBoxScore(ctx context.Context, gameID string) (*boxscore.BoxScore, error) {
	detail, err := s.GetGameDetail(ctx, gameID, DetailOptions{})
	if err != nil {
		return nil, err
	}
	if detail.BoxScoreError != "" {
		return nil, errors.New(detail.BoxScoreError)
	}
	return detail.BoxScore, nil
}

// store caches and publishes a built box score. Games with no plays yet are
// neither cached nor published.
func (s *BoxScoreService) store(ctx context.Context, box *boxscore.BoxScore) {
	if box.EventsProcessed == 0 {
		return
	}

	if s.cache != nil {
		if err := s.cache.SetBoxScore(ctx, box.GameID, box); err != nil {
			log.Printf("[boxscore-service] ⚠️  Failed to cache box score %s: %v", box.GameID, err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishBoxScore(ctx, box); err != nil {
			log.Printf("[boxscore-service] ⚠️  Failed to publish box score %s: %v", box.GameID, err)
		}
	}
}
