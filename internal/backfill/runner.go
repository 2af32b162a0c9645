package backfill

import (
	"context"
	"fmt"

	"github.com/fortuna/courtside/internal/boxscore"
)

// Warmer builds (and thereby caches) the box score of a game.
type Warmer interface {
	GetBoxScore(ctx context.Context, gameID string) (*boxscore.BoxScore, error)
}

// Runner executes warm specs one game at a time.
type Runner struct {
	warmer Warmer
}

// NewRunner constructs a runner around warmer.
func NewRunner(warmer Warmer) *Runner {
	return &Runner{warmer: warmer}
}

// Run warms every game in spec, reporting progress via the Reporter if
// provided. A failing game does not stop the job; the returned error counts
// the failures. Cancellation stops the job immediately.
func (r *Runner) Run(ctx context.Context, spec JobSpec, reporter Reporter) error {
	if reporter != nil {
		reporter.OnJobStart(spec)
	}

	total := len(spec.GameIDs)
	if total == 0 {
		return fmt.Errorf("no game IDs provided")
	}

	if spec.DryRun {
		if reporter != nil {
			reporter.OnProgress(fmt.Sprintf("Dry-run mode: %d games would be warmed", total), 0, total)
			reporter.OnJobComplete()
		}
		return nil
	}

	failed := 0
	for idx, gameID := range spec.GameIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if reporter != nil {
			reporter.OnProgress(fmt.Sprintf("Warming game %s (%d/%d)", gameID, idx+1, total), idx, total)
		}

		box, err := r.warmer.GetBoxScore(ctx, gameID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			if reporter != nil {
				reporter.OnGameFailed(gameID, err)
				reporter.OnProgress(fmt.Sprintf("⚠️  Game %s failed", gameID), idx+1, total)
			}
			continue
		}

		if reporter != nil {
			reporter.OnGameProcessed(gameID, box.EventsProcessed)
			reporter.OnProgress(fmt.Sprintf("✓ Game %s complete", gameID), idx+1, total)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d games failed", failed, total)
	}

	if reporter != nil {
		reporter.OnJobComplete()
	}
	return nil
}
