package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fortuna/courtside/internal/boxscore"
	"github.com/redis/go-redis/v9"
)

// BoxScoreStream receives one entry per freshly built box score.
const BoxScoreStream = "games.boxscore.basketball_ncaam"

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		stream: BoxScoreStream,
		maxLen: 10000,
	}
}

// WithStream overrides the target stream name.
func (p *RedisStreamPublisher) WithStream(stream string) *RedisStreamPublisher {
	p.stream = stream
	return p
}

// PublishBoxScore appends a box score to the stream, trimming it to roughly
// maxLen entries.
func (p *RedisStreamPublisher) PublishBoxScore(ctx context.Context, box *boxscore.BoxScore) error {
	data, err := json.Marshal(box)
	if err != nil {
		return fmt.Errorf("encode box score: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"game_id":          box.GameID,
			"events_processed": box.EventsProcessed,
			"data":             string(data),
			"timestamp":        time.Now().Unix(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}
