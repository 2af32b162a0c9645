package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/courtside/internal/boxscore"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a built box score is served from cache.
const DefaultTTL = 10 * time.Minute

// RedisCache memoizes built box scores and game records.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisCacheFromClient(client, DefaultTTL), nil
}

// NewRedisCacheFromClient wraps an existing client. A non-positive ttl uses
// DefaultTTL.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func boxScoreKey(gameID string) string { return fmt.Sprintf("game:%s:boxscore", gameID) }
func gameKey(gameID string) string     { return fmt.Sprintf("game:%s:record", gameID) }

// GetBoxScore returns the cached box score. A miss returns (nil, nil).
func (rc *RedisCache) GetBoxScore(ctx context.Context, gameID string) (*boxscore.BoxScore, error) {
	var box boxscore.BoxScore
	found, err := rc.getJSON(ctx, boxScoreKey(gameID), &box)
	if err != nil || !found {
		return nil, err
	}
	return &box, nil
}

// SetBoxScore stores a built box score with the cache TTL.
func (rc *RedisCache) SetBoxScore(ctx context.Context, gameID string, box *boxscore.BoxScore) error {
	return rc.setJSON(ctx, boxScoreKey(gameID), box)
}

// GetGame returns the cached game record. A miss returns (nil, nil).
func (rc *RedisCache) GetGame(ctx context.Context, gameID string) (*boxscore.Game, error) {
	var game boxscore.Game
	found, err := rc.getJSON(ctx, gameKey(gameID), &game)
	if err != nil || !found {
		return nil, err
	}
	return &game, nil
}

// SetGame stores a game record with the cache TTL.
func (rc *RedisCache) SetGame(ctx context.Context, game *boxscore.Game) error {
	return rc.setJSON(ctx, gameKey(game.ID), game)
}

// Invalidate drops everything cached for gameID.
func (rc *RedisCache) Invalidate(ctx context.Context, gameID string) error {
	return rc.client.Del(ctx, boxScoreKey(gameID), gameKey(gameID)).Err()
}

func (rc *RedisCache) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (rc *RedisCache) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := rc.client.Set(ctx, key, data, rc.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
