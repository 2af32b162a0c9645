package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fortuna/courtside/internal/api/rest"
	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/ingest/ncaam"
	"github.com/fortuna/courtside/internal/publisher"
	"github.com/fortuna/courtside/internal/service"
	"golang.org/x/time/rate"
)

const (
	serviceName    = "courtside"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - Box Score Reconstruction Service", serviceName, serviceVersion)

	// Load configuration from environment
	config := loadConfig()

	ingester := ncaam.NewIngesterWithBaseURL(config.NCAAMAPIBase,
		ncaam.WithRateLimit(rate.Limit(config.APIRatePerSec), config.APIRateBurst),
	)

	var (
		boxCache    service.Cache
		boxPub      service.Publisher
		cacheHealth rest.HealthChecker
	)

	if conn := connectRedis(config); conn != nil {
		defer conn.Close()
		redisCache := cache.NewRedisCacheFromClient(conn.Client(), config.CacheTTL)
		boxCache = redisCache
		cacheHealth = redisCache
		boxPub = publisher.NewRedisStreamPublisher(redisCache.Client())
		log.Println("✓ Box score cache and stream publisher enabled")
	} else {
		log.Println("⚠️  Running without Redis: box scores are rebuilt on every request")
	}

	boxScores := service.NewBoxScoreService(ingester, boxCache, boxPub)

	// Initialize warm job service
	warmService := backfill.NewService(boxScores, nil)
	warmService.Start()

	log.Println("✓ Warm job service started")

	// Initialize REST API server
	restServer := rest.NewServer(rest.Config{
		Port:        config.RESTPort,
		CORSOrigins: config.CORSOrigins,
	}, boxScores, warmService, cacheHealth)
	go func() {
		log.Printf("Starting REST API server on port %s", config.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ REST API server listening on :%s", config.RESTPort)
	log.Printf("✓ Courtside v%s started successfully", serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", config.RESTPort)
	log.Printf("  Upstream: %s", config.NCAAMAPIBase)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down Courtside gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}
	if err := warmService.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warm service shutdown error: %v", err)
	}

	log.Println("Courtside stopped")
}

// connectRedis dials Redis with retries. It returns nil when Redis is
// disabled or unreachable; the service runs uncached in that case.
func connectRedis(config Config) *cache.RedisCache {
	if !config.CacheEnabled {
		return nil
	}

	log.Println("Connecting to Redis...")
	for i := 0; i < config.RedisMaxRetries; i++ {
		redisCache, err := cache.NewRedisCache(config.RedisURL)
		if err == nil {
			log.Println("✓ Connected to Redis")
			return redisCache
		}

		if i < config.RedisMaxRetries-1 {
			log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, config.RedisMaxRetries, err, config.RedisRetryDelay)
			time.Sleep(config.RedisRetryDelay)
		} else {
			log.Printf("⚠️  Failed to connect to Redis after %d attempts: %v", config.RedisMaxRetries, err)
		}
	}
	return nil
}

type Config struct {
	CacheEnabled    bool
	RedisURL        string
	RedisMaxRetries int
	RedisRetryDelay time.Duration
	CacheTTL        time.Duration
	RESTPort        string
	CORSOrigins     []string
	NCAAMAPIBase    string
	APIRatePerSec   float64
	APIRateBurst    int
}

func loadConfig() Config {
	return Config{
		CacheEnabled:    getEnv("CACHE_ENABLED", "true") == "true",
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		RedisMaxRetries: getEnvInt("REDIS_MAX_RETRIES", 30),
		RedisRetryDelay: getEnvDuration("REDIS_RETRY_DELAY", 2*time.Second),
		CacheTTL:        getEnvDuration("CACHE_TTL", cache.DefaultTTL),
		RESTPort:        getEnv("REST_PORT", "8080"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		NCAAMAPIBase:    getEnv("NCAAM_API_BASE", ncaam.BaseURL),
		APIRatePerSec:   getEnvFloat("NCAAM_RATE_PER_SEC", 5),
		APIRateBurst:    getEnvInt("NCAAM_RATE_BURST", 5),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil && f > 0 {
		return f
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
