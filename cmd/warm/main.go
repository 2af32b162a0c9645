package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/ingest/ncaam"
	"github.com/fortuna/courtside/internal/publisher"
	"github.com/fortuna/courtside/internal/service"
	flag "github.com/spf13/pflag"
)

const (
	appName    = "courtside-warm"
	appVersion = "1.0.0"
)

func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		redisURL = flag.String("redis", getEnv("REDIS_URL", "redis://localhost:6379"), "Redis URL for the box score cache")
		apiBase  = flag.String("api-base", getEnv("NCAAM_API_BASE", ncaam.BaseURL), "Play-by-play API base URL")
		games    = flag.StringSliceP("game", "g", nil, "Game id(s) to warm (repeatable or comma separated)")
		listFile = flag.String("from-file", "", "File with one game id per line")
		publish  = flag.Bool("publish", true, "Announce built box scores on the Redis stream")
		dryRun   = flag.Bool("dry-run", false, "List the games without building")
	)

	flag.Parse()

	ids := append([]string(nil), *games...)
	if *listFile != "" {
		fromFile, err := readGameIDs(*listFile)
		if err != nil {
			log.Fatalf("read game list: %v", err)
		}
		ids = append(ids, fromFile...)
	}
	if len(ids) == 0 {
		log.Fatalf("Specify --game or --from-file")
	}

	redisCache, err := cache.NewRedisCache(*redisURL)
	if err != nil {
		log.Fatalf("connect redis: %v", err)
	}
	defer redisCache.Close()

	var pub service.Publisher
	if *publish {
		pub = publisher.NewRedisStreamPublisher(redisCache.Client())
	}

	svc := service.NewBoxScoreService(ncaam.NewIngesterWithBaseURL(*apiBase), redisCache, pub)
	runner := backfill.NewRunner(svc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spec := backfill.JobSpec{GameIDs: ids, DryRun: *dryRun}
	if err := runner.Run(ctx, spec, &consoleReporter{dryRun: *dryRun}); err != nil {
		log.Fatalf("warm failed: %v", err)
	}

	log.Println("✓ Warm completed successfully")
}

func readGameIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return ids, nil
}

type consoleReporter struct {
	dryRun bool
}

func (c *consoleReporter) OnJobStart(spec backfill.JobSpec) {
	log.Printf("Starting warm of %d games (dry_run=%v)", len(spec.GameIDs), c.dryRun)
}

func (c *consoleReporter) OnGameProcessed(gameID string, eventsProcessed int) {
	log.Printf("Warmed game %s (%d events)", gameID, eventsProcessed)
}

func (c *consoleReporter) OnGameFailed(gameID string, err error) {
	log.Printf("⚠️  Game %s failed: %v", gameID, err)
}

func (c *consoleReporter) OnProgress(message string, current int, total int) {
	log.Printf("Progress: %s (%d/%d)", message, current, total)
}

func (c *consoleReporter) OnJobComplete() {
	log.Println("Job complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
