package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fr0stylo/stockwatch/internal/adapters/sqlite"
	"github.com/fr0stylo/stockwatch/internal/app/domain"
	appservices "github.com/fr0stylo/stockwatch/internal/app/services"
	"github.com/fr0stylo/stockwatch/internal/config"
	"github.com/fr0stylo/stockwatch/internal/db"
)

type replayStats struct {
	events        int
	failed        int
	notifications int
	alerts        int
}

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.LoadForTool()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbPath := flag.String("db", cfg.Database.Path, "database path without .sqlite suffix")
	dryRun := flag.Bool("dry-run", false, "count events without touching the snapshot table")
	verbose := flag.Bool("v", false, "log per-event processing failures")
	flag.Parse()

	database, err := db.New(strings.TrimSpace(*dbPath))
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		_ = database.Close()
	}()

	total, err := database.CountWebhookEvents(ctx)
	if err != nil {
		log.Fatalf("count events: %v", err)
	}
	if *dryRun {
		log.Printf("dry run: %d events would be replayed", total)
		return
	}

	started := time.Now()
	stats, err := replay(ctx, database, *verbose)
	if err != nil {
		log.Fatalf("replay: %v", err)
	}

	log.Printf("replayed %d/%d events in %s: failed=%d notifications=%d alerts=%d",
		stats.events, total, time.Since(started).Round(time.Millisecond), stats.failed, stats.notifications, stats.alerts)
}

// replay rebuilds the snapshot table from the event log in received order.
// Hooks are not run and nothing is appended to the notification or alert feeds.
func replay(ctx context.Context, database *db.Database, verbose bool) (replayStats, error) {
	stores := sqlite.NewStores(database)
	snapshots := stores.Snapshots()
	if err := snapshots.Clear(ctx); err != nil {
		return replayStats{}, fmt.Errorf("clear snapshots: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.Default()
	}
	processor := appservices.NewProcessor(snapshots, appservices.WithLogger(logger))
	events := stores.Feed()

	var stats replayStats
	err := events.ForEachEvent(ctx, func(event domain.WebhookEvent) error {
		outcome := processor.Process(ctx, &event, appservices.Hooks{})
		stats.events++
		stats.notifications += len(outcome.Notifications)
		stats.alerts += len(outcome.Alerts)
		if !outcome.Success {
			stats.failed++
		}
		return nil
	})
	return stats, err
}
