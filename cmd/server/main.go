package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/fr0stylo/stockwatch/internal/adapters/memory"
	"github.com/fr0stylo/stockwatch/internal/adapters/sqlite"
	"github.com/fr0stylo/stockwatch/internal/alerting"
	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
	appservices "github.com/fr0stylo/stockwatch/internal/app/services"
	"github.com/fr0stylo/stockwatch/internal/config"
	"github.com/fr0stylo/stockwatch/internal/db"
	"github.com/fr0stylo/stockwatch/internal/observability"
	"github.com/fr0stylo/stockwatch/internal/scenario"
	"github.com/fr0stylo/stockwatch/internal/server"
	"github.com/fr0stylo/stockwatch/internal/server/routes"
)

func Run() error {
	baseHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	log := slog.New(observability.WrapSlogHandler(baseHandler))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(cfg.Suppliers) == 0 {
		slog.Warn("No supplier tokens configured, webhooks will only accept previously stored accounts")
	}

	shutdownTelemetry, err := observability.SetupOpenTelemetry(context.Background(), log, observability.OpenTelemetryConfig{
		Enabled:           cfg.Observability.Enabled,
		OTLPEndpoint:      cfg.Observability.OTLPEndpoint,
		OTLPTraceHeaders:  cfg.Observability.OTLPTraceHeaders,
		OTLPMetricHeaders: cfg.Observability.OTLPMetricHeaders,
		ServiceName:       cfg.Observability.ServiceName,
		ServiceVer:        cfg.Observability.ServiceVer,
		SamplingRatio:     cfg.Observability.SamplingRatio,
		MetricsConsole:    cfg.Observability.MetricsConsole,
		MetricsPrometheus: cfg.Observability.MetricsPrometheus,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			slog.Error("Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seeded, err := sqlite.SeedSupplierAccounts(ctx, database, supplierAccounts(cfg.Suppliers))
	if err != nil {
		return fmt.Errorf("failed to seed supplier accounts: %w", err)
	}
	slog.Info("Supplier accounts ready", "seeded", seeded)

	if cfg.Database.LogTiming {
		go logDBLatencyStats(log, database)
	}

	stores := sqlite.NewStores(database)
	snapshots := snapshotStore(cfg.Store.Backend, stores)
	processor := appservices.NewProcessor(snapshots, appservices.WithLogger(log))

	hooks := appservices.Hooks{}
	if cfg.AlertForwardingEnabled() {
		forwarder, err := alerting.New(alerting.Config{
			SinkURL:   cfg.Alerting.SinkURL,
			QueueSize: cfg.Alerting.QueueSize,
			Logger:    log,
		})
		if err != nil {
			return fmt.Errorf("failed to start alert forwarder: %w", err)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := forwarder.Close(closeCtx); err != nil {
				slog.Error("Failed to drain alert forwarder", "error", err)
			}
			stats := forwarder.Stats()
			slog.Info("Alert forwarder stopped", "sent", stats.Sent, "failed", stats.Failed, "dropped", stats.Dropped)
		}()
		hooks.OnAlert = forwarder.OnAlert
		slog.Info("Alert forwarding enabled", "sink", cfg.Alerting.SinkURL)
	}

	ingest := appservices.NewIngestServiceWithConfig(stores, processor, appservices.IngestConfig{
		Batch: appservices.IngestBatchConfig{
			Enabled:       cfg.Ingestion.BatchEnabled,
			Size:          cfg.Ingestion.BatchSize,
			FlushInterval: cfg.IngestionBatchFlushInterval(),
		},
		Hooks: hooks,
	})
	read := appservices.NewInventoryReadService(snapshots, stores.Feed(), sampleEvents)

	srv := server.New(log)
	srv.RegisterRouter(routes.NewSystemRoutes(cfg.Observability.MetricsPrometheus))
	srv.RegisterRouter(routes.NewWebhookRoutes(ingest))
	srv.RegisterRouter(routes.NewAPIRoutes(read))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting server", "port", cfg.Server.Port, "store", cfg.Store.Backend)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := Run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func snapshotStore(backend string, stores *sqlite.Stores) ports.SnapshotStore {
	if backend == config.StoreMemory {
		return memory.NewSnapshotStore()
	}
	return stores.Snapshots()
}

func supplierAccounts(creds []config.SupplierCredentials) []ports.SupplierAccount {
	accounts := make([]ports.SupplierAccount, 0, len(creds))
	for _, c := range creds {
		accounts = append(accounts, ports.SupplierAccount{
			Source:        domain.Source(c.Source),
			AuthToken:     c.Token,
			WebhookSecret: c.Secret,
			Enabled:       true,
		})
	}
	return accounts
}

func sampleEvents(n int) []domain.WebhookEvent {
	rng := scenario.NewRand(uint64(time.Now().UnixNano()))
	return scenario.GenerateWebhookEvents(rng, scenario.Config{Count: n})
}

func logDBLatencyStats(log *slog.Logger, database *db.Database) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		stats := database.QueryLatencyStats()
		for _, entry := range stats[:min(5, len(stats))] {
			log.Info("db_query_latency",
				"query", entry.Name,
				"count", entry.Count,
				"p50_ms", entry.P50.Milliseconds(),
				"p95_ms", entry.P95.Milliseconds(),
				"max_ms", entry.Max.Milliseconds(),
			)
		}
	}
}
