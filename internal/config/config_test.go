package config

import "testing"

func TestLoadDefaultsForLocalDevelopment(t *testing.T) {
	t.Setenv("STOCKWATCH_ENV", "dev")
	t.Setenv("STOCKWATCH_SANMAR_TOKEN", "tok-sanmar")
	t.Setenv("STOCKWATCH_SANMAR_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Store.Backend != StoreSQLite {
		t.Fatalf("unexpected store backend: got=%q want=%q", cfg.Store.Backend, StoreSQLite)
	}
	if cfg.Database.Path != "data/stockwatch" {
		t.Fatalf("unexpected db path: %q", cfg.Database.Path)
	}
	if len(cfg.Suppliers) != 1 || cfg.Suppliers[0].Secret != "stockwatch-local-dev" {
		t.Fatalf("expected local fallback secret for sanmar, got %#v", cfg.Suppliers)
	}
	if cfg.AlertForwardingEnabled() {
		t.Fatal("alert forwarding should be off without a sink url")
	}
}

func TestLoadRequiresSupplierSecretOutsideLocal(t *testing.T) {
	t.Setenv("STOCKWATCH_ENV", "production")
	t.Setenv("STOCKWATCH_SSACTIVEWEAR_TOKEN", "tok-ss")
	t.Setenv("STOCKWATCH_SSACTIVEWEAR_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing supplier secret in production")
	}
}

func TestLoadForToolAllowsMissingSupplierSecretOutsideLocal(t *testing.T) {
	t.Setenv("STOCKWATCH_ENV", "production")
	t.Setenv("STOCKWATCH_SSACTIVEWEAR_TOKEN", "tok-ss")
	t.Setenv("STOCKWATCH_SSACTIVEWEAR_SECRET", "")

	if _, err := LoadForTool(); err != nil {
		t.Fatalf("expected no error for tool config load, got %v", err)
	}
}

func TestLoadRejectsUnknownStoreAndClampsBatch(t *testing.T) {
	t.Setenv("STOCKWATCH_ENV", "dev")
	t.Setenv("STOCKWATCH_STORE", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store backend")
	}

	t.Setenv("STOCKWATCH_STORE", "Memory")
	t.Setenv("STOCKWATCH_INGEST_BATCH_SIZE", "50000")
	t.Setenv("STOCKWATCH_INGEST_BATCH_FLUSH_MS", "-1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Store.Backend != StoreMemory {
		t.Fatalf("unexpected store backend: got=%q want=%q", cfg.Store.Backend, StoreMemory)
	}
	if cfg.Ingestion.BatchSize != 2000 {
		t.Fatalf("unexpected batch size: got=%d want=2000", cfg.Ingestion.BatchSize)
	}
	if cfg.Ingestion.BatchFlushMS != 50 {
		t.Fatalf("unexpected flush interval: got=%d want=50", cfg.Ingestion.BatchFlushMS)
	}
}

func TestLoadParsesOTLPHeadersAndMetricsExporters(t *testing.T) {
	t.Setenv("STOCKWATCH_ENV", "dev")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "authorization=Bearer common,x-org=abc")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_HEADERS", "x-trace=trace-only")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_HEADERS", "x-metric=metric-only")
	t.Setenv("STOCKWATCH_METRICS_PROMETHEUS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.Observability.Enabled {
		t.Fatal("expected observability enabled when prometheus metrics are on")
	}
	if !cfg.Observability.MetricsPrometheus {
		t.Fatal("expected prometheus metrics enabled")
	}
	if cfg.Observability.OTLPTraceHeaders["authorization"] != "Bearer common" {
		t.Fatalf("expected common header to be in trace headers, got %#v", cfg.Observability.OTLPTraceHeaders)
	}
	if cfg.Observability.OTLPTraceHeaders["x-trace"] != "trace-only" {
		t.Fatalf("expected trace-specific header, got %#v", cfg.Observability.OTLPTraceHeaders)
	}
	if cfg.Observability.OTLPMetricHeaders["x-metric"] != "metric-only" {
		t.Fatalf("expected metric-specific header, got %#v", cfg.Observability.OTLPMetricHeaders)
	}
	if _, ok := cfg.Observability.OTLPMetricHeaders["x-trace"]; ok {
		t.Fatalf("trace header leaked into metric headers: %#v", cfg.Observability.OTLPMetricHeaders)
	}
}
