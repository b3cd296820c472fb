package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment   string
	Server        ServerConfig
	Database      DatabaseConfig
	Store         StoreConfig
	Observability ObservabilityConfig
	Ingestion     IngestionConfig
	Alerting      AlertingConfig
	Suppliers     []SupplierCredentials
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Path      string
	LogTiming bool
}

// StoreConfig selects the snapshot store backend.
type StoreConfig struct {
	Backend string
}

type ObservabilityConfig struct {
	Enabled           bool
	OTLPEndpoint      string
	OTLPTraceHeaders  map[string]string
	OTLPMetricHeaders map[string]string
	ServiceName       string
	ServiceVer        string
	SamplingRatio     float64
	MetricsConsole    bool
	MetricsPrometheus bool
}

type IngestionConfig struct {
	BatchEnabled bool
	BatchSize    int
	BatchFlushMS int
}

type AlertingConfig struct {
	SinkURL   string
	QueueSize int
}

// SupplierCredentials is the bearer token and signing secret for one supplier feed.
type SupplierCredentials struct {
	Source string
	Token  string
	Secret string
}

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"

	localDevSecret = "stockwatch-local-dev"
)

var supplierSources = []string{"ssactivewear", "sanmar"}

func Load() (Config, error) {
	return load(true)
}

// LoadForTool loads config for CLI tools that do not accept supplier deliveries.
func LoadForTool() (Config, error) {
	return load(false)
}

func load(requireSupplierSecrets bool) (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("stockwatch_env", "")
	v.SetDefault("app_env", "")
	v.SetDefault("go_env", "")
	v.SetDefault("stockwatch_port", 8080)
	v.SetDefault("stockwatch_db_path", "data/stockwatch")
	v.SetDefault("stockwatch_db_timing", false)
	v.SetDefault("stockwatch_store", StoreSQLite)
	v.SetDefault("stockwatch_otel_enabled", false)
	v.SetDefault("otel_exporter_otlp_endpoint", "")
	v.SetDefault("otel_exporter_otlp_headers", "")
	v.SetDefault("otel_exporter_otlp_traces_headers", "")
	v.SetDefault("otel_exporter_otlp_metrics_headers", "")
	v.SetDefault("otel_service_name", "stockwatch")
	v.SetDefault("stockwatch_version", "dev")
	v.SetDefault("otel_service_version", "")
	v.SetDefault("stockwatch_otel_sampling_ratio", 1.0)
	v.SetDefault("stockwatch_otel_metrics_console", false)
	v.SetDefault("stockwatch_metrics_prometheus", false)
	v.SetDefault("stockwatch_ingest_batch_enabled", true)
	v.SetDefault("stockwatch_ingest_batch_size", 100)
	v.SetDefault("stockwatch_ingest_batch_flush_ms", 50)
	v.SetDefault("stockwatch_alert_sink_url", "")
	v.SetDefault("stockwatch_alert_queue_size", 256)
	for _, source := range supplierSources {
		v.SetDefault(supplierKey(source, "token"), "")
		v.SetDefault(supplierKey(source, "secret"), "")
	}

	env := resolveEnvironment(v)
	port := v.GetInt("stockwatch_port")
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid STOCKWATCH_PORT: %d", port)
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("stockwatch_store")))
	switch backend {
	case "":
		backend = StoreSQLite
	case StoreSQLite, StoreMemory:
	default:
		return Config{}, fmt.Errorf("invalid STOCKWATCH_STORE: %q", backend)
	}

	samplingRatio := clampFloat(v.GetFloat64("stockwatch_otel_sampling_ratio"), 0, 1)
	batchSize := clampInt(v.GetInt("stockwatch_ingest_batch_size"), 100, 2000)
	batchFlush := clampInt(v.GetInt("stockwatch_ingest_batch_flush_ms"), 50, 5000)
	alertQueue := clampInt(v.GetInt("stockwatch_alert_queue_size"), 256, 10000)

	serviceName := strings.TrimSpace(v.GetString("otel_service_name"))
	if serviceName == "" {
		serviceName = "stockwatch"
	}

	serviceVersion := strings.TrimSpace(v.GetString("stockwatch_version"))
	if serviceVersion == "" {
		serviceVersion = strings.TrimSpace(v.GetString("otel_service_version"))
	}
	if serviceVersion == "" {
		serviceVersion = "dev"
	}

	otlpEndpoint := strings.TrimSpace(v.GetString("otel_exporter_otlp_endpoint"))
	otlpCommonHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_headers"))
	otlpTraceHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_traces_headers"))
	otlpMetricHeaders := parseOTLPHeaders(v.GetString("otel_exporter_otlp_metrics_headers"))
	metricsConsole := v.GetBool("stockwatch_otel_metrics_console")
	metricsPrometheus := v.GetBool("stockwatch_metrics_prometheus")
	otelEnabled := v.GetBool("stockwatch_otel_enabled") || otlpEndpoint != "" || metricsConsole || metricsPrometheus

	cfg := Config{
		Environment: env,
		Server:      ServerConfig{Port: port},
		Database: DatabaseConfig{
			Path:      strings.TrimSpace(v.GetString("stockwatch_db_path")),
			LogTiming: v.GetBool("stockwatch_db_timing"),
		},
		Store: StoreConfig{Backend: backend},
		Observability: ObservabilityConfig{
			Enabled:           otelEnabled,
			OTLPEndpoint:      otlpEndpoint,
			OTLPTraceHeaders:  mergeHeaderMaps(otlpCommonHeaders, otlpTraceHeaders),
			OTLPMetricHeaders: mergeHeaderMaps(otlpCommonHeaders, otlpMetricHeaders),
			ServiceName:       serviceName,
			ServiceVer:        serviceVersion,
			SamplingRatio:     samplingRatio,
			MetricsConsole:    metricsConsole,
			MetricsPrometheus: metricsPrometheus,
		},
		Ingestion: IngestionConfig{
			BatchEnabled: v.GetBool("stockwatch_ingest_batch_enabled"),
			BatchSize:    batchSize,
			BatchFlushMS: batchFlush,
		},
		Alerting: AlertingConfig{
			SinkURL:   strings.TrimSpace(v.GetString("stockwatch_alert_sink_url")),
			QueueSize: alertQueue,
		},
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/stockwatch"
	}

	for _, source := range supplierSources {
		creds := SupplierCredentials{
			Source: source,
			Token:  strings.TrimSpace(v.GetString(supplierKey(source, "token"))),
			Secret: strings.TrimSpace(v.GetString(supplierKey(source, "secret"))),
		}
		if creds.Token == "" {
			continue
		}
		if creds.Secret == "" {
			if requireSupplierSecrets && !cfg.IsLocalDevelopment() {
				return Config{}, fmt.Errorf("%s is required outside local/dev environments", strings.ToUpper(supplierKey(source, "secret")))
			}
			creds.Secret = localDevSecret
		}
		cfg.Suppliers = append(cfg.Suppliers, creds)
	}

	return cfg, nil
}

func supplierKey(source, field string) string {
	return "stockwatch_" + source + "_" + field
}

func clampInt(value, fallback, limit int) int {
	if value <= 0 {
		return fallback
	}
	if value > limit {
		return limit
	}
	return value
}

func clampFloat(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func parseOTLPHeaders(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mergeHeaderMaps(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

func (c Config) IsLocalDevelopment() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "", "local", "dev", "development", "test":
		return true
	default:
		return false
	}
}

func (c Config) IngestionBatchFlushInterval() time.Duration {
	return time.Duration(c.Ingestion.BatchFlushMS) * time.Millisecond
}

// AlertForwardingEnabled reports whether alerts are pushed to an external sink.
func (c Config) AlertForwardingEnabled() bool {
	return c.Alerting.SinkURL != ""
}

func resolveEnvironment(v *viper.Viper) string {
	for _, key := range []string{"stockwatch_env", "app_env", "go_env"} {
		value := strings.TrimSpace(v.GetString(key))
		if value != "" {
			return strings.ToLower(value)
		}
	}
	return ""
}
