package observability

import (
	"strings"

	"github.com/dovepeak/quotemaster/internal/config"
	"github.com/dovepeak/quotemaster/internal/observability/logger"
	"github.com/dovepeak/quotemaster/internal/observability/metrics"
	"github.com/dovepeak/quotemaster/internal/observability/tracing"
	"github.com/spf13/viper"
)

// Config is the telemetry setup of one quotemaster process.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	Export        bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

// envBindings maps settings to the environment variables that override them,
// highest precedence first.
var envBindings = map[string][]string{
	"environment":   {"DEPLOYMENT_ENV"},
	"version":       {"SERVICE_VERSION"},
	"log.level":     {"LOG_LEVEL"},
	"log.format":    {"LOG_FORMAT"},
	"otel.enabled":  {"OTEL_ENABLED"},
	"otel.endpoint": {"OTEL_EXPORTER_OTLP_ENDPOINT"},
	"otel.protocol": {"OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "OTEL_EXPORTER_OTLP_PROTOCOL"},
	"otel.sampling": {"OTEL_SAMPLING_RATIO"},
}

// LoadConfig starts from the application config and applies LOG_* and OTEL_*
// overrides. Spans are always recorded in-process; OTLP export needs
// OTEL_ENABLED.
func LoadConfig(cfg config.Config) Config {
	v := viper.New()
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
	v.SetDefault("environment", cfg.Environment)
	v.SetDefault("version", cfg.AppVersion)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", defaultLogFormat(cfg.Environment))
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", cfg.OTLPEndpoint)
	v.SetDefault("otel.protocol", "grpc")
	v.SetDefault("otel.sampling", 0.1)

	name := strings.TrimSpace(cfg.AppName)
	if name == "" {
		name = "quotemaster"
	}

	return Config{
		ServiceName:   name,
		Environment:   strings.TrimSpace(v.GetString("environment")),
		Version:       strings.TrimSpace(v.GetString("version")),
		LogLevel:      lower(v.GetString("log.level")),
		LogFormat:     lower(v.GetString("log.format")),
		Export:        v.GetBool("otel.enabled"),
		Endpoint:      strings.TrimSpace(v.GetString("otel.endpoint")),
		Protocol:      lower(v.GetString("otel.protocol")),
		SamplingRatio: clampRatio(v.GetFloat64("otel.sampling")),
	}
}

// Debug turns on caller stacks and verbose gorm logging.
func (c Config) Debug() bool {
	return c.LogLevel == "debug" || isDevEnv(c.Environment)
}

func (c Config) Logger() logger.Config {
	return logger.Config{
		ServiceName:         c.ServiceName,
		Environment:         c.Environment,
		Version:             c.Version,
		Level:               c.LogLevel,
		Format:              c.LogFormat,
		Debug:               c.Debug(),
		IncludeCaller:       true,
		IncludeStackOnError: c.Debug(),
	}
}

func (c Config) Tracing() tracing.Config {
	return tracing.Config{
		Enabled:          c.Export,
		ServiceName:      c.ServiceName,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		ExporterEndpoint: c.Endpoint,
		ExporterProtocol: c.Protocol,
		SamplingRatio:    c.SamplingRatio,
	}
}

func (c Config) Metrics() metrics.Config {
	return metrics.Config{
		Enabled:          c.Export,
		ExporterEndpoint: c.Endpoint,
		ExporterProtocol: c.Protocol,
		ServiceName:      c.ServiceName,
		Environment:      c.Environment,
	}
}

func defaultLogFormat(env string) string {
	if isDevEnv(env) {
		return "console"
	}
	return "json"
}

func clampRatio(v float64) float64 {
	return min(max(v, 0), 1)
}

func isDevEnv(env string) bool {
	switch lower(env) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
