package observability

import (
	"github.com/dovepeak/quotemaster/internal/observability/logger"
	"github.com/dovepeak/quotemaster/internal/observability/metrics"
	"github.com/dovepeak/quotemaster/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		Config.Logger,
		Config.Tracing,
		Config.Metrics,
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.NewRegistry,
		metrics.New,
	),
	fx.Invoke(announce),
)

// announce forces the tracer provider to be built and reports where
// telemetry goes.
func announce(cfg Config, _ *sdktrace.TracerProvider, log *zap.Logger) {
	if !cfg.Export {
		log.Info("telemetry export disabled", zap.String("service", cfg.ServiceName))
		return
	}
	log.Info("telemetry export enabled",
		zap.String("service", cfg.ServiceName),
		zap.String("endpoint", cfg.Endpoint),
		zap.String("protocol", cfg.Protocol),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
	)
}
