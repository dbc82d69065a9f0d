package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics records quotation activity to OTLP and to the local Prometheus registry.
type Metrics struct {
	quotationsSaved    metric.Int64Counter
	statusChanges      metric.Int64Counter
	documentsRendered  metric.Int64Counter
	emailsComposed     metric.Int64Counter
	snapshotOperations metric.Int64Counter
	loginAttempts      metric.Int64Counter

	promQuotationsSaved   *prometheus.CounterVec
	promStatusChanges     *prometheus.CounterVec
	promDocumentsRendered *prometheus.CounterVec
	promEmailsComposed    *prometheus.CounterVec
	promSnapshotOps       *prometheus.CounterVec
	promLoginAttempts     *prometheus.CounterVec
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(15*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New builds the quotation instruments.
func New(cfg Config, provider metric.MeterProvider, reg *Registry) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "quotemaster"
	}
	meter := provider.Meter(name)

	m := &Metrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.quotationsSaved, "quotemaster_quotations_saved_total", "Quotations created or updated."},
		{&m.statusChanges, "quotemaster_status_changes_total", "Quotation status transitions."},
		{&m.documentsRendered, "quotemaster_documents_rendered_total", "Quotation documents rendered."},
		{&m.emailsComposed, "quotemaster_emails_composed_total", "Email hand-offs composed."},
		{&m.snapshotOperations, "quotemaster_snapshot_operations_total", "Snapshot exports and imports."},
		{&m.loginAttempts, "quotemaster_login_attempts_total", "Login attempts by result."},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	m.promQuotationsSaved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotemaster_quotations_saved_total",
		Help: "Quotations created or updated.",
	}, []string{"operation"})
	m.promStatusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotemaster_status_changes_total",
		Help: "Quotation status transitions.",
	}, []string{"status"})
	m.promDocumentsRendered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotemaster_documents_rendered_total",
		Help: "Quotation documents rendered.",
	}, []string{"kind"})
	m.promEmailsComposed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotemaster_emails_composed_total",
		Help: "Email hand-offs composed.",
	}, []string{"result"})
	m.promSnapshotOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotemaster_snapshot_operations_total",
		Help: "Snapshot exports and imports.",
	}, []string{"operation", "result"})
	m.promLoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotemaster_login_attempts_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	if err := reg.Register(
		m.promQuotationsSaved,
		m.promStatusChanges,
		m.promDocumentsRendered,
		m.promEmailsComposed,
		m.promSnapshotOps,
		m.promLoginAttempts,
	); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordQuotationSaved counts a create or update ("created", "updated").
func (m *Metrics) RecordQuotationSaved(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	operation = strings.TrimSpace(operation)
	m.quotationsSaved.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("operation", operation))...))
	m.promQuotationsSaved.WithLabelValues(operation).Inc()
}

// RecordStatusChange counts a transition into status.
func (m *Metrics) RecordStatusChange(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.statusChanges.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("status", status))...))
	m.promStatusChanges.WithLabelValues(status).Inc()
}

// RecordDocumentRendered counts a rendered document; kind is "html" or "print".
func (m *Metrics) RecordDocumentRendered(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.documentsRendered.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("kind", kind))...))
	m.promDocumentsRendered.WithLabelValues(kind).Inc()
}

// RecordEmailComposed counts an email hand-off.
func (m *Metrics) RecordEmailComposed(ctx context.Context, err error) {
	if m == nil {
		return
	}
	result := resultLabel(err)
	m.emailsComposed.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("result", result))...))
	m.promEmailsComposed.WithLabelValues(result).Inc()
}

// RecordSnapshot counts an export or import.
func (m *Metrics) RecordSnapshot(ctx context.Context, operation string, err error) {
	if m == nil {
		return
	}
	result := resultLabel(err)
	attrs := FilterAttributes(
		attribute.String("operation", operation),
		attribute.String("result", result),
	)
	m.snapshotOperations.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.promSnapshotOps.WithLabelValues(operation, result).Inc()
}

// RecordLogin counts a login attempt; result is "success", "failure" or "throttled".
func (m *Metrics) RecordLogin(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.loginAttempts.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("result", result))...))
	m.promLoginAttempts.WithLabelValues(result).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

// Workspace and record ids are never metric labels.
var allowedLabelKeys = map[attribute.Key]struct{}{
	"operation":   {},
	"status":      {},
	"kind":        {},
	"result":      {},
	"route":       {},
	"method":      {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
