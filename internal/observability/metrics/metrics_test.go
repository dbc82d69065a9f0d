package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("workspace", "acme"),
		attribute.String("quotation_id", "123"),
		attribute.String("status", "sent"),
	)
	require.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("status"), attrs[0].Key)
}

func TestDomainCountersReachPrometheus(t *testing.T) {
	reg := NewRegistry()
	m, err := New(Config{}, noop.NewMeterProvider(), reg)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuotationSaved(ctx, "created")
	m.RecordQuotationSaved(ctx, "created")
	m.RecordStatusChange(ctx, "sent")
	m.RecordDocumentRendered(ctx, "print")
	m.RecordSnapshot(ctx, "import", errors.New("bad json"))
	m.RecordLogin(ctx, "throttled")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.promQuotationsSaved.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.promStatusChanges.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.promDocumentsRendered.WithLabelValues("print")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.promSnapshotOps.WithLabelValues("import", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.promLoginAttempts.WithLabelValues("throttled")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordQuotationSaved(context.Background(), "updated")
		m.RecordEmailComposed(context.Background(), nil)
	})
}

func TestMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry()

	r := gin.New()
	r.Use(reg.Middleware())
	r.GET("/api/quotations/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.GET("/metrics", reg.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quotations/42", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.requestsTotal.WithLabelValues("/api/quotations/:id", "GET", "418")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `quotemaster_http_requests_total{method="GET",route="/api/quotations/:id",status_code="418"} 1`)
}
