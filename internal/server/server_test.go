package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authrepo "github.com/dovepeak/quotemaster/internal/auth/repository"
	authservice "github.com/dovepeak/quotemaster/internal/auth/service"
	profilerepo "github.com/dovepeak/quotemaster/internal/businessprofile/repository"
	profileservice "github.com/dovepeak/quotemaster/internal/businessprofile/service"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/config"
	obsmetrics "github.com/dovepeak/quotemaster/internal/observability/metrics"
	"github.com/dovepeak/quotemaster/internal/providers/email"
	printprovider "github.com/dovepeak/quotemaster/internal/providers/print"
	quotationdomain "github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/dovepeak/quotemaster/internal/quotation/numbering"
	"github.com/dovepeak/quotemaster/internal/quotation/render"
	quotationrepo "github.com/dovepeak/quotemaster/internal/quotation/repository"
	quotationservice "github.com/dovepeak/quotemaster/internal/quotation/service"
	templaterepo "github.com/dovepeak/quotemaster/internal/quotetemplate/repository"
	templateservice "github.com/dovepeak/quotemaster/internal/quotetemplate/service"
	"github.com/dovepeak/quotemaster/internal/ratelimit"
	"github.com/dovepeak/quotemaster/internal/snapshot"
	"github.com/dovepeak/quotemaster/internal/storage"
	"github.com/dovepeak/quotemaster/internal/storage/memory"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

type testServer struct {
	engine *gin.Engine
	clock  *clock.FakeClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	clk := clock.NewFakeClock(now)
	cfg := config.Config{
		Environment:             "test",
		StorageBackend:          config.StorageMemory,
		SessionTTL:              24 * time.Hour,
		QuotationValidityDays:   30,
		QuotationNumberTemplate: numbering.DefaultTemplate,
		CORSAllowedOrigins:      []string{"http://localhost:3000"},
		LoginRatePerMinute:      600,
		LoginRateBurst:          20,
	}

	g := storage.NewGateway(storage.GatewayParams{Store: memory.New(), Clock: clk, Log: log})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	quotations := quotationrepo.Provide(g)
	templateRepo := templaterepo.Provide(g)
	profileRepo := profilerepo.Provide(g)

	templates := templateservice.NewService(templateservice.Params{Log: log, Clock: clk, Repo: templateRepo})
	profiles := profileservice.NewService(profileservice.Params{Log: log, Clock: clk, Repo: profileRepo})
	quotationSvc := quotationservice.NewService(quotationservice.Params{
		Log:       log,
		Clock:     clk,
		Lifecycle: quotationservice.NewLifecycle(clk, node, cfg.QuotationNumberTemplate, cfg.QuotationValidityDays),
		Repo:      quotations,
		Templates: templates,
		Profiles:  profiles,
		Renderer:  render.NewRenderer(clk, nil),
		Mailer:    email.NewMailto(),
	})
	authSvc := authservice.New(authservice.Params{
		Log:     log,
		Clock:   clk,
		Config:  cfg,
		Repo:    authrepo.New(g),
		Gateway: g,
		Limiter: ratelimit.NewLoginLimiter(cfg, clk),
	})
	t.Cleanup(authSvc.Close)

	snapshots := snapshot.NewService(snapshot.Params{
		Quotations: quotations,
		Templates:  templateRepo,
		Profiles:   profileRepo,
		Gateway:    g,
		Clock:      clk,
		Log:        log,
	})

	engine := NewEngine(EngineParams{Config: cfg, Log: log, Registry: obsmetrics.NewRegistry()})
	NewServer(ServerParams{
		Gin:        engine,
		Cfg:        cfg,
		Clock:      clk,
		Workspaces: NewWorkspaceCookies(cfg),
		Authsvc:    authSvc,
		Quotations: quotationSvc,
		Templates:  templates,
		Profiles:   profiles,
		Snapshots:  snapshots,
		Printer:    printprovider.NewBrowser(),
	})
	return &testServer{engine: engine, clock: clk}
}

func (ts *testServer) do(t *testing.T, method, path, workspace string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if workspace != "" {
		req.Header.Set(WorkspaceHeader, workspace)
	}
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var out errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out.Error
}

// createQuotation saves a filled-in draft in ws and returns it.
func (ts *testServer) createQuotation(t *testing.T, ws, client string) quotationdomain.Quotation {
	t.Helper()

	w := ts.do(t, http.MethodPost, "/api/quotations/draft", ws, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	draft := decode[quotationdomain.Quotation](t, w)

	draft.ClientName = client
	draft.ClientEmail = strings.ToLower(strings.ReplaceAll(client, " ", ".")) + "@example.com"
	draft.Items[0].Description = "Consulting"
	draft.Items[0].Quantity = 2
	draft.Items[0].UnitPrice = 100

	w = ts.do(t, http.MethodPost, "/api/quotations", ws, draft)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[quotationdomain.Quotation](t, w)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"memory"}`, w.Body.String())

	ts.do(t, http.MethodGet, "/api/currencies", "ws1", nil)
	w = ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quotemaster_http_requests_total")
}

func TestWorkspaceCookieIsIssuedAndReused(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, WorkspaceCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)

	req = httptest.NewRequest(http.MethodGet, "/api/templates", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestInvalidWorkspaceHeader(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/quotations", "not a workspace!", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	payload := decodeError(t, w)
	assert.Equal(t, "validation_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "workspace", payload.Errors[0].Field)
}

func TestSaveQuotationValidationError(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/quotations/draft", "ws1", nil)
	draft := decode[quotationdomain.Quotation](t, w)

	w = ts.do(t, http.MethodPost, "/api/quotations", "ws1", draft)
	require.Equal(t, http.StatusBadRequest, w.Code)

	payload := decodeError(t, w)
	assert.Equal(t, "validation_error", payload.Type)
	assert.Equal(t, "Please fill in client name, email, and select a template and business profile.", payload.Message)
	assert.NotEmpty(t, payload.Errors)

	w = ts.do(t, http.MethodGet, "/api/quotations", "ws1", nil)
	assert.Empty(t, decode[[]quotationdomain.Quotation](t, w))
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/quotations", "ws1", []byte("{not json"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	payload := decodeError(t, w)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "request", payload.Errors[0].Field)
}

func TestQuotationLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	saved := ts.createQuotation(t, "ws1", "Jane Doe")
	assert.Equal(t, "QUO-2406-001", saved.QuotationNumber)
	assert.Equal(t, quotationdomain.StatusDraft, saved.Status)
	assert.Equal(t, 200.0, saved.Subtotal)

	w := ts.do(t, http.MethodGet, "/api/quotations/"+saved.ID, "ws1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, saved.ID, decode[quotationdomain.Quotation](t, w).ID)

	w = ts.do(t, http.MethodGet, "/api/quotations?search=jane", "ws1", nil)
	assert.Len(t, decode[[]quotationdomain.Quotation](t, w), 1)

	w = ts.do(t, http.MethodPost, "/api/quotations/"+saved.ID+"/items", "ws1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	withItem := decode[quotationdomain.Quotation](t, w)
	require.Len(t, withItem.Items, 2)

	w = ts.do(t, http.MethodDelete, "/api/quotations/"+saved.ID+"/items/"+withItem.Items[1].ID, "ws1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[quotationdomain.Quotation](t, w).Items, 1)

	w = ts.do(t, http.MethodPut, "/api/quotations/"+saved.ID+"/status", "ws1", gin.H{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, quotationdomain.StatusAccepted, decode[quotationdomain.Quotation](t, w).Status)

	w = ts.do(t, http.MethodPut, "/api/quotations/"+saved.ID+"/status", "ws1", gin.H{"status": "expired"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/quotations/"+saved.ID+"/duplicate", "ws1", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "QUO-2406-001-COPY", decode[quotationdomain.Quotation](t, w).QuotationNumber)

	w = ts.do(t, http.MethodDelete, "/api/quotations/"+saved.ID, "ws1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/api/quotations/"+saved.ID, "ws1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w).Type)
}

func TestWorkspacesAreIsolated(t *testing.T) {
	ts := newTestServer(t)
	ts.createQuotation(t, "alpha", "Jane Doe")

	w := ts.do(t, http.MethodGet, "/api/quotations", "beta", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]quotationdomain.Quotation](t, w))

	w = ts.do(t, http.MethodGet, "/api/quotations", "alpha", nil)
	assert.Len(t, decode[[]quotationdomain.Quotation](t, w), 1)
}

func TestDocumentAndPrint(t *testing.T) {
	ts := newTestServer(t)
	saved := ts.createQuotation(t, "ws1", "Jane Doe")

	w := ts.do(t, http.MethodGet, "/api/quotations/"+saved.ID+"/document", "ws1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "QUO-2406-001")
	assert.NotContains(t, w.Body.String(), "window.print()")

	w = ts.do(t, http.MethodGet, "/api/quotations/"+saved.ID+"/print", "ws1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "window.print()")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "QUO-2406-001.html")
}

func TestEmailMarksDraftSent(t *testing.T) {
	ts := newTestServer(t)
	saved := ts.createQuotation(t, "ws1", "Jane Doe")

	w := ts.do(t, http.MethodPost, "/api/quotations/"+saved.ID+"/email", "ws1", gin.H{"message": "Looking forward to working with you."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	handoff := decode[quotationdomain.EmailHandoff](t, w)
	assert.Equal(t, "jane.doe@example.com", handoff.Recipient)
	assert.True(t, strings.HasPrefix(handoff.MailtoURI, "mailto:jane.doe@example.com?"), handoff.MailtoURI)
	assert.Contains(t, handoff.Body, "Looking forward to working with you.")

	w = ts.do(t, http.MethodGet, "/api/quotations/"+saved.ID, "ws1", nil)
	assert.Equal(t, quotationdomain.StatusSent, decode[quotationdomain.Quotation](t, w).Status)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	ts.createQuotation(t, "alpha", "Jane Doe")

	w := ts.do(t, http.MethodGet, "/api/snapshot", "alpha", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "quotation-backup-2024-06-01.json")
	exported := w.Body.Bytes()

	w = ts.do(t, http.MethodPost, "/api/snapshot", "beta", exported)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[snapshot.ImportResult](t, w)
	require.NotNil(t, result.Quotations)
	assert.Equal(t, 1, *result.Quotations)

	w = ts.do(t, http.MethodGet, "/api/quotations", "beta", nil)
	imported := decode[[]quotationdomain.Quotation](t, w)
	require.Len(t, imported, 1)
	assert.Equal(t, "Jane Doe", imported[0].ClientName)
}

func TestSnapshotCompressedRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	ts.createQuotation(t, "alpha", "Jane Doe")

	w := ts.do(t, http.MethodGet, "/api/snapshot?format=snappy", "alpha", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, snappyContentType, w.Header().Get("Content-Type"))

	req := httptest.NewRequest(http.MethodPost, "/api/snapshot", bytes.NewReader(w.Body.Bytes()))
	req.Header.Set("Content-Type", snappyContentType)
	req.Header.Set(WorkspaceHeader, "beta")
	w = httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/quotations", "beta", nil)
	assert.Len(t, decode[[]quotationdomain.Quotation](t, w), 1)
}

func TestSnapshotRejectsGarbage(t *testing.T) {
	ts := newTestServer(t)
	ts.createQuotation(t, "alpha", "Jane Doe")

	w := ts.do(t, http.MethodPost, "/api/snapshot", "alpha", []byte("definitely not json"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	payload := decodeError(t, w)
	assert.Equal(t, "import_format_error", payload.Type)
	assert.Equal(t, "Invalid data format", payload.Message)

	w = ts.do(t, http.MethodGet, "/api/quotations", "alpha", nil)
	assert.Len(t, decode[[]quotationdomain.Quotation](t, w), 1)
}

func TestClearSnapshot(t *testing.T) {
	ts := newTestServer(t)
	ts.createQuotation(t, "alpha", "Jane Doe")
	ts.createQuotation(t, "beta", "John Roe")

	w := ts.do(t, http.MethodPost, "/api/templates", "alpha", gin.H{"name": "Studio", "taxRate": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodDelete, "/api/snapshot", "alpha", nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/quotations", "alpha", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]quotationdomain.Quotation](t, w))

	w = ts.do(t, http.MethodGet, "/api/templates", "alpha", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 5)

	w = ts.do(t, http.MethodGet, "/api/quotations", "beta", nil)
	assert.Len(t, decode[[]quotationdomain.Quotation](t, w), 1)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	register := gin.H{"email": "Jane@Example.com", "password": "s3cret-pass", "name": "Jane"}

	w := ts.do(t, http.MethodPost, "/api/auth/register", "ws1", register)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/api/auth/register", "ws1", register)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodGet, "/api/auth/me", "ws1", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/login", "ws1", gin.H{"email": "jane@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/login", "ws1", gin.H{"email": "jane@example.com", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/auth/me", "ws1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Data struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "jane@example.com", me.Data.Email)

	w = ts.do(t, http.MethodGet, "/api/auth/me", "ws2", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/auth/logout", "ws1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(t, http.MethodGet, "/api/auth/me", "ws1", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decodeError(t, w).Type)
}

func TestCurrencies(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/currencies", "ws1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 15)
	assert.Equal(t, "USD", list[0]["code"])

	w = ts.do(t, http.MethodGet, "/api/currencies/gbp/format?amount=1234.5", "ws1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	formatted := decode[map[string]string](t, w)
	assert.Equal(t, "GBP", formatted["currency"])
	assert.Equal(t, "£", formatted["symbol"])
	assert.Equal(t, "£1,234.50", formatted["formatted"])

	w = ts.do(t, http.MethodGet, "/api/currencies/usd/format?amount=abc", "ws1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplatesAndProfilesOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/templates", "ws1", gin.H{"name": "Studio", "taxRate": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = ts.do(t, http.MethodGet, "/api/templates", "ws1", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 6)

	w = ts.do(t, http.MethodDelete, "/api/templates/missing", "ws1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/business-profiles/default", "ws1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "default-profile", decode[map[string]any](t, w)["id"])
}
