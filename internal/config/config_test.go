package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30, cfg.QuotationValidityDays)
	assert.Equal(t, "QUO-{YY}{MM}-{SEQ3}", cfg.QuotationNumberTemplate)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, ,https://b.test")
	t.Setenv("LOGIN_RATE_PER_MINUTE", "not-a-number")

	cfg := Load()

	assert.Equal(t, StorageRedis, cfg.StorageBackend)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10.0, cfg.LoginRatePerMinute)
}

func TestNormalizeBackend(t *testing.T) {
	assert.Equal(t, StorageGorm, normalizeBackend("database"))
	assert.Equal(t, StorageNone, normalizeBackend("disabled"))
	assert.Equal(t, StorageMemory, normalizeBackend("whatever"))
}

func TestDocumentHolderDefaultsWithoutFile(t *testing.T) {
	holder, err := NewDocumentHolder(Config{DocumentConfigPaths: []string{t.TempDir()}}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultDocumentSettings(), holder.Get())
}

func TestDocumentHolderReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := "document:\n  productName: Acme Quotes\n  footerLines:\n    - Issued by Acme Quotes\n  emailFooter: Sent with Acme Quotes\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "document.yml"), []byte(content), 0o600))

	holder, err := NewDocumentHolder(Config{DocumentConfigPaths: []string{dir}}, zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, "Acme Quotes", got.ProductName)
	assert.Equal(t, []string{"Issued by Acme Quotes"}, got.FooterLines)
	assert.Equal(t, "Sent with Acme Quotes", got.EmailFooter)
}
