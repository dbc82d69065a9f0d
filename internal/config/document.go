package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DocumentSettings controls the product branding printed on quotations.
type DocumentSettings struct {
	ProductName string   `mapstructure:"productName"`
	FooterLines []string `mapstructure:"footerLines"`
	EmailFooter string   `mapstructure:"emailFooter"`
}

func DefaultDocumentSettings() DocumentSettings {
	return DocumentSettings{
		ProductName: "Dovepeak Quotation Master",
		FooterLines: []string{"Generated by Dovepeak Quotation Master", "Thank you for your business!"},
		EmailFooter: "This quotation was generated using Dovepeak Quotation Master",
	}
}

type DocumentHolder struct {
	current atomic.Value // holds DocumentSettings
}

// NewStaticDocumentHolder returns a holder that never reloads.
func NewStaticDocumentHolder(settings DocumentSettings) *DocumentHolder {
	h := &DocumentHolder{}
	h.current.Store(settings)
	return h
}

// NewDocumentHolder reads document.yml from the configured paths and reloads
// it whenever the file changes. A missing file yields the defaults.
func NewDocumentHolder(cfg Config, log *zap.Logger) (*DocumentHolder, error) {
	log = log.Named("config.document")

	v := viper.New()
	v.SetConfigName("document")
	v.SetConfigType("yml")
	for _, path := range cfg.DocumentConfigPaths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("QUOTEMASTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultDocumentSettings()
	v.SetDefault("document.productName", defaults.ProductName)
	v.SetDefault("document.footerLines", defaults.FooterLines)
	v.SetDefault("document.emailFooter", defaults.EmailFooter)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	var settings DocumentSettings
	if err := v.UnmarshalKey("document", &settings); err != nil {
		return nil, err
	}
	if err := validateDocumentSettings(settings); err != nil {
		return nil, err
	}

	holder := NewStaticDocumentHolder(settings)
	if !fileFound {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var updated DocumentSettings
		if err := v.UnmarshalKey("document", &updated); err != nil {
			log.Warn("document settings reload failed", zap.Error(err))
			return
		}
		if err := validateDocumentSettings(updated); err != nil {
			log.Warn("invalid document settings ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("document settings reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

func (h *DocumentHolder) Get() DocumentSettings {
	return h.current.Load().(DocumentSettings)
}

func validateDocumentSettings(s DocumentSettings) error {
	if strings.TrimSpace(s.ProductName) == "" {
		return errors.New("document.productName cannot be empty")
	}
	if len(s.FooterLines) == 0 {
		return errors.New("document.footerLines cannot be empty")
	}
	return nil
}
