// Package snapshot exports and imports a workspace as a single JSON document.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dovepeak/quotemaster/internal/apperror"
	profiledomain "github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/observability/metrics"
	"github.com/dovepeak/quotemaster/internal/observability/tracing"
	quotationdomain "github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/dovepeak/quotemaster/internal/quotation/pricing"
	templatedomain "github.com/dovepeak/quotemaster/internal/quotetemplate/domain"
	"github.com/dovepeak/quotemaster/internal/storage"
	"github.com/golang/snappy"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Version is written into every export.
const Version = "2.0"

var tracer = otel.Tracer("quotemaster/snapshot")

// Snapshot is the export document.
type Snapshot struct {
	Quotations       []quotationdomain.Quotation     `json:"quotations"`
	Templates        []templatedomain.Template       `json:"templates"`
	BusinessProfiles []profiledomain.BusinessProfile `json:"businessProfiles"`
	ExportDate       time.Time                       `json:"exportDate"`
	Version          string                          `json:"version"`
}

// ImportResult reports which sections were replaced and their sizes. A nil
// count means the section was absent from the input and left untouched.
type ImportResult struct {
	Quotations       *int `json:"quotations,omitempty"`
	Templates        *int `json:"templates,omitempty"`
	BusinessProfiles *int `json:"businessProfiles,omitempty"`
}

type Params struct {
	fx.In

	Quotations quotationdomain.Repository
	Templates  templatedomain.Repository
	Profiles   profiledomain.Repository
	Gateway    *storage.Gateway
	Clock      clock.Clock
	Log        *zap.Logger
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	quotations quotationdomain.Repository
	templates  templatedomain.Repository
	profiles   profiledomain.Repository
	gateway    *storage.Gateway
	clock      clock.Clock
	log        *zap.Logger
	metrics    *metrics.Metrics
}

func NewService(p Params) *Service {
	return &Service{
		quotations: p.Quotations,
		templates:  p.Templates,
		profiles:   p.Profiles,
		gateway:    p.Gateway,
		clock:      p.Clock,
		log:        p.Log.Named("snapshot.service"),
		metrics:    p.Metrics,
	}
}

// Export loads every collection of the active workspace.
func (s *Service) Export(ctx context.Context) (*Snapshot, error) {
	ctx, span := tracer.Start(ctx, "snapshot.export")
	defer span.End()

	snap := &Snapshot{ExportDate: s.clock.Now(), Version: Version}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Quotations, err = s.quotations.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Templates, err = s.templates.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.BusinessProfiles, err = s.profiles.GetAll(gctx)
		return err
	})
	err := g.Wait()
	s.metrics.RecordSnapshot(ctx, "export", err)
	if err != nil {
		span.RecordError(tracing.SafeError(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("snapshot.quotations", len(snap.Quotations)),
		attribute.Int("snapshot.templates", len(snap.Templates)),
		attribute.Int("snapshot.business_profiles", len(snap.BusinessProfiles)),
	)
	return snap, nil
}

// Clear drops the quotations and templates of the active workspace. Business
// profiles are kept. The next template read seeds the stock templates again.
func (s *Service) Clear(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "snapshot.clear")
	defer span.End()

	err := s.gateway.Exclusive(func() error {
		for _, name := range []string{storage.Quotations, storage.Templates} {
			if err := s.gateway.Remove(ctx, name); err != nil {
				return err
			}
		}
		return nil
	})
	s.metrics.RecordSnapshot(ctx, "clear", err)
	if err != nil {
		span.RecordError(tracing.SafeError(err))
		return err
	}
	s.log.Info("workspace data cleared")
	return nil
}

// ExportJSON renders Export as indented JSON.
func (s *Service) ExportJSON(ctx context.Context) ([]byte, error) {
	snap, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// ExportCompressed is ExportJSON in snappy block encoding.
func (s *Service) ExportCompressed(ctx context.Context) ([]byte, error) {
	raw, err := s.ExportJSON(ctx)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, raw), nil
}

// rawSnapshot keeps each section undecoded so absence can be told apart from
// an empty list.
type rawSnapshot struct {
	Quotations       json.RawMessage `json:"quotations"`
	Templates        json.RawMessage `json:"templates"`
	BusinessProfiles json.RawMessage `json:"businessProfiles"`
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Import replaces every collection present in data. Input is fully decoded
// before anything is written; a decoding failure leaves the workspace untouched.
func (s *Service) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	ctx, span := tracer.Start(ctx, "snapshot.import")
	defer span.End()

	result, err := s.importSnapshot(ctx, data)
	s.metrics.RecordSnapshot(ctx, "import", err)
	if err != nil {
		span.RecordError(tracing.SafeError(err))
	}
	return result, err
}

func (s *Service) importSnapshot(ctx context.Context, data []byte) (*ImportResult, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperror.ImportFormat(err)
	}

	var (
		quotations []quotationdomain.Quotation
		templates  []templatedomain.Template
		profiles   []profiledomain.BusinessProfile
		result     ImportResult
	)

	if present(raw.Quotations) {
		if err := json.Unmarshal(raw.Quotations, &quotations); err != nil {
			return nil, apperror.ImportFormat(fmt.Errorf("quotations: %w", err))
		}
		for i := range quotations {
			quotations[i] = pricing.Recompute(quotations[i])
		}
		result.Quotations = intPtr(len(quotations))
	}
	if present(raw.Templates) {
		if err := json.Unmarshal(raw.Templates, &templates); err != nil {
			return nil, apperror.ImportFormat(fmt.Errorf("templates: %w", err))
		}
		result.Templates = intPtr(len(templates))
	}
	if present(raw.BusinessProfiles) {
		if err := json.Unmarshal(raw.BusinessProfiles, &profiles); err != nil {
			return nil, apperror.ImportFormat(fmt.Errorf("businessProfiles: %w", err))
		}
		profiles = profiledomain.NormalizeDefaults(profiles)
		result.BusinessProfiles = intPtr(len(profiles))
	}

	if result.Quotations != nil {
		if err := s.quotations.ReplaceAll(ctx, quotations); err != nil {
			return nil, err
		}
	}
	if result.Templates != nil {
		if err := s.templates.ReplaceAll(ctx, templates); err != nil {
			return nil, err
		}
	}
	if result.BusinessProfiles != nil {
		if err := s.profiles.ReplaceAll(ctx, profiles); err != nil {
			return nil, err
		}
	}

	s.log.Info("snapshot imported",
		zap.Intp("quotations", result.Quotations),
		zap.Intp("templates", result.Templates),
		zap.Intp("business_profiles", result.BusinessProfiles),
	)
	return &result, nil
}

// ImportCompressed decodes a snappy block produced by ExportCompressed.
func (s *Service) ImportCompressed(ctx context.Context, data []byte) (*ImportResult, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, apperror.ImportFormat(err)
	}
	return s.Import(ctx, raw)
}

func intPtr(v int) *int { return &v }
