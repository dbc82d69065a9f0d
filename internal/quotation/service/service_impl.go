package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dovepeak/quotemaster/internal/apperror"
	profiledomain "github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/currency"
	"github.com/dovepeak/quotemaster/internal/observability/metrics"
	"github.com/dovepeak/quotemaster/internal/observability/tracing"
	"github.com/dovepeak/quotemaster/internal/providers/email"
	"github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/dovepeak/quotemaster/internal/quotation/pricing"
	"github.com/dovepeak/quotemaster/internal/quotation/render"
	templatedomain "github.com/dovepeak/quotemaster/internal/quotetemplate/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("quotemaster/quotation")

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Lifecycle *Lifecycle
	Repo      domain.Repository
	Templates templatedomain.Service
	Profiles  profiledomain.Service
	Renderer  render.Renderer
	Mailer    email.Provider
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	lifecycle *Lifecycle
	repo      domain.Repository
	templates templatedomain.Service
	profiles  profiledomain.Service
	renderer  render.Renderer
	mailer    email.Provider
	metrics   *metrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("quotation.service"),
		clock:     p.Clock,
		lifecycle: p.Lifecycle,
		repo:      p.Repo,
		templates: p.Templates,
		profiles:  p.Profiles,
		renderer:  p.Renderer,
		mailer:    p.Mailer,
		metrics:   p.Metrics,
	}
}

// NewDraft returns an unsaved draft seeded from the stock template and the
// default business profile.
func (s *Service) NewDraft(ctx context.Context) (*domain.Quotation, error) {
	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}

	q, err := s.lifecycle.CreateDraft(existing, profiles, templates)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Save validates q and upserts it. A new quotation gets its id, number and
// item ids here; an existing one keeps its creation time and the stored
// number, status and dates wherever q leaves them empty.
func (s *Service) Save(ctx context.Context, q domain.Quotation) (*domain.Quotation, error) {
	if q.Status == domain.StatusExpired {
		return nil, invalidStatus(q.Status)
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, invalidStatus(q.Status)
	}

	// Lookups seed their collections, so they run before the write lock is taken.
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		saved   domain.Quotation
		created bool
	)
	err = s.repo.Update(ctx, func(items []domain.Quotation) ([]domain.Quotation, error) {
		prepared, err := s.lifecycle.Prepare(q, items)
		if err != nil {
			return nil, err
		}
		if err := domain.Validate(prepared); err != nil {
			return nil, err
		}
		if err := checkReferences(prepared, templates, profiles); err != nil {
			return nil, err
		}

		now := s.clock.Now()
		prepared = pricing.Recompute(prepared)
		idx := indexOf(items, prepared.ID)
		if idx < 0 {
			created = true
			if prepared.CreatedAt.IsZero() {
				prepared.CreatedAt = now
			}
			prepared.UpdatedAt = now
			saved = prepared
			return append(items, prepared), nil
		}
		prepared.CreatedAt = items[idx].CreatedAt
		items[idx] = prepared.Touched(now)
		saved = items[idx]
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	operation := "updated"
	if created {
		operation = "created"
	}
	s.metrics.RecordQuotationSaved(ctx, operation)
	s.log.Info("quotation saved",
		zap.String("quotation_id", saved.ID),
		zap.String("quotation_number", saved.QuotationNumber),
		zap.String("operation", operation),
	)
	return &saved, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Quotation, error) {
	q, ok, err := s.repo.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound()
	}
	return &q, nil
}

// List filters by search text and effective status, then sorts. Newest first
// unless req.Sort says otherwise.
func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Quotation, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, apperror.Validation("Unknown status filter.",
			apperror.Field("status", "oneof", "status must be one of draft, sent, accepted, rejected, expired"))
	}
	order := req.Sort
	if order == "" {
		order = domain.SortNewest
	}
	less, ok := sorters[order]
	if !ok {
		return nil, apperror.Validation("Unknown sort order.",
			apperror.Field("sort", "oneof", "sort must be one of newest, oldest, amount-high, amount-low, client"))
	}

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	search := strings.ToLower(strings.TrimSpace(req.Search))
	out := make([]domain.Quotation, 0, len(items))
	for _, q := range items {
		if req.Status != "" && domain.EffectiveStatus(q, now) != req.Status {
			continue
		}
		if search != "" && !matches(q, search) {
			continue
		}
		out = append(out, q)
	}
	slices.SortStableFunc(out, less)
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Update(ctx, func(items []domain.Quotation) ([]domain.Quotation, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, notFound()
		}
		return append(items[:idx], items[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.log.Info("quotation deleted", zap.String("quotation_id", id))
	return nil
}

// SetStatus stores an explicit status chosen by the user. Expired is derived
// and can never be stored.
func (s *Service) SetStatus(ctx context.Context, id string, status domain.Status) (*domain.Quotation, error) {
	if !status.Valid() || status == domain.StatusExpired {
		return nil, invalidStatus(status)
	}
	q, err := s.mutate(ctx, id, func(q domain.Quotation) (domain.Quotation, error) {
		q.Status = status
		return q, nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordStatusChange(ctx, string(status))
	return q, nil
}

func (s *Service) AddItem(ctx context.Context, id string) (*domain.Quotation, error) {
	return s.mutate(ctx, id, func(q domain.Quotation) (domain.Quotation, error) {
		return s.lifecycle.AddItem(q), nil
	})
}

func (s *Service) UpdateItem(ctx context.Context, id, itemID string, patch domain.ItemPatch) (*domain.Quotation, error) {
	if (patch.Quantity != nil && *patch.Quantity < 0) || (patch.UnitPrice != nil && *patch.UnitPrice < 0) {
		return nil, apperror.Validation("Quantity and unit price cannot be negative.",
			apperror.Field("items", "gte", "quantity and unitPrice must be zero or more"))
	}
	return s.mutate(ctx, id, func(q domain.Quotation) (domain.Quotation, error) {
		next, err := s.lifecycle.UpdateItem(q, itemID, patch)
		if errors.Is(err, domain.ErrItemNotFound) {
			return q, itemNotFound()
		}
		return next, err
	})
}

func (s *Service) RemoveItem(ctx context.Context, id, itemID string) (*domain.Quotation, error) {
	return s.mutate(ctx, id, func(q domain.Quotation) (domain.Quotation, error) {
		next, err := s.lifecycle.RemoveItem(q, itemID)
		if errors.Is(err, domain.ErrItemNotFound) {
			return q, itemNotFound()
		}
		return next, err
	})
}

// ChangeTemplate re-seeds tax rate, notes and terms from the template,
// replacing whatever was there.
func (s *Service) ChangeTemplate(ctx context.Context, id, templateID string) (*domain.Quotation, error) {
	t, err := s.templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(q domain.Quotation) (domain.Quotation, error) {
		return s.lifecycle.ChangeTemplate(q, *t), nil
	})
}

func (s *Service) ChangeBusinessProfile(ctx context.Context, id, profileID string) (*domain.Quotation, error) {
	p, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(q domain.Quotation) (domain.Quotation, error) {
		return s.lifecycle.ChangeBusinessProfile(q, *p), nil
	})
}

// Duplicate stores a draft copy of id and returns it.
func (s *Service) Duplicate(ctx context.Context, id string) (*domain.Quotation, error) {
	var dup domain.Quotation
	err := s.repo.Update(ctx, func(items []domain.Quotation) ([]domain.Quotation, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, notFound()
		}
		dup = s.lifecycle.Duplicate(items[idx])
		return append(items, dup), nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordQuotationSaved(ctx, "duplicated")
	s.log.Info("quotation duplicated",
		zap.String("source_id", id),
		zap.String("quotation_id", dup.ID),
		zap.String("quotation_number", dup.QuotationNumber),
	)
	return &dup, nil
}

// RenderDocument renders the stored quotation with its template and profile.
// print adds the print trigger.
func (s *Service) RenderDocument(ctx context.Context, id string, print bool) (doc *domain.Document, err error) {
	kind := "html"
	if print {
		kind = "print"
	}
	ctx, span := tracer.Start(ctx, "quotation.render")
	span.SetAttributes(attribute.String("document.kind", kind))
	defer func() {
		if err != nil {
			span.RecordError(tracing.SafeError(err))
			span.SetStatus(codes.Error, "render failed")
		}
		span.End()
	}()

	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := s.templates.Get(ctx, q.TemplateID)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Get(ctx, q.BusinessProfileID)
	if err != nil {
		return nil, err
	}

	var rendered render.Document
	if print {
		rendered, err = s.renderer.Print(*q, *t, *p)
	} else {
		rendered, err = s.renderer.Render(*q, *t, *p)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	s.metrics.RecordDocumentRendered(ctx, kind)
	return &rendered, nil
}

// ComposeEmail builds the email hand-off for id. A draft is marked sent once
// the hand-off succeeds.
func (s *Service) ComposeEmail(ctx context.Context, id, customMessage string) (handoff *domain.EmailHandoff, err error) {
	ctx, span := tracer.Start(ctx, "quotation.compose_email")
	defer func() {
		if err != nil {
			span.RecordError(tracing.SafeError(err))
			span.SetStatus(codes.Error, "compose failed")
		}
		span.End()
	}()

	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Get(ctx, q.BusinessProfileID)
	if err != nil {
		return nil, err
	}

	msg := s.renderer.RenderEmail(*q, *p, customMessage)
	handoff, err = s.mailer.Compose(ctx, msg)
	s.metrics.RecordEmailComposed(ctx, err)
	if errors.Is(err, email.ErrNoRecipient) {
		return nil, apperror.New(apperror.KindValidation, "The quotation has no client email.", domain.ErrMissingRecipient)
	}
	if err != nil {
		return nil, err
	}

	if q.Status == domain.StatusDraft {
		if _, err := s.mutate(ctx, id, func(q domain.Quotation) (domain.Quotation, error) {
			if q.Status != domain.StatusDraft {
				return q, nil
			}
			return s.lifecycle.MarkSent(q), nil
		}); err != nil {
			return nil, err
		}
		s.metrics.RecordStatusChange(ctx, string(domain.StatusSent))
		s.log.Info("quotation marked sent", zap.String("quotation_id", id))
	}
	return handoff, nil
}

// mutate applies fn to the stored quotation id inside one write cycle and
// stores the result with a refreshed update time.
func (s *Service) mutate(ctx context.Context, id string, fn func(domain.Quotation) (domain.Quotation, error)) (*domain.Quotation, error) {
	var out domain.Quotation
	err := s.repo.Update(ctx, func(items []domain.Quotation) ([]domain.Quotation, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, notFound()
		}
		next, err := fn(items[idx])
		if err != nil {
			return nil, err
		}
		items[idx] = next.Touched(s.clock.Now())
		out = items[idx]
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func checkReferences(q domain.Quotation, templates []templatedomain.Template, profiles []profiledomain.BusinessProfile) error {
	var fields []apperror.FieldError
	if !slices.ContainsFunc(templates, func(t templatedomain.Template) bool { return t.ID == q.TemplateID }) {
		fields = append(fields, apperror.Field("templateId", "exists", "selected template does not exist"))
	}
	if !slices.ContainsFunc(profiles, func(p profiledomain.BusinessProfile) bool { return p.ID == q.BusinessProfileID }) {
		fields = append(fields, apperror.Field("businessProfileId", "exists", "selected business profile does not exist"))
	}
	if !currency.Supported(q.Currency) {
		fields = append(fields, apperror.Field("currency", "supported", "currency is not supported"))
	}
	if len(fields) == 0 {
		return nil
	}
	return apperror.Validation("Please select an existing template and business profile.", fields...)
}

func matches(q domain.Quotation, search string) bool {
	for _, field := range []string{q.QuotationNumber, q.ClientName, q.ClientEmail} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

var sorters = map[domain.SortOrder]func(a, b domain.Quotation) int{
	domain.SortNewest:     newestFirst,
	domain.SortOldest:     oldestFirst,
	domain.SortAmountHigh: func(a, b domain.Quotation) int { return compareFloat(b.Total, a.Total) },
	domain.SortAmountLow:  func(a, b domain.Quotation) int { return compareFloat(a.Total, b.Total) },
	domain.SortClient:     byClient,
}

func oldestFirst(a, b domain.Quotation) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}

func byClient(a, b domain.Quotation) int {
	return strings.Compare(strings.ToLower(a.ClientName), strings.ToLower(b.ClientName))
}

func newestFirst(a, b domain.Quotation) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func indexOf(items []domain.Quotation, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound() error {
	return apperror.New(apperror.KindNotFound, "Quotation not found", domain.ErrNotFound)
}

func itemNotFound() error {
	return apperror.New(apperror.KindNotFound, "Quotation item not found", domain.ErrItemNotFound)
}

func invalidStatus(status domain.Status) error {
	return &apperror.Error{
		Kind:    apperror.KindValidation,
		Message: "Status must be draft, sent, accepted or rejected.",
		Fields:  []apperror.FieldError{apperror.Field("status", "oneof", "cannot store status "+string(status))},
		Err:     domain.ErrInvalidStatus,
	}
}
