package service

import (
	"context"
	"slices"
	"strings"

	"github.com/dovepeak/quotemaster/internal/apperror"
	"github.com/dovepeak/quotemaster/internal/clock"
	templatedomain "github.com/dovepeak/quotemaster/internal/quotetemplate/domain"
	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultPrimaryColor   = "#3B82F6"
	defaultSecondaryColor = "#1E40AF"
	defaultFontFamily     = "Inter"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  templatedomain.Repository
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	repo  templatedomain.Repository
}

func NewService(p Params) templatedomain.Service {
	return &Service{
		log:   p.Log.Named("quotetemplate.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]templatedomain.Template, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*templatedomain.Template, error) {
	item, ok, err := s.repo.GetOne(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound()
	}
	return &item, nil
}

func (s *Service) Create(ctx context.Context, req templatedomain.CreateRequest) (*templatedomain.Template, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.Validation("Template name is required.",
			apperror.Field("name", "required", "is required"))
	}

	now := s.clock.Now()
	tmpl := templatedomain.Template{
		ID:             newID(name),
		Name:           name,
		Description:    strings.TrimSpace(req.Description),
		Style:          req.Style,
		PrimaryColor:   orDefault(req.PrimaryColor, defaultPrimaryColor),
		SecondaryColor: orDefault(req.SecondaryColor, defaultSecondaryColor),
		FontFamily:     orDefault(req.FontFamily, defaultFontFamily),
		Layout:         req.Layout,
		ShowLogo:       req.ShowLogo,
		HeaderStyle:    req.HeaderStyle,
		DefaultTerms:   req.DefaultTerms,
		DefaultNotes:   req.DefaultNotes,
		TaxRate:        req.TaxRate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if tmpl.Style == "" {
		tmpl.Style = templatedomain.StyleModern
	}
	if tmpl.Layout == "" {
		tmpl.Layout = templatedomain.LayoutStandard
	}
	if tmpl.HeaderStyle == "" {
		tmpl.HeaderStyle = templatedomain.HeaderSimple
	}

	if err := templatedomain.Validate(tmpl); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, tmpl)
	if err != nil {
		return nil, err
	}
	s.log.Info("template created", zap.String("template_id", saved.ID), zap.String("style", string(saved.Style)))
	return &saved, nil
}

func (s *Service) Update(ctx context.Context, req templatedomain.UpdateRequest) (*templatedomain.Template, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperror.Validation("Template name is required.",
			apperror.Field("name", "required", "is required"))
	}

	id := strings.TrimSpace(req.ID)
	var updated templatedomain.Template
	err := s.repo.Update(ctx, func(items []templatedomain.Template) ([]templatedomain.Template, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, notFound()
		}

		item := items[idx]
		applyUpdate(&item, req)
		if err := templatedomain.Validate(item); err != nil {
			return nil, err
		}
		items[idx] = item.Touched(s.clock.Now())
		updated = items[idx]
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the template. Quotations referring to it keep the dangling id.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	err := s.repo.Update(ctx, func(items []templatedomain.Template) ([]templatedomain.Template, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, notFound()
		}
		return append(items[:idx], items[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.log.Info("template deleted", zap.String("template_id", id))
	return nil
}

func applyUpdate(item *templatedomain.Template, req templatedomain.UpdateRequest) {
	setTrimmed := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setTrimmed(&item.Name, req.Name)
	setTrimmed(&item.Description, req.Description)
	setTrimmed(&item.PrimaryColor, req.PrimaryColor)
	setTrimmed(&item.SecondaryColor, req.SecondaryColor)
	setTrimmed(&item.FontFamily, req.FontFamily)
	if req.Style != nil {
		item.Style = *req.Style
	}
	if req.Layout != nil {
		item.Layout = *req.Layout
	}
	if req.ShowLogo != nil {
		item.ShowLogo = *req.ShowLogo
	}
	if req.HeaderStyle != nil {
		item.HeaderStyle = *req.HeaderStyle
	}
	if req.DefaultTerms != nil {
		item.DefaultTerms = *req.DefaultTerms
	}
	if req.DefaultNotes != nil {
		item.DefaultNotes = *req.DefaultNotes
	}
	if req.TaxRate != nil {
		item.TaxRate = *req.TaxRate
	}
}

func indexOf(items []templatedomain.Template, id string) int {
	return slices.IndexFunc(items, func(t templatedomain.Template) bool { return t.ID == id })
}

// newID derives a readable id from the name with a random ULID suffix.
func newID(name string) string {
	suffix := strings.ToLower(ulid.Make().String())
	base := slug.Make(name)
	if base == "" {
		return "template-" + suffix
	}
	return base + "-" + suffix[len(suffix)-8:]
}

func orDefault(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return def
}

func notFound() error {
	return apperror.New(apperror.KindNotFound, "Template not found", templatedomain.ErrNotFound)
}
