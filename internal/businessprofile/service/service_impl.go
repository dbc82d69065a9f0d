package service

import (
	"context"
	"strings"
	"time"

	"github.com/dovepeak/quotemaster/internal/apperror"
	profiledomain "github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/currency"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  profiledomain.Repository
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	repo  profiledomain.Repository
}

func NewService(p Params) profiledomain.Service {
	return &Service{
		log:   p.Log.Named("businessprofile.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]profiledomain.BusinessProfile, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*profiledomain.BusinessProfile, error) {
	item, ok, err := s.repo.GetOne(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound()
	}
	return &item, nil
}

// Default returns the flagged default profile, or the first one.
func (s *Service) Default(ctx context.Context) (*profiledomain.BusinessProfile, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := profiledomain.PickDefault(items)
	if !ok {
		return nil, notFound()
	}
	return &item, nil
}

func (s *Service) Create(ctx context.Context, req profiledomain.CreateRequest) (*profiledomain.BusinessProfile, error) {
	now := s.clock.Now()
	profile := profiledomain.BusinessProfile{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(req.Name),
		CompanyName:        strings.TrimSpace(req.CompanyName),
		CompanyAddress:     strings.TrimSpace(req.CompanyAddress),
		CompanyPhone:       strings.TrimSpace(req.CompanyPhone),
		CompanyEmail:       strings.TrimSpace(req.CompanyEmail),
		CompanyWebsite:     strings.TrimSpace(req.CompanyWebsite),
		CompanyLogo:        strings.TrimSpace(req.CompanyLogo),
		TaxID:              strings.TrimSpace(req.TaxID),
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		DefaultCurrency:    strings.ToUpper(strings.TrimSpace(req.DefaultCurrency)),
		DefaultTaxRate:     req.DefaultTaxRate,
		IsDefault:          req.IsDefault,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if req.BankDetails != nil && !req.BankDetails.Empty() {
		bank := *req.BankDetails
		profile.BankDetails = &bank
	}
	if profile.DefaultCurrency == "" {
		profile.DefaultCurrency = currency.DefaultCode
	}
	if err := validate(profile); err != nil {
		return nil, err
	}

	err := s.repo.Update(ctx, func(items []profiledomain.BusinessProfile) ([]profiledomain.BusinessProfile, error) {
		if profile.IsDefault {
			clearDefaults(items, now)
		}
		return append(items, profile), nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("business profile created", zap.String("profile_id", profile.ID), zap.Bool("is_default", profile.IsDefault))
	return &profile, nil
}

func (s *Service) Update(ctx context.Context, req profiledomain.UpdateRequest) (*profiledomain.BusinessProfile, error) {
	id := strings.TrimSpace(req.ID)
	var updated profiledomain.BusinessProfile

	err := s.repo.Update(ctx, func(items []profiledomain.BusinessProfile) ([]profiledomain.BusinessProfile, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, notFound()
		}

		item := items[idx]
		applyUpdate(&item, req)
		if err := validate(item); err != nil {
			return nil, err
		}

		now := s.clock.Now()
		if item.IsDefault && !items[idx].IsDefault {
			clearDefaults(items, now)
		}
		items[idx] = item.Touched(now)
		items = profiledomain.NormalizeDefaults(items)
		updated = items[idx]
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetDefault flags id as the only default profile.
func (s *Service) SetDefault(ctx context.Context, id string) (*profiledomain.BusinessProfile, error) {
	id = strings.TrimSpace(id)
	var updated profiledomain.BusinessProfile

	err := s.repo.Update(ctx, func(items []profiledomain.BusinessProfile) ([]profiledomain.BusinessProfile, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, notFound()
		}
		now := s.clock.Now()
		clearDefaults(items, now)
		items[idx].IsDefault = true
		items[idx] = items[idx].Touched(now)
		updated = items[idx]
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("default business profile changed", zap.String("profile_id", id))
	return &updated, nil
}

// Delete removes the profile. When no default remains the first remaining
// profile is promoted.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	return s.repo.Update(ctx, func(items []profiledomain.BusinessProfile) ([]profiledomain.BusinessProfile, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, notFound()
		}
		items = append(items[:idx], items[idx+1:]...)

		if len(items) > 0 {
			if _, hasDefault := findDefault(items); !hasDefault {
				items[0].IsDefault = true
				items[0] = items[0].Touched(s.clock.Now())
				s.log.Info("business profile promoted to default", zap.String("profile_id", items[0].ID))
			}
		}
		return items, nil
	})
}

func applyUpdate(item *profiledomain.BusinessProfile, req profiledomain.UpdateRequest) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&item.Name, req.Name)
	setString(&item.CompanyName, req.CompanyName)
	setString(&item.CompanyAddress, req.CompanyAddress)
	setString(&item.CompanyPhone, req.CompanyPhone)
	setString(&item.CompanyEmail, req.CompanyEmail)
	setString(&item.CompanyWebsite, req.CompanyWebsite)
	setString(&item.CompanyLogo, req.CompanyLogo)
	setString(&item.TaxID, req.TaxID)
	setString(&item.RegistrationNumber, req.RegistrationNumber)
	if req.DefaultCurrency != nil {
		item.DefaultCurrency = strings.ToUpper(strings.TrimSpace(*req.DefaultCurrency))
	}
	if req.DefaultTaxRate != nil {
		item.DefaultTaxRate = *req.DefaultTaxRate
	}
	if req.IsDefault != nil {
		item.IsDefault = *req.IsDefault
	}
	if req.BankDetails != nil {
		item.BankDetails = req.BankDetails.Apply(item.BankDetails)
	}
}

func validate(p profiledomain.BusinessProfile) error {
	if err := profiledomain.Validate(p); err != nil {
		return err
	}
	if !currency.Supported(p.DefaultCurrency) {
		return apperror.New(apperror.KindValidation, "Unsupported currency.", profiledomain.ErrInvalidCurrency)
	}
	return nil
}

func clearDefaults(items []profiledomain.BusinessProfile, now time.Time) {
	for i := range items {
		if items[i].IsDefault {
			items[i].IsDefault = false
			items[i] = items[i].Touched(now)
		}
	}
}

func findDefault(items []profiledomain.BusinessProfile) (int, bool) {
	for i := range items {
		if items[i].IsDefault {
			return i, true
		}
	}
	return -1, false
}

func indexOf(items []profiledomain.BusinessProfile, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound() error {
	return apperror.New(apperror.KindNotFound, "Business profile not found", profiledomain.ErrNotFound)
}
