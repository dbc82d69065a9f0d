package domain

import (
	"context"

	"github.com/dovepeak/quotemaster/internal/validation"
)

type Service interface {
	List(ctx context.Context) ([]BusinessProfile, error)
	Get(ctx context.Context, id string) (*BusinessProfile, error)
	Default(ctx context.Context) (*BusinessProfile, error)
	Create(ctx context.Context, req CreateRequest) (*BusinessProfile, error)
	Update(ctx context.Context, req UpdateRequest) (*BusinessProfile, error)
	SetDefault(ctx context.Context, id string) (*BusinessProfile, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name               string       `json:"name"`
	CompanyName        string       `json:"companyName"`
	CompanyAddress     string       `json:"companyAddress"`
	CompanyPhone       string       `json:"companyPhone"`
	CompanyEmail       string       `json:"companyEmail"`
	CompanyWebsite     string       `json:"companyWebsite"`
	CompanyLogo        string       `json:"companyLogo"`
	TaxID              string       `json:"taxId"`
	RegistrationNumber string       `json:"registrationNumber"`
	BankDetails        *BankDetails `json:"bankDetails"`
	DefaultCurrency    string       `json:"defaultCurrency"`
	DefaultTaxRate     float64      `json:"defaultTaxRate"`
	IsDefault          bool         `json:"isDefault"`
}

// UpdateRequest carries a partial edit; nil fields are left untouched.
type UpdateRequest struct {
	ID                 string            `json:"-"`
	Name               *string           `json:"name"`
	CompanyName        *string           `json:"companyName"`
	CompanyAddress     *string           `json:"companyAddress"`
	CompanyPhone       *string           `json:"companyPhone"`
	CompanyEmail       *string           `json:"companyEmail"`
	CompanyWebsite     *string           `json:"companyWebsite"`
	CompanyLogo        *string           `json:"companyLogo"`
	TaxID              *string           `json:"taxId"`
	RegistrationNumber *string           `json:"registrationNumber"`
	BankDetails        *BankDetailsPatch `json:"bankDetails"`
	DefaultCurrency    *string           `json:"defaultCurrency"`
	DefaultTaxRate     *float64          `json:"defaultTaxRate"`
	IsDefault          *bool             `json:"isDefault"`
}

// Validate checks a profile before it is persisted.
func Validate(p BusinessProfile) error {
	return validation.Struct(p, "Business profile is invalid.")
}
