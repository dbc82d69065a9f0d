package domain

import (
	"context"

	"github.com/dovepeak/quotemaster/internal/validation"
)

type Service interface {
	List(ctx context.Context) ([]Template, error)
	Get(ctx context.Context, id string) (*Template, error)
	Create(ctx context.Context, req CreateRequest) (*Template, error)
	Update(ctx context.Context, req UpdateRequest) (*Template, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Style          Style       `json:"style"`
	PrimaryColor   string      `json:"primaryColor"`
	SecondaryColor string      `json:"secondaryColor"`
	FontFamily     string      `json:"fontFamily"`
	Layout         Layout      `json:"layout"`
	ShowLogo       bool        `json:"showLogo"`
	HeaderStyle    HeaderStyle `json:"headerStyle"`
	DefaultTerms   string      `json:"defaultTerms"`
	DefaultNotes   string      `json:"defaultNotes"`
	TaxRate        float64     `json:"taxRate"`
}

// UpdateRequest carries a partial edit; nil fields are left untouched.
type UpdateRequest struct {
	ID             string       `json:"-"`
	Name           *string      `json:"name"`
	Description    *string      `json:"description"`
	Style          *Style       `json:"style"`
	PrimaryColor   *string      `json:"primaryColor"`
	SecondaryColor *string      `json:"secondaryColor"`
	FontFamily     *string      `json:"fontFamily"`
	Layout         *Layout      `json:"layout"`
	ShowLogo       *bool        `json:"showLogo"`
	HeaderStyle    *HeaderStyle `json:"headerStyle"`
	DefaultTerms   *string      `json:"defaultTerms"`
	DefaultNotes   *string      `json:"defaultNotes"`
	TaxRate        *float64     `json:"taxRate"`
}

// Validate checks enum values and colours.
func Validate(t Template) error {
	return validation.Struct(t, "Template is invalid.")
}
