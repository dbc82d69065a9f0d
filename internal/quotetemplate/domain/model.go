// Package domain contains document templates: the visual styling applied when
// a quotation is rendered.
package domain

import "time"

type Style string

const (
	StyleModern    Style = "modern"
	StyleClassic   Style = "classic"
	StyleMinimal   Style = "minimal"
	StyleCorporate Style = "corporate"
	StyleCreative  Style = "creative"
)

type Layout string

const (
	LayoutStandard Layout = "standard"
	LayoutCompact  Layout = "compact"
	LayoutDetailed Layout = "detailed"
)

type HeaderStyle string

const (
	HeaderSimple  HeaderStyle = "simple"
	HeaderBanner  HeaderStyle = "banner"
	HeaderSidebar HeaderStyle = "sidebar"
)

// Template is a document styling profile.
type Template struct {
	ID             string      `json:"id" validate:"required"`
	Name           string      `json:"name" validate:"required"`
	Description    string      `json:"description"`
	Style          Style       `json:"style" validate:"oneof=modern classic minimal corporate creative"`
	PrimaryColor   string      `json:"primaryColor" validate:"hexcolor"`
	SecondaryColor string      `json:"secondaryColor" validate:"hexcolor"`
	FontFamily     string      `json:"fontFamily" validate:"required"`
	Layout         Layout      `json:"layout" validate:"oneof=standard compact detailed"`
	ShowLogo       bool        `json:"showLogo"`
	HeaderStyle    HeaderStyle `json:"headerStyle" validate:"oneof=simple banner sidebar"`
	DefaultTerms   string      `json:"defaultTerms"`
	DefaultNotes   string      `json:"defaultNotes"`
	TaxRate        float64     `json:"taxRate" validate:"gte=0"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

func (t Template) RecordID() string { return t.ID }

func (t Template) Touched(at time.Time) Template {
	t.UpdatedAt = at
	return t
}
