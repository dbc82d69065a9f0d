package domain

import "time"

const (
	standardTerms = "Payment is due within 30 days of acceptance. All prices are subject to change without notice."
	standardNotes = "Thank you for considering our services. We look forward to working with you."
)

// Stock returns the templates written into a workspace that has none yet.
func Stock(now time.Time) []Template {
	stock := []Template{
		{
			ID:             "modern-template",
			Name:           "Modern Professional",
			Description:    "Clean, modern design with blue accents",
			Style:          StyleModern,
			PrimaryColor:   "#3B82F6",
			SecondaryColor: "#1E40AF",
			FontFamily:     "Inter",
			Layout:         LayoutStandard,
			ShowLogo:       true,
			HeaderStyle:    HeaderBanner,
			DefaultTerms:   standardTerms,
			DefaultNotes:   standardNotes,
			TaxRate:        10,
		},
		{
			ID:             "classic-template",
			Name:           "Classic Business",
			Description:    "Traditional business template with elegant styling",
			Style:          StyleClassic,
			PrimaryColor:   "#1F2937",
			SecondaryColor: "#374151",
			FontFamily:     "Georgia",
			Layout:         LayoutStandard,
			ShowLogo:       true,
			HeaderStyle:    HeaderSimple,
			DefaultTerms:   standardTerms,
			DefaultNotes:   standardNotes,
			TaxRate:        10,
		},
		{
			ID:             "minimal-template",
			Name:           "Minimal Clean",
			Description:    "Minimalist design focusing on content",
			Style:          StyleMinimal,
			PrimaryColor:   "#6B7280",
			SecondaryColor: "#9CA3AF",
			FontFamily:     "Arial",
			Layout:         LayoutCompact,
			ShowLogo:       false,
			HeaderStyle:    HeaderSimple,
			DefaultTerms:   "Payment is due within 30 days of acceptance.",
			DefaultNotes:   "Thank you for your business.",
			TaxRate:        10,
		},
		{
			ID:             "corporate-template",
			Name:           "Corporate Executive",
			Description:    "Professional corporate design with detailed layout",
			Style:          StyleCorporate,
			PrimaryColor:   "#059669",
			SecondaryColor: "#047857",
			FontFamily:     "Arial",
			Layout:         LayoutDetailed,
			ShowLogo:       true,
			HeaderStyle:    HeaderSidebar,
			DefaultTerms:   standardTerms + " Late payments may incur additional charges.",
			DefaultNotes:   "Thank you for considering our services. We look forward to a successful partnership.",
			TaxRate:        10,
		},
		{
			ID:             "creative-template",
			Name:           "Creative Studio",
			Description:    "Modern creative template with vibrant colors",
			Style:          StyleCreative,
			PrimaryColor:   "#7C3AED",
			SecondaryColor: "#5B21B6",
			FontFamily:     "Inter",
			Layout:         LayoutStandard,
			ShowLogo:       true,
			HeaderStyle:    HeaderBanner,
			DefaultTerms:   standardTerms,
			DefaultNotes:   "Thank you for choosing us for your creative needs. We look forward to bringing your vision to life.",
			TaxRate:        10,
		},
	}
	for i := range stock {
		stock[i].CreatedAt = now
		stock[i].UpdatedAt = now
	}
	return stock
}
