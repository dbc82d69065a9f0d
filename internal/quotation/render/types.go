package render

import (
	"html/template"

	profiledomain "github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	quotationdomain "github.com/dovepeak/quotemaster/internal/quotation/domain"
	templatedomain "github.com/dovepeak/quotemaster/internal/quotetemplate/domain"
)

// Document is a self-contained printable HTML document.
type Document = quotationdomain.Document

// Branding holds the product lines printed in document and email footers.
type Branding struct {
	ProductName string
	FooterLines []string
	EmailFooter string
}

// DefaultBranding is used when no document settings are configured.
func DefaultBranding() Branding {
	return Branding{
		ProductName: "Dovepeak Quotation Master",
		FooterLines: []string{"Generated by Dovepeak Quotation Master", "Thank you for your business!"},
		EmailFooter: "This quotation was generated using Dovepeak Quotation Master",
	}
}

type Renderer interface {
	// Render produces the document for a quotation with its template and sender.
	Render(q quotationdomain.Quotation, t templatedomain.Template, p profiledomain.BusinessProfile) (Document, error)
	// Print is Render plus a trigger that opens the print dialog once loaded.
	Print(q quotationdomain.Quotation, t templatedomain.Template, p profiledomain.BusinessProfile) (Document, error)
	// RenderEmail composes the plain-text mail payload.
	RenderEmail(q quotationdomain.Quotation, p profiledomain.BusinessProfile, customMessage string) EmailMessage
}

// documentView is the deterministic input of the HTML template.
type documentView struct {
	Print     bool
	Title     string
	Font      string
	Primary   string
	Secondary string
	Layout    string
	Header    string
	Logo      template.URL
	Company   companyView
	Quotation quotationView
	Items     []itemView
	Bank      *profiledomain.BankDetails
	Footer    []string
}

type companyView struct {
	Name    string
	Address []string
	Phone   string
	Email   string
	Website string
	TaxID   string
}

type quotationView struct {
	Number        string
	IssueDate     string
	ValidUntil    string
	Status        string
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	ClientAddress string
	Subtotal      string
	HasDiscount   bool
	DiscountRate  string
	Discount      string
	TaxRate       string
	Tax           string
	Total         string
	Notes         string
	Terms         string
}

type itemView struct {
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
}
