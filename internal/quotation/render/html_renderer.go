package render

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	profiledomain "github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/currency"
	quotationdomain "github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/dovepeak/quotemaster/internal/quotation/pricing"
	templatedomain "github.com/dovepeak/quotemaster/internal/quotetemplate/domain"
)

const quotationHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: '{{.Font}}', sans-serif; line-height: 1.6; color: #333; background: white; }
    .container { max-width: 800px; margin: 0 auto; padding: 40px 20px; }
    .header-banner { display: flex; justify-content: space-between; align-items: start; margin-bottom: 40px; border-bottom: 3px solid {{.Primary}}; padding-bottom: 20px; }
    .header-sidebar { display: grid; grid-template-columns: 1fr 300px; gap: 40px; margin-bottom: 40px; }
    .header-simple { text-align: center; margin-bottom: 40px; padding-bottom: 20px; border-bottom: 1px solid #e2e8f0; }
    .company-info h1 { color: {{.Primary}}; font-size: 28px; margin-bottom: 10px; }
    .company-info p { margin: 5px 0; color: #666; }
    .quotation-info { text-align: right; }
    .quotation-info h2 { color: {{.Primary}}; font-size: 24px; margin-bottom: 10px; }
    .logo { max-width: 150px; max-height: 80px; margin-bottom: 20px; }
    .client-section { margin: 40px 0; background: #f8fafc; padding: 20px; border-radius: 8px; }
    .client-section h3 { color: {{.Primary}}; margin-bottom: 15px; font-size: 18px; }
    .items-table { width: 100%; border-collapse: collapse; margin: 30px 0; }
    .items-table th, .items-table td { padding: 12px; text-align: left; border-bottom: 1px solid #e2e8f0; }
    .items-table th { background-color: {{.Primary}}; color: white; font-weight: 600; }
    .items-table tr:nth-child(even) { background-color: #f8fafc; }
    .totals { float: right; width: 300px; margin: 30px 0; }
    .totals table { width: 100%; border-collapse: collapse; }
    .totals td { padding: 8px 12px; border-bottom: 1px solid #e2e8f0; }
    .totals .total-row { background-color: {{.Primary}}; color: white; font-weight: bold; font-size: 18px; }
    .notes, .terms { clear: both; margin: 30px 0; padding: 20px; background: #f8fafc; border-radius: 8px; }
    .notes h4, .terms h4, .bank-details h4 { color: {{.Primary}}; margin-bottom: 10px; }
    .bank-details { margin-top: 30px; padding: 20px; background: #f8fafc; border-radius: 8px; border-left: 4px solid {{.Secondary}}; }
    .footer { margin-top: 50px; text-align: center; color: #666; font-size: 14px; border-top: 1px solid #e2e8f0; padding-top: 20px; }
    .status-badge { display: inline-block; padding: 6px 12px; border-radius: 20px; font-size: 12px; font-weight: 600; text-transform: uppercase; color: white; }
    .status-draft { background-color: #64748b; }
    .status-sent { background-color: #3B82F6; }
    .status-accepted { background-color: #10B981; }
    .status-rejected { background-color: #EF4444; }
    .status-expired { background-color: #F59E0B; }
    .compact-layout .container { padding: 20px; }
    .compact-layout .client-section { margin: 20px 0; padding: 15px; }
    @media print {
      body { print-color-adjust: exact; }
      .container { padding: 20px; }
    }
  </style>
  {{- if .Print}}
  <script>
    window.addEventListener('load', function () {
      setTimeout(function () { window.print(); }, 100);
    });
  </script>
  {{- end}}
</head>
<body class="{{.Layout}}-layout">
  <div class="container">
    <div class="header-{{.Header}}">
      <div class="company-info">
        {{- if .Logo}}
        <img src="{{.Logo}}" alt="Logo" class="logo" />
        {{- end}}
        <h1>{{.Company.Name}}</h1>
        <p>{{range $i, $line := .Company.Address}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
        <p>Phone: {{.Company.Phone}}</p>
        <p>Email: {{.Company.Email}}</p>
        {{- if .Company.Website}}
        <p>Website: {{.Company.Website}}</p>
        {{- end}}
        {{- if .Company.TaxID}}
        <p>Tax ID: {{.Company.TaxID}}</p>
        {{- end}}
      </div>
      <div class="quotation-info">
        <h2>QUOTATION</h2>
        <p><strong>Number:</strong> {{.Quotation.Number}}</p>
        <p><strong>Date:</strong> {{.Quotation.IssueDate}}</p>
        <p><strong>Valid Until:</strong> {{.Quotation.ValidUntil}}</p>
        <p><strong>Status:</strong> <span class="status-badge status-{{.Quotation.Status}}">{{.Quotation.Status}}</span></p>
      </div>
    </div>

    <div class="client-section">
      <h3>Bill To:</h3>
      <p><strong>{{.Quotation.ClientName}}</strong></p>
      <p>{{.Quotation.ClientEmail}}</p>
      {{- if .Quotation.ClientPhone}}
      <p>{{.Quotation.ClientPhone}}</p>
      {{- end}}
      {{- if .Quotation.ClientAddress}}
      <p>{{.Quotation.ClientAddress}}</p>
      {{- end}}
    </div>

    <table class="items-table">
      <thead>
        <tr>
          <th>Description</th>
          <th>Quantity</th>
          <th>Unit Price</th>
          <th>Total</th>
        </tr>
      </thead>
      <tbody>
        {{- range .Items}}
        <tr>
          <td>{{.Description}}</td>
          <td>{{.Quantity}}</td>
          <td>{{.UnitPrice}}</td>
          <td>{{.Total}}</td>
        </tr>
        {{- end}}
      </tbody>
    </table>

    <div class="totals">
      <table>
        <tr>
          <td>Subtotal:</td>
          <td style="text-align: right;">{{.Quotation.Subtotal}}</td>
        </tr>
        {{- if .Quotation.HasDiscount}}
        <tr class="discount-row">
          <td>Discount ({{.Quotation.DiscountRate}}%):</td>
          <td style="text-align: right;">-{{.Quotation.Discount}}</td>
        </tr>
        {{- end}}
        <tr>
          <td>Tax ({{.Quotation.TaxRate}}%):</td>
          <td style="text-align: right;">{{.Quotation.Tax}}</td>
        </tr>
        <tr class="total-row">
          <td>TOTAL:</td>
          <td style="text-align: right;">{{.Quotation.Total}}</td>
        </tr>
      </table>
    </div>
    {{- if .Quotation.Notes}}

    <div class="notes">
      <h4>Notes:</h4>
      <p>{{.Quotation.Notes}}</p>
    </div>
    {{- end}}
    {{- if .Quotation.Terms}}

    <div class="terms">
      <h4>Terms &amp; Conditions:</h4>
      <p>{{.Quotation.Terms}}</p>
    </div>
    {{- end}}
    {{- with .Bank}}

    <div class="bank-details">
      <h4>Banking Details:</h4>
      <p><strong>Bank:</strong> {{.BankName}}</p>
      <p><strong>Account Name:</strong> {{.AccountName}}</p>
      <p><strong>Account Number:</strong> {{.AccountNumber}}</p>
      {{- if .RoutingNumber}}
      <p><strong>Routing Number:</strong> {{.RoutingNumber}}</p>
      {{- end}}
      {{- if .SwiftCode}}
      <p><strong>SWIFT Code:</strong> {{.SwiftCode}}</p>
      {{- end}}
    </div>
    {{- end}}

    <div class="footer">
      {{- range .Footer}}
      <p>{{.}}</p>
      {{- end}}
    </div>
  </div>
</body>
</html>
`

const (
	documentDateLayout = "January 2, 2006"
	defaultColor       = "#3B82F6"
	defaultFont        = "Inter"
)

var (
	hexColorPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	fontFamilyFilter = regexp.MustCompile(`^[A-Za-z0-9 \-]+$`)
)

type HTMLRenderer struct {
	tpl      *template.Template
	clock    clock.Clock
	branding func() Branding
}

// NewRenderer builds the HTML/email renderer. branding may be nil.
func NewRenderer(clk clock.Clock, branding func() Branding) *HTMLRenderer {
	if branding == nil {
		branding = DefaultBranding
	}
	return &HTMLRenderer{
		tpl:      template.Must(template.New("quotation").Parse(quotationHTMLTemplate)),
		clock:    clk,
		branding: branding,
	}
}

func (r *HTMLRenderer) Render(q quotationdomain.Quotation, t templatedomain.Template, p profiledomain.BusinessProfile) (Document, error) {
	return r.render(q, t, p, false)
}

func (r *HTMLRenderer) Print(q quotationdomain.Quotation, t templatedomain.Template, p profiledomain.BusinessProfile) (Document, error) {
	return r.render(q, t, p, true)
}

func (r *HTMLRenderer) render(q quotationdomain.Quotation, t templatedomain.Template, p profiledomain.BusinessProfile, print bool) (Document, error) {
	q = pricing.Recompute(q)
	view := r.buildView(q, t, p)
	view.Print = print

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return Document{}, fmt.Errorf("render quotation %s: %w", q.QuotationNumber, err)
	}
	return Document{Title: view.Title, Filename: q.QuotationNumber + ".html", HTML: buf.String()}, nil
}

func (r *HTMLRenderer) buildView(q quotationdomain.Quotation, t templatedomain.Template, p profiledomain.BusinessProfile) documentView {
	money := func(v float64) string { return currency.Format(v, q.Currency) }

	view := documentView{
		Title:     "Quotation " + q.QuotationNumber,
		Font:      sanitizeFont(t.FontFamily),
		Primary:   sanitizeColor(t.PrimaryColor),
		Secondary: sanitizeColor(t.SecondaryColor),
		Layout:    string(layoutOrDefault(t.Layout)),
		Header:    string(headerOrDefault(t.HeaderStyle)),
		Company: companyView{
			Name:    p.CompanyName,
			Address: strings.Split(p.CompanyAddress, "\n"),
			Phone:   p.CompanyPhone,
			Email:   p.CompanyEmail,
			Website: p.CompanyWebsite,
			TaxID:   p.TaxID,
		},
		Quotation: quotationView{
			Number:        q.QuotationNumber,
			IssueDate:     formatDate(q.IssueDate, documentDateLayout),
			ValidUntil:    formatDate(q.ValidUntil, documentDateLayout),
			Status:        string(quotationdomain.EffectiveStatus(q, r.clock.Now())),
			ClientName:    q.ClientName,
			ClientEmail:   q.ClientEmail,
			ClientPhone:   q.ClientPhone,
			ClientAddress: q.ClientAddress,
			Subtotal:      money(q.Subtotal),
			HasDiscount:   q.DiscountRate > 0,
			DiscountRate:  formatNumber(q.DiscountRate),
			Discount:      money(q.DiscountAmount),
			TaxRate:       formatNumber(q.TaxRate),
			Tax:           money(q.TaxAmount),
			Total:         money(q.Total),
			Notes:         q.Notes,
			Terms:         q.Terms,
		},
		Footer: r.branding().FooterLines,
	}

	if t.ShowLogo {
		if logo, ok := safeLogoURL(p.CompanyLogo); ok {
			view.Logo = logo
		}
	}

	view.Items = make([]itemView, 0, len(q.Items))
	for _, item := range q.Items {
		view.Items = append(view.Items, itemView{
			Description: item.Description,
			Quantity:    formatNumber(item.Quantity),
			UnitPrice:   money(item.UnitPrice),
			Total:       money(item.Total),
		})
	}

	if t.Layout == templatedomain.LayoutDetailed && p.HasBankDetails() {
		bank := *p.BankDetails
		view.Bank = &bank
	}
	return view
}

func formatDate(d quotationdomain.Date, layout string) string {
	if d.IsZero() {
		return "-"
	}
	return d.Time.UTC().Format(layout)
}

// formatNumber prints the shortest decimal form (3, 2.5, 7.25).
func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func layoutOrDefault(l templatedomain.Layout) templatedomain.Layout {
	switch l {
	case templatedomain.LayoutStandard, templatedomain.LayoutCompact, templatedomain.LayoutDetailed:
		return l
	}
	return templatedomain.LayoutStandard
}

func headerOrDefault(h templatedomain.HeaderStyle) templatedomain.HeaderStyle {
	switch h {
	case templatedomain.HeaderSimple, templatedomain.HeaderBanner, templatedomain.HeaderSidebar:
		return h
	}
	return templatedomain.HeaderSimple
}

// safeLogoURL accepts inline images and http(s) links only.
func safeLogoURL(value string) (template.URL, bool) {
	trimmed := strings.TrimSpace(value)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "data:image/") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return template.URL(trimmed), true
	}
	return "", false
}

func sanitizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return defaultColor
}

func sanitizeFont(value string) string {
	trimmed := strings.TrimSpace(value)
	if fontFamilyFilter.MatchString(trimmed) {
		return trimmed
	}
	return defaultFont
}
