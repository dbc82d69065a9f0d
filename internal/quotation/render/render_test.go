package render

import (
	"strings"
	"testing"
	"time"

	profiledomain "github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	"github.com/dovepeak/quotemaster/internal/clock"
	quotationdomain "github.com/dovepeak/quotemaster/internal/quotation/domain"
	templatedomain "github.com/dovepeak/quotemaster/internal/quotetemplate/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func fixtures() (quotationdomain.Quotation, templatedomain.Template, profiledomain.BusinessProfile) {
	q := quotationdomain.Quotation{
		ID:                "1",
		QuotationNumber:   "QUO-2406-001",
		ClientName:        "Jane Buyer",
		ClientEmail:       "jane@client.test",
		ClientAddress:     "1 Client Road",
		TemplateID:        "modern-template",
		BusinessProfileID: "default-profile",
		IssueDate:         quotationdomain.NewDate(2024, time.June, 5),
		ValidUntil:        quotationdomain.NewDate(2024, time.July, 5),
		Status:            quotationdomain.StatusDraft,
		Items: []quotationdomain.Item{
			{ID: "a", Description: "Design work", Quantity: 3, UnitPrice: 10},
			{ID: "b", Description: "Hosting", Quantity: 1.5, UnitPrice: 20},
		},
		TaxRate:  10,
		Currency: "USD",
		Notes:    "Thanks for asking",
		Terms:    "Net 30",
	}
	tmpl := templatedomain.Stock(now)[0]
	profile := profiledomain.Stock(now)[0]
	return q, tmpl, profile
}

func newRenderer() *HTMLRenderer {
	return NewRenderer(clock.NewFakeClock(now), nil)
}

func TestRenderSectionsInOrder(t *testing.T) {
	q, tmpl, profile := fixtures()

	doc, err := newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.Equal(t, "Quotation QUO-2406-001", doc.Title)

	html := doc.HTML
	markers := []string{
		`class="header-banner"`,
		"Your Company Name",
		"Bill To:",
		"Jane Buyer",
		`class="items-table"`,
		"Design work",
		"Subtotal:",
		"Tax (10%):",
		"TOTAL:",
		"Notes:",
		"Terms &amp; Conditions:",
		"Generated by Dovepeak Quotation Master",
		"Thank you for your business!",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(html, m)
		require.GreaterOrEqual(t, idx, 0, "missing %q", m)
		assert.Greater(t, idx, last, "%q out of order", m)
		last = idx
	}
}

func TestRenderUsesRecomputedTotalsAndCurrency(t *testing.T) {
	q, tmpl, profile := fixtures()
	q.Currency = "GBP"

	doc, err := newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)

	assert.Contains(t, doc.HTML, "£30.00")
	assert.Contains(t, doc.HTML, "£60.00")
	assert.Contains(t, doc.HTML, "£6.00")
	assert.Contains(t, doc.HTML, "£66.00")
	assert.NotContains(t, doc.HTML, "$")
	assert.Contains(t, doc.HTML, "<td>1.5</td>")
}

func TestRenderDiscountLineOnlyWhenRatePositive(t *testing.T) {
	q, tmpl, profile := fixtures()

	doc, err := newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.NotContains(t, doc.HTML, "Discount (")

	q.DiscountRate = 5
	doc, err = newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "Discount (5%):")
	assert.Contains(t, doc.HTML, "-$3.00")
}

func TestRenderBankDetailsOnlyForDetailedLayout(t *testing.T) {
	q, tmpl, profile := fixtures()

	doc, err := newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.NotContains(t, doc.HTML, "Banking Details:")

	tmpl.Layout = templatedomain.LayoutDetailed
	doc, err = newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "Banking Details:")
	assert.Contains(t, doc.HTML, "SWIFT Code:")
	assert.Contains(t, doc.HTML, `class="detailed-layout"`)

	profile.BankDetails = nil
	doc, err = newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.NotContains(t, doc.HTML, "Banking Details:")
}

func TestRenderLogo(t *testing.T) {
	q, tmpl, profile := fixtures()
	profile.CompanyLogo = "data:image/png;base64,iVBORw0KGgo="

	doc, err := newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, `<img src="data:image/png;base64,iVBORw0KGgo="`)

	tmpl.ShowLogo = false
	doc, err = newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.NotContains(t, doc.HTML, "<img")

	tmpl.ShowLogo = true
	profile.CompanyLogo = "javascript:alert(1)"
	doc, err = newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.NotContains(t, doc.HTML, "<img")
}

func TestRenderShowsDerivedExpiredStatus(t *testing.T) {
	q, tmpl, profile := fixtures()
	q.ValidUntil = quotationdomain.NewDate(2024, time.June, 1)

	doc, err := newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, `status-badge status-expired`)

	q.Status = quotationdomain.StatusAccepted
	doc, err = newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, `status-badge status-accepted`)
}

func TestRenderSanitizesStyling(t *testing.T) {
	q, tmpl, profile := fixtures()
	tmpl.PrimaryColor = "red; background:url(x)"
	tmpl.FontFamily = "Inter'; }"
	tmpl.HeaderStyle = "floating"

	doc, err := newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.NotContains(t, doc.HTML, "url(x)")
	assert.Contains(t, doc.HTML, `class="header-simple"`)
	assert.Contains(t, doc.HTML, "color: #3B82F6")
}

func TestPrintAddsTrigger(t *testing.T) {
	q, tmpl, profile := fixtures()

	doc, err := newRenderer().Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.NotContains(t, doc.HTML, "window.print()")

	doc, err = newRenderer().Print(q, tmpl, profile)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "window.print()")
	assert.Contains(t, doc.HTML, "100")
}

func TestRenderFooterFromBranding(t *testing.T) {
	q, tmpl, profile := fixtures()
	r := NewRenderer(clock.NewFakeClock(now), func() Branding {
		return Branding{ProductName: "Acme", FooterLines: []string{"Made by Acme"}}
	})

	doc, err := r.Render(q, tmpl, profile)
	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "<p>Made by Acme</p>")
	assert.NotContains(t, doc.HTML, "Dovepeak")
}
