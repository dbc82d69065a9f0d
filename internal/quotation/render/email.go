package render

import (
	"fmt"
	"net/url"
	"strings"

	profiledomain "github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	"github.com/dovepeak/quotemaster/internal/currency"
	quotationdomain "github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/dovepeak/quotemaster/internal/quotation/pricing"
)

const emailDateLayout = "1/2/2006"

// EmailMessage is a mail payload handed to the user's mail client.
type EmailMessage struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// uriComponentReplacer turns url.QueryEscape output into encodeURIComponent output.
var uriComponentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriComponentReplacer.Replace(url.QueryEscape(s))
}

// MailtoURI builds the mailto: link that opens a prefilled draft.
func (m EmailMessage) MailtoURI() string {
	return "mailto:" + m.Recipient +
		"?subject=" + encodeURIComponent(m.Subject) +
		"&body=" + encodeURIComponent(m.Body)
}

func (r *HTMLRenderer) RenderEmail(q quotationdomain.Quotation, p profiledomain.BusinessProfile, customMessage string) EmailMessage {
	q = pricing.Recompute(q)
	money := func(v float64) string { return currency.Format(v, q.Currency) }
	brand := r.branding()

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", q.ClientName)
	b.WriteString("Please find below your quotation details:\n\n")
	if msg := strings.TrimSpace(customMessage); msg != "" {
		b.WriteString(msg + "\n\n")
	}

	b.WriteString("QUOTATION DETAILS:\n")
	fmt.Fprintf(&b, "- Quotation Number: %s\n", q.QuotationNumber)
	fmt.Fprintf(&b, "- Issue Date: %s\n", formatDate(q.IssueDate, emailDateLayout))
	fmt.Fprintf(&b, "- Valid Until: %s\n", formatDate(q.ValidUntil, emailDateLayout))
	fmt.Fprintf(&b, "- Total Amount: %s\n\n", money(q.Total))

	b.WriteString("ITEMS:\n")
	for i, item := range q.Items {
		fmt.Fprintf(&b, "%d. %s - Qty: %s @ %s = %s\n",
			i+1, item.Description, formatNumber(item.Quantity), money(item.UnitPrice), money(item.Total))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Subtotal: %s\n", money(q.Subtotal))
	if q.DiscountRate > 0 {
		fmt.Fprintf(&b, "Discount (%s%%): -%s\n", formatNumber(q.DiscountRate), money(q.DiscountAmount))
	}
	fmt.Fprintf(&b, "Tax (%s%%): %s\n", formatNumber(q.TaxRate), money(q.TaxAmount))
	fmt.Fprintf(&b, "TOTAL: %s\n", money(q.Total))

	if q.Notes != "" {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", q.Notes)
	}
	if q.Terms != "" {
		fmt.Fprintf(&b, "\nTerms & Conditions:\n%s\n", q.Terms)
	}
	if p.HasBankDetails() {
		bank := p.BankDetails
		b.WriteString("\nBanking Details:\n")
		fmt.Fprintf(&b, "Bank: %s\n", bank.BankName)
		fmt.Fprintf(&b, "Account: %s\n", bank.AccountName)
		fmt.Fprintf(&b, "Account Number: %s\n", bank.AccountNumber)
		if bank.RoutingNumber != "" {
			fmt.Fprintf(&b, "Routing Number: %s\n", bank.RoutingNumber)
		}
		if bank.SwiftCode != "" {
			fmt.Fprintf(&b, "SWIFT Code: %s\n", bank.SwiftCode)
		}
	}

	fmt.Fprintf(&b, "\nBest regards,\n%s\n%s\n%s\n", p.CompanyName, p.CompanyPhone, p.CompanyEmail)
	if brand.EmailFooter != "" {
		fmt.Fprintf(&b, "\n---\n%s", brand.EmailFooter)
	}

	return EmailMessage{
		Recipient: q.ClientEmail,
		Subject:   fmt.Sprintf("Quotation %s from %s", q.QuotationNumber, p.CompanyName),
		Body:      b.String(),
	}
}
