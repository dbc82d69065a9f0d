package service

import (
	"crypto/rand"
	"slices"
	"strings"

	"github.com/bwmarrin/snowflake"
	profiledomain "github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/currency"
	"github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/dovepeak/quotemaster/internal/quotation/numbering"
	"github.com/dovepeak/quotemaster/internal/quotation/pricing"
	templatedomain "github.com/dovepeak/quotemaster/internal/quotetemplate/domain"
	"github.com/oklog/ulid/v2"
)

const (
	defaultValidityDays = 30
	defaultTaxRate      = 10
)

// Lifecycle holds the pure quotation transitions. Every transition returns a
// new value with derived totals recomputed; nothing is persisted here.
type Lifecycle struct {
	clock          clock.Clock
	node           *snowflake.Node
	numberTemplate string
	validityDays   int
}

func NewLifecycle(clk clock.Clock, node *snowflake.Node, numberTemplate string, validityDays int) *Lifecycle {
	if strings.TrimSpace(numberTemplate) == "" {
		numberTemplate = numbering.DefaultTemplate
	}
	if validityDays <= 0 {
		validityDays = defaultValidityDays
	}
	return &Lifecycle{
		clock:          clk,
		node:           node,
		numberTemplate: numberTemplate,
		validityDays:   validityDays,
	}
}

func (l *Lifecycle) newItemID() string {
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(l.clock.Now()), rand.Reader).String())
}

func (l *Lifecycle) newItem() domain.Item {
	return domain.Item{ID: l.newItemID(), Quantity: 1}
}

// CreateDraft builds an unsaved draft numbered after existing. The first
// template and the default (or first) profile seed its defaults.
func (l *Lifecycle) CreateDraft(existing []domain.Quotation, profiles []profiledomain.BusinessProfile, templates []templatedomain.Template) (domain.Quotation, error) {
	now := l.clock.Now()

	numbers := make([]string, 0, len(existing))
	for _, q := range existing {
		numbers = append(numbers, q.QuotationNumber)
	}
	number, err := numbering.Next(l.numberTemplate, now, numbers)
	if err != nil {
		return domain.Quotation{}, err
	}

	today := domain.DateOf(now)
	q := domain.Quotation{
		ID:              l.node.Generate().String(),
		QuotationNumber: number,
		IssueDate:       today,
		ValidUntil:      today.AddDays(l.validityDays),
		CreatedAt:       now,
		UpdatedAt:       now,
		Status:          domain.StatusDraft,
		Items:           []domain.Item{l.newItem()},
		TaxRate:         defaultTaxRate,
		Currency:        currency.DefaultCode,
	}

	profile, hasProfile := profiledomain.PickDefault(profiles)
	if hasProfile {
		q.BusinessProfileID = profile.ID
		q.Currency = profile.DefaultCurrency
	}
	if len(templates) > 0 {
		t := templates[0]
		q.TemplateID = t.ID
		q.TaxRate = t.TaxRate
		q.Notes = t.DefaultNotes
		q.Terms = t.DefaultTerms
	} else if hasProfile {
		q.TaxRate = profile.DefaultTaxRate
	}
	return pricing.Recompute(q), nil
}

// Prepare fills what a client may leave out of a save: the id, item ids, the
// number (allocated against existing), draft status, the default currency and
// the issue and validity dates. A quotation already in existing keeps its
// stored number, status and dates wherever q leaves them empty.
func (l *Lifecycle) Prepare(q domain.Quotation, existing []domain.Quotation) (domain.Quotation, error) {
	now := l.clock.Now()
	q = q.Clone()
	if strings.TrimSpace(q.ID) == "" {
		q.ID = l.node.Generate().String()
	} else if i := slices.IndexFunc(existing, func(e domain.Quotation) bool { return e.ID == q.ID }); i >= 0 {
		q = inheritStored(q, existing[i])
	}
	for i := range q.Items {
		if strings.TrimSpace(q.Items[i].ID) == "" {
			q.Items[i].ID = l.newItemID()
		}
	}
	if strings.TrimSpace(q.QuotationNumber) == "" {
		numbers := make([]string, 0, len(existing))
		for _, e := range existing {
			numbers = append(numbers, e.QuotationNumber)
		}
		number, err := numbering.Next(l.numberTemplate, now, numbers)
		if err != nil {
			return q, err
		}
		q.QuotationNumber = number
	}
	if q.Status == "" {
		q.Status = domain.StatusDraft
	}
	q.Currency = strings.ToUpper(strings.TrimSpace(q.Currency))
	if q.Currency == "" {
		q.Currency = currency.DefaultCode
	}
	if q.IssueDate.IsZero() {
		q.IssueDate = domain.DateOf(now)
	}
	if q.ValidUntil.IsZero() {
		q.ValidUntil = q.IssueDate.AddDays(l.validityDays)
	}
	q.ClientName = strings.TrimSpace(q.ClientName)
	q.ClientEmail = strings.TrimSpace(q.ClientEmail)
	return q, nil
}

// AddItem appends an empty line with quantity 1.
func (l *Lifecycle) AddItem(q domain.Quotation) domain.Quotation {
	q = q.Clone()
	q.Items = append(q.Items, l.newItem())
	return pricing.Recompute(q)
}

// UpdateItem applies patch to the line with itemID.
func (l *Lifecycle) UpdateItem(q domain.Quotation, itemID string, patch domain.ItemPatch) (domain.Quotation, error) {
	idx := q.FindItem(itemID)
	if idx < 0 {
		return q, domain.ErrItemNotFound
	}
	q = q.Clone()
	item := &q.Items[idx]
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Quantity != nil {
		item.Quantity = *patch.Quantity
	}
	if patch.UnitPrice != nil {
		item.UnitPrice = *patch.UnitPrice
	}
	return pricing.Recompute(q), nil
}

// RemoveItem drops the line with itemID. The last remaining line is kept.
func (l *Lifecycle) RemoveItem(q domain.Quotation, itemID string) (domain.Quotation, error) {
	idx := q.FindItem(itemID)
	if idx < 0 {
		return q, domain.ErrItemNotFound
	}
	if len(q.Items) <= 1 {
		return pricing.Recompute(q), nil
	}
	q = q.Clone()
	q.Items = append(q.Items[:idx], q.Items[idx+1:]...)
	return pricing.Recompute(q), nil
}

// ChangeTemplate selects t and overwrites tax rate, notes and terms with its
// defaults, whatever was typed before.
func (l *Lifecycle) ChangeTemplate(q domain.Quotation, t templatedomain.Template) domain.Quotation {
	q = q.Clone()
	q.TemplateID = t.ID
	q.TaxRate = t.TaxRate
	q.Terms = t.DefaultTerms
	q.Notes = t.DefaultNotes
	return pricing.Recompute(q)
}

// ChangeBusinessProfile selects p and overwrites currency and tax rate.
func (l *Lifecycle) ChangeBusinessProfile(q domain.Quotation, p profiledomain.BusinessProfile) domain.Quotation {
	q = q.Clone()
	q.BusinessProfileID = p.ID
	q.Currency = p.DefaultCurrency
	q.TaxRate = p.DefaultTaxRate
	return pricing.Recompute(q)
}

func (l *Lifecycle) MarkSent(q domain.Quotation) domain.Quotation {
	q = q.Clone()
	q.Status = domain.StatusSent
	q.UpdatedAt = l.clock.Now()
	return q
}

// Duplicate copies q under a fresh id and a "-COPY" number as a new draft.
// Item ids are kept.
func (l *Lifecycle) Duplicate(q domain.Quotation) domain.Quotation {
	now := l.clock.Now()
	dup := q.Clone()
	dup.ID = l.node.Generate().String()
	dup.QuotationNumber = numbering.Copy(q.QuotationNumber)
	dup.Status = domain.StatusDraft
	dup.CreatedAt = now
	dup.UpdatedAt = now
	return pricing.Recompute(dup)
}

func inheritStored(q, stored domain.Quotation) domain.Quotation {
	if strings.TrimSpace(q.QuotationNumber) == "" {
		q.QuotationNumber = stored.QuotationNumber
	}
	if q.Status == "" {
		q.Status = stored.Status
	}
	if q.IssueDate.IsZero() {
		q.IssueDate = stored.IssueDate
	}
	if q.ValidUntil.IsZero() {
		q.ValidUntil = stored.ValidUntil
	}
	return q
}
