// Package domain contains the quotation aggregate and its derived-status rules.
package domain

import (
	"time"
)

// Status is the stored lifecycle state of a quotation.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	// StatusExpired is derived at read time and never stored by a transition.
	StatusExpired Status = "expired"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Item is a single quotation line.
type Item struct {
	ID          string  `json:"id" validate:"required"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	Total       float64 `json:"total"`
}

// Quotation is the quotation aggregate as persisted in a workspace.
type Quotation struct {
	ID                string    `json:"id" validate:"required"`
	QuotationNumber   string    `json:"quotationNumber" validate:"required"`
	ClientName        string    `json:"clientName" validate:"required"`
	ClientEmail       string    `json:"clientEmail" validate:"required,email"`
	ClientPhone       string    `json:"clientPhone,omitempty"`
	ClientAddress     string    `json:"clientAddress,omitempty"`
	TemplateID        string    `json:"templateId" validate:"required"`
	BusinessProfileID string    `json:"businessProfileId" validate:"required"`
	IssueDate         Date      `json:"issueDate"`
	ValidUntil        Date      `json:"validUntil"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Status            Status    `json:"status" validate:"required,oneof=draft sent accepted rejected expired"`
	Items             []Item    `json:"items" validate:"min=1,dive"`
	Subtotal          float64   `json:"subtotal"`
	TaxRate           float64   `json:"taxRate" validate:"gte=0"`
	TaxAmount         float64   `json:"taxAmount"`
	DiscountRate      float64   `json:"discountRate" validate:"gte=0,lte=100"`
	DiscountAmount    float64   `json:"discountAmount"`
	Total             float64   `json:"total"`
	Currency          string    `json:"currency" validate:"required,len=3"`
	Notes             string    `json:"notes,omitempty"`
	Terms             string    `json:"terms,omitempty"`
}

// RecordID identifies the quotation inside its collection.
func (q Quotation) RecordID() string { return q.ID }

// Touched returns a copy stamped with at as its update time.
func (q Quotation) Touched(at time.Time) Quotation {
	q.UpdatedAt = at
	return q
}

// Clone returns a deep copy; the item slice is not shared.
func (q Quotation) Clone() Quotation {
	out := q
	out.Items = append([]Item(nil), q.Items...)
	return out
}

// FindItem returns the index of the item with id, or -1.
func (q Quotation) FindItem(id string) int {
	for i := range q.Items {
		if q.Items[i].ID == id {
			return i
		}
	}
	return -1
}
