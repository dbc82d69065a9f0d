package domain

import "context"

type Service interface {
	NewDraft(ctx context.Context) (*Quotation, error)
	Save(ctx context.Context, q Quotation) (*Quotation, error)
	Get(ctx context.Context, id string) (*Quotation, error)
	List(ctx context.Context, req ListRequest) ([]Quotation, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status Status) (*Quotation, error)

	AddItem(ctx context.Context, id string) (*Quotation, error)
	UpdateItem(ctx context.Context, id, itemID string, patch ItemPatch) (*Quotation, error)
	RemoveItem(ctx context.Context, id, itemID string) (*Quotation, error)
	ChangeTemplate(ctx context.Context, id, templateID string) (*Quotation, error)
	ChangeBusinessProfile(ctx context.Context, id, profileID string) (*Quotation, error)
	Duplicate(ctx context.Context, id string) (*Quotation, error)

	RenderDocument(ctx context.Context, id string, print bool) (*Document, error)
	ComposeEmail(ctx context.Context, id, customMessage string) (*EmailHandoff, error)
}

// ItemPatch edits one line; nil fields keep their value.
type ItemPatch struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unitPrice"`
}

type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
	SortAmountHigh SortOrder = "amount-high"
	SortAmountLow  SortOrder = "amount-low"
	SortClient     SortOrder = "client"
)

// ListRequest filters and orders List. An empty Status matches every
// quotation; StatusExpired matches on the derived status.
type ListRequest struct {
	Search string    `form:"search"`
	Status Status    `form:"status"`
	Sort   SortOrder `form:"sort"`
}
