package domain

import "context"

// Repository is the persisted collection of Quotation records in the active workspace.
type Repository interface {
	GetAll(ctx context.Context) ([]Quotation, error)
	GetOne(ctx context.Context, id string) (Quotation, bool, error)
	Save(ctx context.Context, record Quotation) (Quotation, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, items []Quotation) error
	Update(ctx context.Context, fn func(items []Quotation) ([]Quotation, error)) error
}
