package domain

import "context"

// Repository is the persisted collection of Template records in the active workspace.
type Repository interface {
	GetAll(ctx context.Context) ([]Template, error)
	GetOne(ctx context.Context, id string) (Template, bool, error)
	Save(ctx context.Context, record Template) (Template, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, items []Template) error
	Update(ctx context.Context, fn func(items []Template) ([]Template, error)) error
}
