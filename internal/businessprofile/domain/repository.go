package domain

import "context"

// Repository is the persisted collection of BusinessProfile records in the active workspace.
type Repository interface {
	GetAll(ctx context.Context) ([]BusinessProfile, error)
	GetOne(ctx context.Context, id string) (BusinessProfile, bool, error)
	Save(ctx context.Context, record BusinessProfile) (BusinessProfile, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, items []BusinessProfile) error
	Update(ctx context.Context, fn func(items []BusinessProfile) ([]BusinessProfile, error)) error
}
