package storage

import (
	"context"
	"errors"
	"time"

	"github.com/dovepeak/quotemaster/internal/apperror"
)

// Record is a value stored in a Collection.
type Record[T any] interface {
	RecordID() string
	// Touched returns a copy of the record with its update time set to at.
	Touched(at time.Time) T
}

// Collection is an ordered list of records persisted as one JSON array.
type Collection[T Record[T]] struct {
	g    *Gateway
	name string
	seed func(now time.Time) []T
}

func NewCollection[T Record[T]](g *Gateway, name string) *Collection[T] {
	return &Collection[T]{g: g, name: name}
}

// WithSeed makes GetAll write and return seed's records when the collection
// has never been stored.
func (c *Collection[T]) WithSeed(seed func(now time.Time) []T) *Collection[T] {
	c.seed = seed
	return c
}

func (c *Collection[T]) Name() string {
	return c.name
}

// GetAll returns every record in stored order; absent collections are empty
// unless seeded.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	items, found, err := c.load(ctx)
	if err != nil || found || c.seed == nil {
		return items, err
	}

	err = c.g.Exclusive(func() error {
		items, found, err = c.load(ctx)
		if err != nil || found {
			return err
		}
		items = c.seed(c.g.clock.Now())
		return c.g.Write(ctx, c.name, items)
	})
	if errors.Is(err, apperror.ErrStorageUnavailable) {
		return []T{}, nil
	}
	return items, err
}

func (c *Collection[T]) load(ctx context.Context) ([]T, bool, error) {
	var items []T
	found, err := c.g.Read(ctx, c.name, &items)
	if err != nil {
		return nil, false, err
	}
	if items == nil {
		items = []T{}
	}
	return items, found, nil
}

// GetOne returns the record with id; ok is false when absent.
func (c *Collection[T]) GetOne(ctx context.Context, id string) (item T, ok bool, err error) {
	items, err := c.GetAll(ctx)
	if err != nil {
		return item, false, err
	}
	for _, it := range items {
		if it.RecordID() == id {
			return it, true, nil
		}
	}
	return item, false, nil
}

// Save inserts record when its id is new, else replaces the stored record
// and refreshes its update time. The stored value is returned.
func (c *Collection[T]) Save(ctx context.Context, record T) (T, error) {
	var saved T
	err := c.Update(ctx, func(items []T) ([]T, error) {
		items, saved = upsert(items, record, c.g.clock.Now())
		return items, nil
	})
	return saved, err
}

func upsert[T Record[T]](items []T, record T, now time.Time) ([]T, T) {
	for i := range items {
		if items[i].RecordID() == record.RecordID() {
			items[i] = record.Touched(now)
			return items, items[i]
		}
	}
	return append(items, record), record
}

// Delete removes the record with id. Deleting an absent id is a no-op write.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.Update(ctx, func(items []T) ([]T, error) {
		out := items[:0]
		for _, it := range items {
			if it.RecordID() != id {
				out = append(out, it)
			}
		}
		return out, nil
	})
}

// ReplaceAll overwrites the whole collection.
func (c *Collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.g.Exclusive(func() error {
		return c.g.Write(ctx, c.name, items)
	})
}

// Update runs a read-modify-write cycle under the gateway lock. When fn fails
// nothing is written.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	return c.g.Exclusive(func() error {
		items, found, err := c.load(ctx)
		if err != nil {
			return err
		}
		if !found && c.seed != nil {
			items = c.seed(c.g.clock.Now())
		}
		next, err := fn(items)
		if err != nil {
			return err
		}
		if next == nil {
			next = []T{}
		}
		return c.g.Write(ctx, c.name, next)
	})
}
