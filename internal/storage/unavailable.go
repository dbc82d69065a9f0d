package storage

import "context"

// Unavailable is a Store without persistent backing. Reads degrade to empty
// collections through the Gateway; writes fail with StorageUnavailable.
type Unavailable struct{}

func (Unavailable) Get(context.Context, string) ([]byte, error) { return nil, ErrUnavailable }

func (Unavailable) Set(context.Context, string, []byte) error { return ErrUnavailable }

func (Unavailable) Delete(context.Context, string) error { return ErrUnavailable }
