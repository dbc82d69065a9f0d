package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dovepeak/quotemaster/internal/apperror"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/workspace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Change is emitted after every successful write or delete.
type Change struct {
	Workspace string
	Name      string
}

type GatewayParams struct {
	fx.In

	Store Store
	Clock clock.Clock
	Log   *zap.Logger
}

// Gateway scopes every key to the workspace found in the context. Read-modify-
// write cycles of one process are serialised through Exclusive; writers in
// other processes still race with last-write-wins.
type Gateway struct {
	store Store
	clock clock.Clock
	log   *zap.Logger

	mu sync.Mutex

	subsMu  sync.RWMutex
	subs    map[int]func(Change)
	nextSub int
}

func NewGateway(p GatewayParams) *Gateway {
	return &Gateway{
		store: p.Store,
		clock: p.Clock,
		log:   p.Log.Named("storage.gateway"),
		subs:  make(map[int]func(Change)),
	}
}

// Clock is the time source used to stamp updates.
func (g *Gateway) Clock() clock.Clock {
	return g.clock
}

func (g *Gateway) key(ctx context.Context, name string) string {
	return workspace.FromContext(ctx) + ":" + name
}

// Read decodes the record stored under name into dst. found is false when the
// record is absent or the store is unavailable.
func (g *Gateway) Read(ctx context.Context, name string, dst any) (found bool, err error) {
	raw, err := g.store.Get(ctx, g.key(ctx, name))
	switch {
	case errors.Is(err, ErrNotFound):
		return false, nil
	case errors.Is(err, ErrUnavailable):
		g.log.Debug("store unavailable, read degraded to empty", zap.String("name", name))
		return false, nil
	case err != nil:
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// Write encodes v and stores it under name.
func (g *Gateway) Write(ctx context.Context, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return g.WriteRaw(ctx, name, raw)
}

// WriteRaw stores an already encoded document under name.
func (g *Gateway) WriteRaw(ctx context.Context, name string, raw []byte) error {
	if err := g.store.Set(ctx, g.key(ctx, name), raw); err != nil {
		return g.writeErr(name, err)
	}
	g.notify(ctx, name)
	return nil
}

// Remove deletes the record stored under name. Removing an absent record is not an error.
func (g *Gateway) Remove(ctx context.Context, name string) error {
	err := g.store.Delete(ctx, g.key(ctx, name))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return g.writeErr(name, err)
	}
	g.notify(ctx, name)
	return nil
}

func (g *Gateway) writeErr(name string, err error) error {
	if errors.Is(err, ErrUnavailable) {
		return apperror.StorageUnavailable(err)
	}
	return fmt.Errorf("write %s: %w", name, err)
}

// Exclusive runs fn while holding the gateway write lock. fn must not call
// Exclusive again.
func (g *Gateway) Exclusive(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}

// Subscribe registers fn for change notifications and returns a function that
// removes it. fn runs synchronously on the writer's goroutine.
func (g *Gateway) Subscribe(fn func(Change)) (cancel func()) {
	g.subsMu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	g.subsMu.Unlock()

	return func() {
		g.subsMu.Lock()
		delete(g.subs, id)
		g.subsMu.Unlock()
	}
}

func (g *Gateway) notify(ctx context.Context, name string) {
	change := Change{Workspace: workspace.FromContext(ctx), Name: name}

	g.subsMu.RLock()
	handlers := make([]func(Change), 0, len(g.subs))
	for _, fn := range g.subs {
		handlers = append(handlers, fn)
	}
	g.subsMu.RUnlock()

	for _, fn := range handlers {
		fn(change)
	}
}
