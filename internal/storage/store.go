// Package storage is the persistence gateway: a raw key-value Store, a
// workspace-scoped Gateway on top of it, and typed collections of records.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a Store when the key is absent.
	ErrNotFound = errors.New("storage: key not found")
	// ErrUnavailable is returned by a Store that has no persistent backing.
	ErrUnavailable = errors.New("storage: unavailable")
)

//go:generate mockgen -source=store.go -destination=mock_store_test.go -package=storage_test

// Store is a raw key-value store holding JSON documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Collection names.
const (
	Quotations       = "quotations"
	Templates        = "templates"
	BusinessProfiles = "business_profiles"
	Users            = "users"
	AuthSession      = "auth"
)

// PasswordKey names the record holding the password of userID.
func PasswordKey(userID string) string {
	return "password:" + userID
}
