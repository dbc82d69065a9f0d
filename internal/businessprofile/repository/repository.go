package repository

import (
	"github.com/dovepeak/quotemaster/internal/businessprofile/domain"
	"github.com/dovepeak/quotemaster/internal/storage"
)

// Provide returns the profile collection, seeded with a single default profile.
func Provide(g *storage.Gateway) domain.Repository {
	return storage.NewCollection[domain.BusinessProfile](g, storage.BusinessProfiles).WithSeed(domain.Stock)
}
