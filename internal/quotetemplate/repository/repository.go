package repository

import (
	"github.com/dovepeak/quotemaster/internal/quotetemplate/domain"
	"github.com/dovepeak/quotemaster/internal/storage"
)

// Provide returns the template collection, seeded with the stock templates.
func Provide(g *storage.Gateway) domain.Repository {
	return storage.NewCollection[domain.Template](g, storage.Templates).WithSeed(domain.Stock)
}
