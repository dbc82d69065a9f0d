package repository

import (
	"github.com/dovepeak/quotemaster/internal/quotation/domain"
	"github.com/dovepeak/quotemaster/internal/storage"
)

func Provide(g *storage.Gateway) domain.Repository {
	return storage.NewCollection[domain.Quotation](g, storage.Quotations)
}
