package quotetemplate

import (
	"github.com/dovepeak/quotemaster/internal/quotetemplate/repository"
	"github.com/dovepeak/quotemaster/internal/quotetemplate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quotetemplate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
