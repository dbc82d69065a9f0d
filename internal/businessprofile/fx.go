package businessprofile

import (
	"github.com/dovepeak/quotemaster/internal/businessprofile/repository"
	"github.com/dovepeak/quotemaster/internal/businessprofile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("businessprofile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
