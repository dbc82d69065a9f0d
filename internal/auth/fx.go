package auth

import (
	"context"

	"github.com/dovepeak/quotemaster/internal/auth/domain"
	"github.com/dovepeak/quotemaster/internal/auth/repository"
	"github.com/dovepeak/quotemaster/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.New),
	fx.Provide(service.New),
	fx.Provide(func(s *service.Service) domain.Service { return s }),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, s *service.Service) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			s.Close()
			return nil
		},
	})
}
