package quotation

import (
	"github.com/bwmarrin/snowflake"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/config"
	"github.com/dovepeak/quotemaster/internal/quotation/render"
	"github.com/dovepeak/quotemaster/internal/quotation/repository"
	"github.com/dovepeak/quotemaster/internal/quotation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quotation.service",
	fx.Provide(repository.Provide),
	fx.Provide(render.Provide),
	fx.Provide(provideLifecycle),
	fx.Provide(service.NewService),
)

func provideLifecycle(cfg config.Config, clk clock.Clock, node *snowflake.Node) *service.Lifecycle {
	return service.NewLifecycle(clk, node, cfg.QuotationNumberTemplate, cfg.QuotationValidityDays)
}
