package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/config"
	"github.com/dovepeak/quotemaster/internal/observability"
	"github.com/dovepeak/quotemaster/internal/server"
	"github.com/dovepeak/quotemaster/internal/storage/backends"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,
		backends.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
