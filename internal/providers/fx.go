package providers

import (
	"github.com/dovepeak/quotemaster/internal/providers/email"
	"github.com/dovepeak/quotemaster/internal/providers/print"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	print.Module,
)
