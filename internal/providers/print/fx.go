package print

import "go.uber.org/fx"

var Module = fx.Module("providers.print",
	fx.Provide(func() Provider { return NewBrowser() }),
)
