package render

import (
	"github.com/dovepeak/quotemaster/internal/clock"
	"github.com/dovepeak/quotemaster/internal/config"
)

// Provide builds the renderer with branding read from the live document settings.
func Provide(clk clock.Clock, doc *config.DocumentHolder) Renderer {
	return NewRenderer(clk, func() Branding {
		s := doc.Get()
		return Branding{
			ProductName: s.ProductName,
			FooterLines: s.FooterLines,
			EmailFooter: s.EmailFooter,
		}
	})
}
