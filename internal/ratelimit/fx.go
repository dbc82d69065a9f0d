package ratelimit

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sweepInterval = 5 * time.Minute

var Module = fx.Module("rate.limit",
	fx.Provide(NewLoginLimiter),
	fx.Invoke(registerSweeper),
)

func registerSweeper(lc fx.Lifecycle, limiter *LoginLimiter, log *zap.Logger) {
	log = log.Named("ratelimit")
	stop := make(chan struct{})
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := limiter.Sweep(); n > 0 {
							log.Debug("login limiter swept", zap.Int("removed", n))
						}
					case <-stop:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			select {
			case <-done:
			case <-ctx.Done():
			}
			return nil
		},
	})
}
