package bootstrap

import (
	"context"

	"github.com/Weewpee/autotrade-bot/internal/modules/bootstrap/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			service.NewWarmup,
		),
		fx.Invoke(
			func(lc fx.Lifecycle, ctx context.Context, w *service.Warmup) {
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						go w.Announce(ctx)
						return nil
					},
				})
			},
		),
	)
}
