package exchange

import (
	"context"

	"github.com/Weewpee/autotrade-bot/internal/modules/config"
	decision "github.com/Weewpee/autotrade-bot/internal/modules/decision/service"
	"github.com/Weewpee/autotrade-bot/internal/modules/exchange/service"
	intake "github.com/Weewpee/autotrade-bot/internal/modules/intake/service"
	"github.com/Weewpee/autotrade-bot/pkg/logger"

	"go.uber.org/fx"
)

// Module подставляет paper-шлюз либо живой клиент по конфигу.
func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			func(cfg *config.Config, lc fx.Lifecycle) (decision.Exchange, intake.PriceSource) {
				if cfg.Exchange.Paper {
					logger.Info("exchange: paper mode, orders are echoed")
					p := service.NewPaper()
					return p, p
				}

				c := service.NewClient(cfg)
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						c.Close()
						return nil
					},
				})
				return c, c
			},
		),
	)
}
