package intake

import (
	"github.com/Weewpee/autotrade-bot/internal/modules/intake/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("intake",
		fx.Provide(
			service.New,
		),
	)
}
