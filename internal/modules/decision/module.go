package decision

import (
	"github.com/Weewpee/autotrade-bot/internal/modules/decision/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("decision",
		fx.Provide(
			service.New,
		),
	)
}
