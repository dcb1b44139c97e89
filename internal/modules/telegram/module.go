package telegram

import (
	"context"

	"github.com/Weewpee/autotrade-bot/internal/modules/config"
	decision "github.com/Weewpee/autotrade-bot/internal/modules/decision/service"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/internal/modules/telegram/service"
	"github.com/Weewpee/autotrade-bot/internal/notify"
	"github.com/Weewpee/autotrade-bot/pkg/logger"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// Notifier: если TELEGRAM_* нет — используем stdout
		fx.Provide(
			func(cfg *config.Config, store storage.Store) (notify.Notifier, error) {
				if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
					logger.Info("telegram: token/chat_id not set, using stdout notifier")
					return notify.NewStdout(), nil
				}
				return service.NewTelegram(cfg, store)
			},
		),
		// Запуск цикла обновлений через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, ctx context.Context, n notify.Notifier, d *decision.Service) {
				tg, ok := n.(*service.Telegram)
				if !ok {
					return
				}
				tg.AttachDecider(d)
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						return tg.Start(ctx)
					},
					OnStop: func(context.Context) error {
						tg.Stop()
						return nil
					},
				})
			},
		),
	)
}
