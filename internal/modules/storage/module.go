package storage

import (
	"context"
	"fmt"

	"github.com/Weewpee/autotrade-bot/internal/modules/config"
	"github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/internal/modules/storage/service/file"
	"github.com/Weewpee/autotrade-bot/internal/modules/storage/service/pg"
	"github.com/Weewpee/autotrade-bot/pkg/db"
	"github.com/Weewpee/autotrade-bot/pkg/logger"

	"go.uber.org/fx"
)

// Module выбирает бэкенд стора: Postgres при заданном DSN, иначе файл.
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config, lc fx.Lifecycle) (service.Store, error) {
				if cfg.DB == "" {
					logger.Info("storage: using file store at %s", cfg.StorePath)
					return file.NewStore(cfg.StorePath), nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}
				if err = poolMaster.Ping(ctx); err != nil {
					return nil, err
				}

				mgr := db.NewPgTxManager(poolMaster)
				store := pg.New(mgr)
				if err = store.Bootstrap(ctx); err != nil {
					return nil, err
				}

				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						mgr.Close()
						return nil
					},
				})
				return store, nil
			},
		),
	)
}
