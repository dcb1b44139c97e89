package main

import (
	"context"
	"log"

	"github.com/Weewpee/autotrade-bot/internal/modules/bootstrap"
	"github.com/Weewpee/autotrade-bot/internal/modules/config"
	"github.com/Weewpee/autotrade-bot/internal/modules/decision"
	"github.com/Weewpee/autotrade-bot/internal/modules/exchange"
	"github.com/Weewpee/autotrade-bot/internal/modules/health"
	"github.com/Weewpee/autotrade-bot/internal/modules/intake"
	"github.com/Weewpee/autotrade-bot/internal/modules/storage"
	"github.com/Weewpee/autotrade-bot/internal/modules/telegram"
	"github.com/Weewpee/autotrade-bot/internal/modules/webhook"
	"github.com/Weewpee/autotrade-bot/pkg/logger"
	"github.com/Weewpee/autotrade-bot/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName("autotrade-bot")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		storage.Module(),
		exchange.Module(),
		intake.Module(),
		decision.Module(),
		telegram.Module(),
		webhook.Module(),
		health.Module(),
		bootstrap.Module(),
		fx.Invoke(initTracing),
	)
	app.Run()
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.Jaeger.Host == "" {
		return nil
	}
	tracing.SetServiceName("autotrade-bot")
	_, closeTracer, err := tracing.InitTracer(tracing.Config{
		Host: cfg.Jaeger.Host,
		Port: cfg.Jaeger.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closeTracer()
			return nil
		},
	})
	return nil
}
