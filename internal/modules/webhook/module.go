package webhook

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Weewpee/autotrade-bot/internal/modules/config"
	"github.com/Weewpee/autotrade-bot/internal/modules/webhook/service"
	"github.com/Weewpee/autotrade-bot/pkg/logger"

	"go.uber.org/fx"
)

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, srv *service.Server) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.PublicPort)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			logger.Info("webhook: listening on %s", addr)
			go func() { _ = httpSrv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpSrv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("webhook",
		fx.Provide(
			service.NewServer,
		),
		fx.Invoke(RunHTTP),
	)
}
