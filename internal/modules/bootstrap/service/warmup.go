package service

import (
	"context"

	intake "github.com/Weewpee/autotrade-bot/internal/modules/intake/service"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/internal/notify"
	"github.com/Weewpee/autotrade-bot/pkg/logger"
)

// Warmup повторно анонсирует pending-сигналы, пережившие рестарт: кнопки в
// старых сообщениях остаются рабочими, но свежая карточка надёжнее.
type Warmup struct {
	store    storage.Store
	intake   *intake.Service
	notifier notify.Notifier
}

func NewWarmup(store storage.Store, in *intake.Service, notifier notify.Notifier) *Warmup {
	return &Warmup{
		store:    store,
		intake:   in,
		notifier: notifier,
	}
}

func (w *Warmup) Announce(ctx context.Context) {
	pendings, err := w.store.ListPending(ctx)
	if err != nil {
		logger.Error("bootstrap: list pending: %v", err)
		return
	}
	if len(pendings) == 0 {
		return
	}

	logger.Info("bootstrap: %d pending signal(s) outstanding after restart", len(pendings))
	for _, p := range pendings {
		text, actions := w.intake.Card(p)
		w.notifier.Send(ctx, "🔁 Ожидает решения:\n\n"+text, actions...)
	}
}
