package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Weewpee/autotrade-bot/internal/models"
	"github.com/Weewpee/autotrade-bot/internal/modules/config"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/internal/notify"
	"github.com/Weewpee/autotrade-bot/pkg/logger"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Decision — событие от одобряющего: approve:<id>:<side> либо reject:<id>.
type Decision struct {
	Action    Action
	PendingID string
	Side      models.Side
	// CallbackID — токен транспорта для ответа одобряющему, может быть пустым.
	CallbackID string
}

// Exchange places a market order and returns the raw execution detail.
type Exchange interface {
	PlaceMarketOrder(ctx context.Context, symbol string, side models.Side, qty float64) ([]byte, error)
}

// ExecutionError — биржа отказала или не уложилась в таймаут; pending
// остаётся, решение можно повторить.
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string { return "execution failed: " + e.Err.Error() }
func (e *ExecutionError) Unwrap() error { return e.Err }

// Service consumes pending signals exactly once: every id yields a single
// journal entry and at most a single exchange call, no matter how many
// times the approver taps the button.
type Service struct {
	cfg      *config.Config
	store    storage.Store
	exchange Exchange
	notifier notify.Notifier
	locks    *keyedLocks

	now func() time.Time
}

func New(cfg *config.Config, store storage.Store, exchange Exchange, notifier notify.Notifier) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		exchange: exchange,
		notifier: notifier,
		locks:    newKeyedLocks(),
		now:      time.Now,
	}
}

// Handle обрабатывает решение. Повторный вызов по уже решённому id —
// безопасный no-op: отвечаем одобряющему и ничего не мутируем.
func (s *Service) Handle(ctx context.Context, d Decision) error {
	unlock := s.locks.Lock(d.PendingID)
	defer unlock()

	p, err := s.store.GetPending(ctx, d.PendingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.notifier.Acknowledge(ctx, d.CallbackID, "Не найдено/уже выполнено.")
			return fmt.Errorf("decision %s: %w", d.PendingID, storage.ErrNotFound)
		}
		return fmt.Errorf("decision %s: lookup: %w", d.PendingID, err)
	}

	switch d.Action {
	case ActionApprove:
		return s.approve(ctx, d, p)
	case ActionReject:
		return s.reject(ctx, d, p)
	default:
		return fmt.Errorf("decision %s: unknown action %q", d.PendingID, d.Action)
	}
}

func (s *Service) approve(ctx context.Context, d Decision, p *models.PendingSignal) error {
	side := d.Side
	if side == models.SideNone {
		side = p.Payload.Direction
	}
	qty := s.cfg.DefaultQty

	execCtx, cancel := context.WithTimeout(ctx, s.cfg.ExecutionTimeout)
	defer cancel()

	detail, err := s.exchange.PlaceMarketOrder(execCtx, p.Payload.Symbol, side, qty)
	if err != nil {
		// pending не трогаем: решение можно повторить
		logger.Error("decision %s: exchange: %v", p.ID, err)
		s.notifier.Acknowledge(ctx, d.CallbackID, "Ошибка исполнения: "+err.Error())
		return &ExecutionError{Err: err}
	}

	entry := models.NewJournalEntry(p, s.now())
	entry.Quantity = qty
	entry.Outcome = models.OutcomeExecuted
	entry.ExecutionDetail = detail

	if err := s.finalize(ctx, d, entry); err != nil {
		return err
	}

	s.notifier.Acknowledge(ctx, d.CallbackID, "Исполнено.")
	s.notifier.Sendf(ctx, "✅ %s %s qty=%v\nID: <code>%s</code>",
		strings.ToUpper(string(side)), p.Payload.Symbol, qty, p.ID)
	logger.Info("decision %s: executed %s %s qty=%v", p.ID, side, p.Payload.Symbol, qty)
	return nil
}

func (s *Service) reject(ctx context.Context, d Decision, p *models.PendingSignal) error {
	entry := models.NewJournalEntry(p, s.now())
	entry.Quantity = 0
	entry.Outcome = models.OutcomeRejected

	if err := s.finalize(ctx, d, entry); err != nil {
		return err
	}

	s.notifier.Acknowledge(ctx, d.CallbackID, "Отменено.")
	s.notifier.Sendf(ctx, "🚫 Отклонено\nID: <code>%s</code>", p.ID)
	logger.Info("decision %s: rejected", p.ID)
	return nil
}

func (s *Service) finalize(ctx context.Context, d Decision, entry *models.JournalEntry) error {
	if err := s.store.Finalize(ctx, entry); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.notifier.Acknowledge(ctx, d.CallbackID, "Не найдено/уже выполнено.")
			return fmt.Errorf("decision %s: %w", entry.ID, storage.ErrNotFound)
		}
		return fmt.Errorf("decision %s: finalize: %w", entry.ID, err)
	}
	return nil
}

// ParseCallbackData разбирает строку действия "<approve|reject>:<id>[:<side>]".
func ParseCallbackData(data string) (Decision, bool) {
	parts := strings.Split(data, ":")
	switch {
	case len(parts) >= 2 && parts[0] == string(ActionApprove):
		d := Decision{Action: ActionApprove, PendingID: parts[1]}
		if len(parts) >= 3 {
			d.Side = models.Side(parts[2])
		}
		return d, d.PendingID != ""
	case len(parts) == 2 && parts[0] == string(ActionReject):
		return Decision{Action: ActionReject, PendingID: parts[1]}, parts[1] != ""
	default:
		return Decision{}, false
	}
}
