package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Weewpee/autotrade-bot/internal/models"
	"github.com/Weewpee/autotrade-bot/internal/modules/config"
	health "github.com/Weewpee/autotrade-bot/internal/modules/health/service"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/internal/notify"
	"github.com/Weewpee/autotrade-bot/pkg/logger"

	"github.com/bytedance/sonic"
)

// ValidationError — сигнал не прошёл структурную проверку; никаких
// побочных эффектов в этом случае нет.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid signal: %s (%s)", e.Field, e.Reason)
}

// PriceSource отдаёт последнюю рыночную цену для украшения карточки.
// Реализация может лениво подписываться на поток по Track.
type PriceSource interface {
	Track(symbol string)
	LastPrice(symbol string) (float64, bool)
}

// Service stages inbound signals and fans them out for approval.
type Service struct {
	cfg      *config.Config
	store    storage.Store
	notifier notify.Notifier
	prices   PriceSource
	health   *health.State

	now func() time.Time
}

func New(cfg *config.Config, store storage.Store, notifier notify.Notifier, prices PriceSource, state *health.State) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		prices:   prices,
		health:   state,
		now:      time.Now,
	}
}

// Ingest validates the raw alert body, stages it as pending and notifies the
// approver. Returns the generated pending id. The notification is
// best-effort: a failed send never rolls back the staged record.
func (s *Service) Ingest(ctx context.Context, body []byte) (string, error) {
	sig, err := ParseSignal(body)
	if err != nil {
		return "", err
	}

	p := &models.PendingSignal{
		ID:        SignalID(sig),
		Payload:   *sig,
		CreatedAt: s.now(),
	}
	if err := s.store.UpsertPending(ctx, p); err != nil {
		return "", fmt.Errorf("intake: stage pending: %w", err)
	}

	if s.prices != nil {
		s.prices.Track(sig.Symbol)
	}
	if s.health != nil {
		s.health.TouchSignal(p.CreatedAt)
	}

	text, actions := s.Card(p)
	s.notifier.Send(ctx, text, actions...)

	logger.Info("intake: staged signal id=%s %s %s @ %.4f", p.ID, sig.Direction, sig.Symbol, sig.Price)
	return p.ID, nil
}

// rawSignal: все поля указатели, чтобы отличать «нет поля» от нулевого значения.
type rawSignal struct {
	Direction   *string   `json:"signal"`
	Symbol      *string   `json:"symbol"`
	Time        *string   `json:"time"`
	Price       *float64  `json:"price"`
	StopLoss    *float64  `json:"sl"`
	TakeProfits []float64 `json:"tp"`
}

// ParseSignal normalizes an inbound payload into the canonical record.
func ParseSignal(body []byte) (*models.Signal, error) {
	var raw rawSignal
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, &ValidationError{Field: "body", Reason: err.Error()}
	}

	switch {
	case raw.Direction == nil || strings.TrimSpace(*raw.Direction) == "":
		return nil, &ValidationError{Field: "signal", Reason: "required"}
	case raw.Symbol == nil || strings.TrimSpace(*raw.Symbol) == "":
		return nil, &ValidationError{Field: "symbol", Reason: "required"}
	case raw.Time == nil:
		return nil, &ValidationError{Field: "time", Reason: "required"}
	case raw.Price == nil:
		return nil, &ValidationError{Field: "price", Reason: "required"}
	}

	return &models.Signal{
		Direction:   normalizeSide(*raw.Direction),
		Symbol:      strings.TrimSpace(*raw.Symbol),
		Time:        *raw.Time,
		Price:       *raw.Price,
		StopLoss:    raw.StopLoss,
		TakeProfits: raw.TakeProfits,
	}, nil
}

// normalizeSide приводит направление к нижнему регистру; long/short
// считаем синонимами buy/sell.
func normalizeSide(raw string) models.Side {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "long", "buy":
		return models.SideBuy
	case "short", "sell":
		return models.SideSell
	default:
		return models.Side(strings.ToLower(strings.TrimSpace(raw)))
	}
}
