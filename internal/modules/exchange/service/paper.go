package service

import (
	"context"

	"github.com/Weewpee/autotrade-bot/internal/models"

	"github.com/bytedance/sonic"
)

type paperFill struct {
	Status string  `json:"status"`
	Symbol string  `json:"symbol"`
	Side   string  `json:"side"`
	Amount float64 `json:"amount"`
}

// Paper — симулятор: детерминированно возвращает параметры запроса, к бирже
// не ходит. Это дефолтный режим.
type Paper struct{}

func NewPaper() *Paper { return &Paper{} }

func (p *Paper) PlaceMarketOrder(_ context.Context, symbol string, side models.Side, qty float64) ([]byte, error) {
	return sonic.Marshal(paperFill{
		Status: "paper",
		Symbol: symbol,
		Side:   string(side),
		Amount: qty,
	})
}

func (p *Paper) Track(string) {}

func (p *Paper) LastPrice(string) (float64, bool) { return 0, false }
