package service

import (
	"fmt"
	"strings"

	"github.com/Weewpee/autotrade-bot/internal/models"
	"github.com/Weewpee/autotrade-bot/internal/notify"
)

// Card renders the HTML signal card and the approve/reject actions for it.
func (s *Service) Card(p *models.PendingSignal) (string, []notify.Action) {
	sig := p.Payload

	var b strings.Builder
	fmt.Fprintf(&b, "⚡️ <b>Сигнал</b>: %s\n", strings.ToUpper(string(sig.Direction)))
	fmt.Fprintf(&b, "🪙 <b>%s</b> @ <b>%.4f</b>\n", sig.Symbol, sig.Price)
	if sig.StopLoss != nil {
		fmt.Fprintf(&b, "🛡 SL: %.4f\n", *sig.StopLoss)
	}
	if len(sig.TakeProfits) > 0 {
		tps := make([]string, 0, len(sig.TakeProfits))
		for _, tp := range sig.TakeProfits {
			tps = append(tps, fmt.Sprintf("%.4f", tp))
		}
		fmt.Fprintf(&b, "🎯 TP: %s\n", strings.Join(tps, ", "))
	}
	if s.prices != nil {
		if last, ok := s.prices.LastPrice(sig.Symbol); ok {
			fmt.Fprintf(&b, "📈 Сейчас: %.4f\n", last)
		}
	}
	fmt.Fprintf(&b, "ID: <code>%s</code>", p.ID)

	side := approveSide(sig.Direction)
	actions := []notify.Action{
		{
			Label: "✅ " + strings.ToUpper(string(side)),
			Data:  fmt.Sprintf("approve:%s:%s", p.ID, side),
		},
		{
			Label: "❌ Пропустить",
			Data:  fmt.Sprintf("reject:%s", p.ID),
		},
	}
	return b.String(), actions
}

// approveSide: кнопка одобрения несёт сторону сделки; для экзотических
// направлений по умолчанию buy.
func approveSide(d models.Side) models.Side {
	if d == models.SideSell {
		return models.SideSell
	}
	return models.SideBuy
}
