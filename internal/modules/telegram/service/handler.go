package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	decision "github.com/Weewpee/autotrade-bot/internal/modules/decision/service"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbot.Update) {
	// 1) Inline-кнопки (CallbackQuery)
	if cb := update.CallbackQuery; cb != nil {
		t.HandleCallback(ctx, cb)
		return
	}

	// 2) Команды — только из нашего чата
	if msg := update.Message; msg != nil && msg.Chat != nil &&
		msg.Chat.ID == t.chatID && msg.IsCommand() {
		switch msg.Command() {
		case "start":
			t.handleStart(ctx)
		case "pending":
			go t.handlePending(ctx)
		case "journal":
			go t.handleJournal(ctx)
		default:
			// остальное игнорируем
		}
		return
	}
}

// HandleCallback разбирает approve:<id>:<side> / reject:<id> и передаёт
// решение обработчику. Всё прочее — no-op с пустым ответом.
func (t *Telegram) HandleCallback(ctx context.Context, cb *tgbot.CallbackQuery) {
	d, ok := decision.ParseCallbackData(cb.Data)
	if !ok || t.decider == nil {
		t.Acknowledge(ctx, cb.ID, "")
		return
	}
	d.CallbackID = cb.ID

	chatID := t.chatID
	msgID := 0
	if cb.Message != nil {
		msgID = cb.Message.MessageID
		if cb.Message.Chat != nil {
			chatID = cb.Message.Chat.ID
		}
	}

	// решение может ждать биржу — не блокируем цикл обновлений
	go func() {
		err := t.decider.Handle(ctx, d)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Error("telegram: decision: %v", err)
			return
		}
		if msgID != 0 {
			_ = t.editReplyMarkupRemove(chatID, msgID)
		}
	}()
}

func (t *Telegram) handleStart(ctx context.Context) {
	t.Send(ctx, "Привет! Пересылаю сигналы на одобрение.\n"+
		"/pending — сигналы в ожидании\n"+
		"/journal — последние решения")
}

func (t *Telegram) handlePending(ctx context.Context) {
	pendings, err := t.store.ListPending(ctx)
	if err != nil {
		t.Sendf(ctx, "❗️ Ошибка чтения pending: %v", err)
		return
	}
	if len(pendings) == 0 {
		t.Send(ctx, "📭 Нет сигналов в ожидании")
		return
	}

	var b strings.Builder
	b.WriteString("⏳ Сигналы в ожидании:\n")
	for _, p := range pendings {
		fmt.Fprintf(&b, "- <code>%s</code> %s %s @ %.4f\n",
			p.ID, strings.ToUpper(string(p.Payload.Direction)), p.Payload.Symbol, p.Payload.Price)
	}
	t.Send(ctx, b.String())
}

func (t *Telegram) handleJournal(ctx context.Context) {
	entries, err := t.store.ListJournal(ctx, 10)
	if err != nil {
		t.Sendf(ctx, "❗️ Ошибка чтения журнала: %v", err)
		return
	}
	if len(entries) == 0 {
		t.Send(ctx, "📭 Журнал пуст")
		return
	}

	var b strings.Builder
	b.WriteString("📒 Последние решения:\n")
	for _, e := range entries {
		mark := "🚫"
		if e.Outcome == "executed" {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s <code>%s</code> %s %s qty=%v\n",
			mark, e.ID, strings.ToUpper(string(e.Direction)), e.Symbol, e.Quantity)
	}
	t.Send(ctx, b.String())
}
