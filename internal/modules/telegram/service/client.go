package service

import (
	"context"
	"fmt"

	"github.com/Weewpee/autotrade-bot/internal/modules/config"
	decision "github.com/Weewpee/autotrade-bot/internal/modules/decision/service"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/internal/notify"
	"github.com/Weewpee/autotrade-bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Decider — обработчик решений, навешивается после сборки графа.
type Decider interface {
	Handle(ctx context.Context, d decision.Decision) error
}

// Telegram
type Telegram struct {
	bot     *tgbot.BotAPI
	chatID  int64
	store   storage.Store
	decider Decider
}

func NewTelegram(cfg *config.Config, store storage.Store) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}

	return &Telegram{
		bot:    b,
		chatID: cfg.Telegram.ChatID,
		store:  store,
	}, nil
}

func (t *Telegram) AttachDecider(d Decider) { t.decider = d }

// Send — карточка с кнопками действий. Ошибки канала только логируем.
func (t *Telegram) Send(ctx context.Context, text string, actions ...notify.Action) {
	msg := tgbot.NewMessage(t.chatID, text)
	msg.ParseMode = tgbot.ModeHTML

	if len(actions) > 0 {
		btns := make([]tgbot.InlineKeyboardButton, 0, len(actions))
		for _, a := range actions {
			btns = append(btns, tgbot.NewInlineKeyboardButtonData(a.Label, a.Data))
		}
		msg.ReplyMarkup = tgbot.NewInlineKeyboardMarkup(tgbot.NewInlineKeyboardRow(btns...))
	}

	if _, err := t.bot.Send(msg); err != nil {
		logger.Error("telegram: send: %v", err)
	}
}

func (t *Telegram) Sendf(ctx context.Context, format string, args ...any) {
	t.Send(ctx, fmt.Sprintf(format, args...))
}

// Acknowledge отвечает на callback, чтобы убрать "часики" на кнопке.
func (t *Telegram) Acknowledge(ctx context.Context, callbackID, text string) {
	if callbackID == "" {
		return
	}
	if _, err := t.bot.Request(tgbot.NewCallback(callbackID, text)); err != nil {
		logger.Error("telegram: answer callback: %v", err)
	}
}

func (t *Telegram) editReplyMarkupRemove(chatID int64, msgID int) error {
	rm := tgbot.InlineKeyboardMarkup{InlineKeyboard: [][]tgbot.InlineKeyboardButton{}}
	edit := tgbot.NewEditMessageReplyMarkup(chatID, msgID, rm)
	_, err := t.bot.Request(edit)
	return err
}

// Start: long-polling для messages + callback_query.
func (t *Telegram) Start(ctx context.Context) error {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message", "callback_query"}

	updates := t.bot.GetUpdatesChan(u)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd := <-updates:
				t.handleUpdate(ctx, upd)
			}
		}
	}()
	return nil
}

func (t *Telegram) Stop() { t.bot.StopReceivingUpdates() }
