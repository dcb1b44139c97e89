package service

import (
	"encoding/json"
	"errors"
	"net/http"

	decision "github.com/Weewpee/autotrade-bot/internal/modules/decision/service"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/pkg/logger"

	"github.com/opentracing/opentracing-go"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleBotUpdate — вебхук-режим бота, альтернатива long-polling. Всё, что
// не callback с нашим действием, подтверждаем как no-op.
func (s *Server) handleBotUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"detail": "method not allowed"})
		return
	}

	var update tgbot.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "bad update"})
		return
	}

	cb := update.CallbackQuery
	if cb == nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	d, ok := decision.ParseCallbackData(cb.Data)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	d.CallbackID = cb.ID

	span, ctx := opentracing.StartSpanFromContext(r.Context(), "decision.handle")
	defer span.Finish()

	if err := s.decisions.Handle(ctx, d); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": false})
			return
		}
		logger.Error("webhook: decision: %v", err)
		writeJSON(w, http.StatusOK, map[string]any{"ok": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
