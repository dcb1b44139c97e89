package service

import (
	"errors"
	"io"
	"net/http"

	intake "github.com/Weewpee/autotrade-bot/internal/modules/intake/service"
	"github.com/Weewpee/autotrade-bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

const secretHeader = "X-TV-Secret"

// максимум, который готовы прочитать из тела алерта
const maxSignalBody = 1 << 20

// handleSignal — вход для алертов. Плохой секрет и кривой payload
// отваливаются до любых побочных эффектов.
func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"detail": "method not allowed"})
		return
	}

	if s.cfg.Webhook.Secret != "" && r.Header.Get(secretHeader) != s.cfg.Webhook.Secret {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Unauthorized"})
		return
	}

	span, ctx := opentracing.StartSpanFromContext(r.Context(), "intake.ingest")
	defer span.Finish()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSignalBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "bad body"})
		return
	}

	id, err := s.intake.Ingest(ctx, body)
	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": verr.Error()})
			return
		}
		logger.Error("webhook: ingest: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}
