package service

import (
	"encoding/json"
	"net/http"

	"github.com/Weewpee/autotrade-bot/internal/modules/config"
	decision "github.com/Weewpee/autotrade-bot/internal/modules/decision/service"
	intake "github.com/Weewpee/autotrade-bot/internal/modules/intake/service"
)

// Server — публичный HTTP-вход: /tv для сигналов, /tg для вебхука бота.
type Server struct {
	cfg       *config.Config
	intake    *intake.Service
	decisions *decision.Service
}

func NewServer(cfg *config.Config, in *intake.Service, d *decision.Service) *Server {
	return &Server{
		cfg:       cfg,
		intake:    in,
		decisions: d,
	}
}

func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/tv", s.handleSignal)
	mux.HandleFunc("/tg", s.handleBotUpdate)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
