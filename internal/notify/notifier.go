package notify

import (
	"context"
	"log"
)

// Action — кнопка под сообщением; Data уходит обратно как callback.
type Action struct {
	Label string
	Data  string
}

// Notifier доставляет сообщения одобряющему. Все вызовы best-effort:
// ошибки канала логируются внутри и никогда не откатывают состояние.
type Notifier interface {
	Send(ctx context.Context, text string, actions ...Action)
	Sendf(ctx context.Context, format string, args ...any)
	Acknowledge(ctx context.Context, callbackID, text string)
}

// Stdout — заглушка, всё просто логирует.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Send(ctx context.Context, text string, actions ...Action) {
	log.Println(text)
	for _, a := range actions {
		log.Printf("  [%s] -> %s", a.Label, a.Data)
	}
}

func (s *Stdout) Sendf(ctx context.Context, format string, args ...any) {
	log.Printf(format, args...)
}

func (s *Stdout) Acknowledge(ctx context.Context, callbackID, text string) {
	log.Printf("ack %s: %s", callbackID, text)
}
