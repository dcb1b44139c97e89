package models

import (
	"time"
)

type Outcome string

const (
	OutcomeExecuted Outcome = "executed"
	OutcomeRejected Outcome = "rejected"
)

// JournalEntry is the immutable record of a final decision. ID matches the
// originating PendingSignal so a replayed decision can be detected.
type JournalEntry struct {
	ID          string    `json:"id"`
	DecidedAt   time.Time `json:"decided_at"`
	Direction   Side      `json:"signal"`
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	StopLoss    *float64  `json:"sl,omitempty"`
	TakeProfits []float64 `json:"tp,omitempty"`
	Quantity    float64   `json:"qty"`
	Outcome     Outcome   `json:"outcome"`
	// ExecutionDetail keeps the exchange response verbatim, empty for rejects.
	ExecutionDetail []byte `json:"details,omitempty"`
}

// NewJournalEntry copies the signal fields out of a pending record.
func NewJournalEntry(p *PendingSignal, decidedAt time.Time) *JournalEntry {
	return &JournalEntry{
		ID:          p.ID,
		DecidedAt:   decidedAt,
		Direction:   p.Payload.Direction,
		Symbol:      p.Payload.Symbol,
		Price:       p.Payload.Price,
		StopLoss:    p.Payload.StopLoss,
		TakeProfits: p.Payload.TakeProfits,
	}
}
