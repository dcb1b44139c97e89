package models

import (
	"time"
)

// Side as it comes from the alert source and the approval buttons.
type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Signal is the canonical trade suggestion parsed from an inbound alert.
// JSON tags follow the TradingView webhook payload shape.
type Signal struct {
	Direction   Side      `json:"signal"`
	Symbol      string    `json:"symbol"`
	Time        string    `json:"time"`
	Price       float64   `json:"price"`
	StopLoss    *float64  `json:"sl,omitempty"`
	TakeProfits []float64 `json:"tp,omitempty"`
}

// PendingSignal is a staged signal awaiting an approver's verdict.
// Existence of the id means "awaiting decision".
type PendingSignal struct {
	ID        string    `json:"id"`
	Payload   Signal    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
