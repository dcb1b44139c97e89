package service

import (
	"testing"

	"github.com/Weewpee/autotrade-bot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSignalIDDeterministic(t *testing.T) {
	t.Parallel()

	sl := 49000.0
	a := &models.Signal{
		Direction:   models.SideBuy,
		Symbol:      "BTC/USD",
		Time:        "2024-05-01T10:00:00Z",
		Price:       50000,
		StopLoss:    &sl,
		TakeProfits: []float64{51000, 52000},
	}
	b := *a
	b.StopLoss = &sl

	assert.Equal(t, SignalID(a), SignalID(&b))
	assert.Len(t, SignalID(a), 16)
}

func TestSignalIDDiffersByContent(t *testing.T) {
	t.Parallel()

	a := &models.Signal{Direction: models.SideBuy, Symbol: "BTC/USD", Time: "t", Price: 50000}
	b := &models.Signal{Direction: models.SideBuy, Symbol: "BTC/USD", Time: "t", Price: 50001}
	c := &models.Signal{Direction: models.SideSell, Symbol: "BTC/USD", Time: "t", Price: 50000}

	assert.NotEqual(t, SignalID(a), SignalID(b))
	assert.NotEqual(t, SignalID(a), SignalID(c))
}
