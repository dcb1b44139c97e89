package service

import (
	"context"
	"testing"

	"github.com/Weewpee/autotrade-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperEchoesRequest(t *testing.T) {
	t.Parallel()

	p := NewPaper()
	got, err := p.PlaceMarketOrder(context.Background(), "BTC/USD", models.SideBuy, 0.001)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"paper","symbol":"BTC/USD","side":"buy","amount":0.001}`, string(got))

	// детерминированность: повторный вызов даёт тот же результат
	again, err := p.PlaceMarketOrder(context.Background(), "BTC/USD", models.SideBuy, 0.001)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestNormalizeSymbol(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BTCUSD", normalizeSymbol("BTC/USD"))
	assert.Equal(t, "ETHUSDT", normalizeSymbol("ethusdt"))
}
