package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Track запускает поток последних цен по символу (один раз на символ).
func (c *Client) Track(symbol string) {
	key := normalizeSymbol(symbol)

	c.mu.Lock()
	if c.tracked[key] {
		c.mu.Unlock()
		return
	}
	c.tracked[key] = true
	c.mu.Unlock()

	go c.streamPrices(c.ctx, key)
}

func (c *Client) LastPrice(symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	px, ok := c.prices[normalizeSymbol(symbol)]
	return px, ok && px != 0
}

func (c *Client) setPrice(symbol string, px float64) {
	c.mu.Lock()
	c.prices[symbol] = px
	c.mu.Unlock()
}

// ===== WS: last price per symbol =====

func (c *Client) streamPrices(ctx context.Context, symbol string) {
	url := c.wsURL + "/" + strings.ToLower(symbol) + "@trade"
	retry := 0
	for {
		conn, _, err := c.wsDialer.Dial(url, nil)
		if err != nil {
			retry++
			if retry > 8 {
				return
			}
			time.Sleep(time.Duration(300*retry) * time.Millisecond)
			continue
		}
		retry = 0

		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(15 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-stopPing:
					return
				case <-ctx.Done():
					return
				case <-t.C:
					_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
				}
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				close(stopPing)
				_ = conn.Close()
				break
			}
			var frame struct {
				Event  string `json:"e"`
				Symbol string `json:"s"`
				Price  string `json:"p"`
			}
			if err := json.Unmarshal(msg, &frame); err == nil && frame.Event == "trade" {
				if px, err := strconv.ParseFloat(frame.Price, 64); err == nil && px != 0 {
					c.setPrice(frame.Symbol, px)
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(1 * time.Second)
		}
	}
}
