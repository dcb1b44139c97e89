package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Weewpee/autotrade-bot/internal/models"
	"github.com/Weewpee/autotrade-bot/internal/modules/config"

	"github.com/gorilla/websocket"
)

const (
	defaultBaseURL = "https://api.binance.com"
	defaultWSURL   = "wss://stream.binance.com:9443/ws"
)

// Client — живой шлюз исполнения: подписанные маркет-ордера по REST плюс
// поток последних цен по вебсокету.
type Client struct {
	baseURL   string
	wsURL     string
	apiKey    string
	apiSecret string

	http     *http.Client
	wsDialer *websocket.Dialer

	mu      sync.RWMutex
	prices  map[string]float64
	tracked map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(cfg *config.Config) *Client {
	baseURL := cfg.Exchange.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	wsURL := cfg.Exchange.WSURL
	if wsURL == "" {
		wsURL = defaultWSURL
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		baseURL:   baseURL,
		wsURL:     wsURL,
		apiKey:    cfg.Exchange.APIKey,
		apiSecret: cfg.Exchange.APISecret,
		http:      &http.Client{Timeout: 10 * time.Second},
		wsDialer:  &websocket.Dialer{},
		prices:    make(map[string]float64),
		tracked:   make(map[string]bool),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Close останавливает все потоки цен.
func (c *Client) Close() { c.cancel() }

// PlaceMarketOrder ставит маркет-ордер. Тело ответа биржи возвращаем как
// есть — оно целиком уходит в журнал.
func (c *Client) PlaceMarketOrder(ctx context.Context, symbol string, side models.Side, qty float64) ([]byte, error) {
	params := url.Values{}
	params.Set("symbol", normalizeSymbol(symbol))
	params.Set("side", strings.ToUpper(string(side)))
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(qty, 'f', -1, 64))
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	query := params.Encode()
	params.Set("signature", c.sign(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v3/order", strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("order rejected: status=%d body=%s", resp.StatusCode, string(data))
	}
	return data, nil
}

func (c *Client) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// normalizeSymbol: сигналы приходят как "BTC/USD", биржа ждёт "BTCUSD".
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}
