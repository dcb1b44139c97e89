package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Weewpee/autotrade-bot/internal/modules/config"
	decision "github.com/Weewpee/autotrade-bot/internal/modules/decision/service"
	exchange "github.com/Weewpee/autotrade-bot/internal/modules/exchange/service"
	intake "github.com/Weewpee/autotrade-bot/internal/modules/intake/service"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/internal/modules/storage/service/file"
	"github.com/Weewpee/autotrade-bot/internal/notify"
	"github.com/Weewpee/autotrade-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, secret string) (*Server, storage.Store) {
	t.Helper()
	cfg := &config.Config{DefaultQty: 0.001, ExecutionTimeout: time.Second}
	cfg.Webhook.Secret = secret

	store := file.NewStore(filepath.Join(t.TempDir(), "store.json"))
	n := notify.NewStdout()
	in := intake.New(cfg, store, n, nil, nil)
	d := decision.New(cfg, store, exchange.NewPaper(), n)
	return NewServer(cfg, in, d), store
}

const signalBody = `{"signal":"buy","symbol":"BTC/USD","time":"2024-05-01T10:00:00Z","price":50000,"sl":49000,"tp":[51000,52000]}`

func postTV(srv *Server, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/tv", strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-TV-Secret", secret)
	}
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)
	return rec
}

func TestSignalEndpointAuth(t *testing.T) {
	srv, store := newTestServer(t, "s3cret")

	rec := postTV(srv, "wrong", signalBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postTV(srv, "", signalBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// отказ в авторизации не оставляет следов
	pendings, err := store.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pendings)

	rec = postTV(srv, "s3cret", signalBody)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignalEndpointStagesPending(t *testing.T) {
	srv, store := newTestServer(t, "")

	rec := postTV(srv, "", signalBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OK bool   `json:"ok"`
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	require.NotEmpty(t, resp.ID)

	p, err := store.GetPending(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "BTC/USD", p.Payload.Symbol)
}

func TestSignalEndpointValidation(t *testing.T) {
	srv, store := newTestServer(t, "")

	rec := postTV(srv, "", `{"symbol":"BTC/USD"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	pendings, err := store.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pendings)
}

func postTG(srv *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/tg", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Mux().ServeHTTP(rec, req)
	return rec
}

func TestBotUpdateEndpointRoundTrip(t *testing.T) {
	srv, store := newTestServer(t, "")
	ctx := context.Background()

	rec := postTV(srv, "", signalBody)
	require.Equal(t, http.StatusOK, rec.Code)
	var staged struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &staged))

	// не-callback апдейт — no-op
	rec = postTG(srv, `{"update_id":1,"message":{"message_id":5,"text":"hi"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	_, err := store.GetPending(ctx, staged.ID)
	require.NoError(t, err)

	// approve через callback
	update := `{"update_id":2,"callback_query":{"id":"cb1","data":"approve:` + staged.ID + `:buy"}}`
	rec = postTG(srv, update)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	_, err = store.GetPending(ctx, staged.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	entry, err := store.GetJournal(ctx, staged.ID)
	require.NoError(t, err)
	assert.Equal(t, "executed", string(entry.Outcome))
	assert.Equal(t, 0.001, entry.Quantity)
	assert.Contains(t, string(entry.ExecutionDetail), "paper")

	// повторный approve — уже решено
	rec = postTG(srv, update)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":false}`, rec.Body.String())
}

func TestBotUpdateEndpointReject(t *testing.T) {
	srv, store := newTestServer(t, "")
	ctx := context.Background()

	rec := postTV(srv, "", signalBody)
	require.Equal(t, http.StatusOK, rec.Code)
	var staged struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &staged))

	rec = postTG(srv, `{"update_id":3,"callback_query":{"id":"cb2","data":"reject:`+staged.ID+`"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	entry, err := store.GetJournal(ctx, staged.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", string(entry.Outcome))
	assert.Equal(t, 0.0, entry.Quantity)
}
