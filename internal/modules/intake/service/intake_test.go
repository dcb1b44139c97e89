package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Weewpee/autotrade-bot/internal/modules/config"
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

type fakeNotifier struct {
	mu    sync.Mutex
	sends []sentMessage
	acks  []string
}

type sentMessage struct {
	text    string
	actions []notify.Action
}

func (f *fakeNotifier) Send(_ context.Context, text string, actions ...notify.Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, sentMessage{text: text, actions: actions})
}

func (f *fakeNotifier) Sendf(ctx context.Context, format string, args ...any) {
	f.Send(ctx, format)
}

func (f *fakeNotifier) Acknowledge(_ context.Context, callbackID, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acks = append(f.acks, text)
}

func newIntake(t *testing.T) (*Service, *file.Store, *fakeNotifier) {
	t.Helper()
	store := file.NewStore(filepath.Join(t.TempDir(), "store.json"))
	n := &fakeNotifier{}
	cfg := &config.Config{DefaultQty: 0.001, ExecutionTimeout: time.Second}
	return New(cfg, store, n, nil, nil), store, n
}

const validBody = `{"signal":"buy","symbol":"BTC/USD","time":"2024-05-01T10:00:00Z","price":50000,"sl":49000,"tp":[51000,52000]}`

func TestIngestStagesAndNotifies(t *testing.T) {
	ctx := context.Background()
	svc, store, n := newIntake(t)

	id, err := svc.Ingest(ctx, []byte(validBody))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	p, err := store.GetPending(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "BTC/USD", p.Payload.Symbol)
	assert.Equal(t, 50000.0, p.Payload.Price)
	require.NotNil(t, p.Payload.StopLoss)
	assert.Equal(t, 49000.0, *p.Payload.StopLoss)
	assert.Equal(t, []float64{51000, 52000}, p.Payload.TakeProfits)

	// ровно одна попытка нотификации с двумя действиями
	require.Len(t, n.sends, 1)
	require.Len(t, n.sends[0].actions, 2)
	assert.Equal(t, "approve:"+id+":buy", n.sends[0].actions[0].Data)
	assert.Equal(t, "reject:"+id, n.sends[0].actions[1].Data)
	assert.Contains(t, n.sends[0].text, id)
}

func TestIngestValidation(t *testing.T) {
	ctx := context.Background()
	svc, store, n := newIntake(t)

	cases := []struct {
		name string
		body string
	}{
		{"not json", `{"signal":`},
		{"missing direction", `{"symbol":"BTC/USD","time":"t","price":1}`},
		{"missing symbol", `{"signal":"buy","time":"t","price":1}`},
		{"missing time", `{"signal":"buy","symbol":"BTC/USD","price":1}`},
		{"missing price", `{"signal":"buy","symbol":"BTC/USD","time":"t"}`},
		{"mistyped price", `{"signal":"buy","symbol":"BTC/USD","time":"t","price":"dear"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Ingest(ctx, []byte(tc.body))
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	// никаких побочных эффектов
	pendings, err := store.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pendings)
	assert.Empty(t, n.sends)
}

func TestIngestIdempotentReplay(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newIntake(t)

	id1, err := svc.Ingest(ctx, []byte(validBody))
	require.NoError(t, err)
	id2, err := svc.Ingest(ctx, []byte(validBody))
	require.NoError(t, err)

	// тот же контент — тот же id, один pending
	assert.Equal(t, id1, id2)
	pendings, err := store.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pendings, 1)
}

func TestParseSignalNormalizesDirection(t *testing.T) {
	t.Parallel()

	sig, err := ParseSignal([]byte(`{"signal":"LONG","symbol":" BTC/USD ","time":"t","price":1}`))
	require.NoError(t, err)
	assert.Equal(t, "buy", string(sig.Direction))
	assert.Equal(t, "BTC/USD", sig.Symbol)

	sig, err = ParseSignal([]byte(`{"signal":"Short","symbol":"ETH/USD","time":"t","price":1}`))
	require.NoError(t, err)
	assert.Equal(t, "sell", string(sig.Direction))
}
