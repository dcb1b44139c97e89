package file

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Weewpee/autotrade-bot/internal/models"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPending(id string) *models.PendingSignal {
	sl := 49000.0
	return &models.PendingSignal{
		ID: id,
		Payload: models.Signal{
			Direction:   models.SideBuy,
			Symbol:      "BTC/USD",
			Time:        "2024-05-01T10:00:00Z",
			Price:       50000,
			StopLoss:    &sl,
			TakeProfits: []float64{51000, 52000},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestUpsertGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(filepath.Join(t.TempDir(), "store.json"))

	p := newPending("abc123")
	require.NoError(t, s.UpsertPending(ctx, p))

	got, err := s.GetPending(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, p.Payload, got.Payload)

	// upsert по тому же id перезаписывает, а не дублирует
	p2 := newPending("abc123")
	p2.Payload.Price = 50500
	require.NoError(t, s.UpsertPending(ctx, p2))

	all, err := s.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 50500.0, all[0].Payload.Price)
}

func TestGetPendingNotFound(t *testing.T) {
	t.Parallel()

	s := NewStore(filepath.Join(t.TempDir(), "store.json"))
	_, err := s.GetPending(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFinalizeMovesPendingToJournal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(filepath.Join(t.TempDir(), "store.json"))

	p := newPending("abc123")
	require.NoError(t, s.UpsertPending(ctx, p))

	entry := models.NewJournalEntry(p, time.Now())
	entry.Quantity = 0.001
	entry.Outcome = models.OutcomeExecuted
	entry.ExecutionDetail = []byte(`{"status":"paper"}`)
	require.NoError(t, s.Finalize(ctx, entry))

	// журнал есть — pending нет
	_, err := s.GetPending(ctx, "abc123")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := s.GetJournal(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeExecuted, got.Outcome)
	assert.Equal(t, 0.001, got.Quantity)
	assert.Equal(t, []float64{51000, 52000}, got.TakeProfits)

	// второй Finalize по тому же id — ErrNotFound, журнал не перезаписан
	entry2 := models.NewJournalEntry(p, time.Now())
	entry2.Outcome = models.OutcomeRejected
	assert.ErrorIs(t, s.Finalize(ctx, entry2), storage.ErrNotFound)

	got, err = s.GetJournal(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeExecuted, got.Outcome)
}

func TestFinalizeUnknownID(t *testing.T) {
	t.Parallel()

	s := NewStore(filepath.Join(t.TempDir(), "store.json"))
	entry := models.NewJournalEntry(newPending("ghost"), time.Now())
	entry.Outcome = models.OutcomeRejected
	assert.ErrorIs(t, s.Finalize(context.Background(), entry), storage.ErrNotFound)
}

func TestStateSurvivesRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	s := NewStore(path)
	require.NoError(t, s.UpsertPending(ctx, newPending("keep")))

	done := newPending("done")
	require.NoError(t, s.UpsertPending(ctx, done))
	entry := models.NewJournalEntry(done, time.Now())
	entry.Outcome = models.OutcomeRejected
	require.NoError(t, s.Finalize(ctx, entry))

	// «рестарт» — новый инстанс над тем же файлом
	s2 := NewStore(path)

	p, err := s2.GetPending(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "BTC/USD", p.Payload.Symbol)

	_, err = s2.GetPending(ctx, "done")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	j, err := s2.GetJournal(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeRejected, j.Outcome)
}

func TestListJournalLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(filepath.Join(t.TempDir(), "store.json"))

	base := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		p := newPending(id)
		require.NoError(t, s.UpsertPending(ctx, p))
		entry := models.NewJournalEntry(p, base.Add(time.Duration(i)*time.Minute))
		entry.Outcome = models.OutcomeRejected
		require.NoError(t, s.Finalize(ctx, entry))
	}

	entries, err := s.ListJournal(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// свежие сверху
	assert.Equal(t, "c", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
}
