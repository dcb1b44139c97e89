package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/Weewpee/autotrade-bot/internal/models"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"
	"github.com/Weewpee/autotrade-bot/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

// Store implement db store
type Store struct {
	db db.TxManager
}

// New instance
func New(mgr db.TxManager) *Store {
	return &Store{db: mgr}
}

func (s *Store) UpsertPending(ctx context.Context, p *models.PendingSignal) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.UpsertPending: %w", err)
		}
	}()

	var payload []byte
	payload, err = sonic.Marshal(p.Payload)
	if err != nil {
		return err
	}
	_, err = s.db.Conn().Exec(ctx,
		`INSERT INTO pending(id, payload, created_at) VALUES($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, created_at = EXCLUDED.created_at`,
		p.ID, payload, p.CreatedAt)
	return err
}

func (s *Store) GetPending(ctx context.Context, id string) (p *models.PendingSignal, err error) {
	defer func() {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			err = fmt.Errorf("pg.GetPending: %w", err)
		}
	}()

	row := s.db.Conn().QueryRow(ctx, `SELECT payload, created_at FROM pending WHERE id = $1`, id)
	p = &models.PendingSignal{ID: id}
	var payload []byte
	if err = row.Scan(&payload, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	if err = sonic.Unmarshal(payload, &p.Payload); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListPending(ctx context.Context) (out []*models.PendingSignal, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.ListPending: %w", err)
		}
	}()

	rows, err := s.db.Conn().Query(ctx, `SELECT id, payload, created_at FROM pending ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p := &models.PendingSignal{}
		var payload []byte
		if err = rows.Scan(&p.ID, &payload, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err = sonic.Unmarshal(payload, &p.Payload); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Finalize удаляет pending и пишет журнал в одной транзакции. Условный
// DELETE — арбитр: ноль затронутых строк значит «уже решено», журнал не
// трогаем и откатываемся.
func (s *Store) Finalize(ctx context.Context, entry *models.JournalEntry) (err error) {
	defer func() {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			err = fmt.Errorf("pg.Finalize: %w", err)
		}
	}()

	var tp []byte
	tp, err = sonic.Marshal(entry.TakeProfits)
	if err != nil {
		return err
	}

	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctxTx, `DELETE FROM pending WHERE id = $1`, entry.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		_, err = tx.Exec(ctxTx,
			`INSERT INTO journal(id, decided_at, signal, symbol, price, sl, tp, qty, outcome, details)
			 VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO NOTHING`,
			entry.ID, entry.DecidedAt, string(entry.Direction), entry.Symbol, entry.Price,
			entry.StopLoss, tp, entry.Quantity, string(entry.Outcome), entry.ExecutionDetail)
		return err
	})
}

func (s *Store) GetJournal(ctx context.Context, id string) (entry *models.JournalEntry, err error) {
	defer func() {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			err = fmt.Errorf("pg.GetJournal: %w", err)
		}
	}()

	row := s.db.Conn().QueryRow(ctx,
		`SELECT id, decided_at, signal, symbol, price, sl, tp, qty, outcome, details FROM journal WHERE id = $1`, id)
	entry, err = scanJournal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (s *Store) ListJournal(ctx context.Context, limit int) (out []*models.JournalEntry, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.ListJournal: %w", err)
		}
	}()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Conn().Query(ctx,
		`SELECT id, decided_at, signal, symbol, price, sl, tp, qty, outcome, details
		 FROM journal ORDER BY decided_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func scanJournal(row pgx.Row) (*models.JournalEntry, error) {
	entry := &models.JournalEntry{}
	var direction, outcome string
	var tp []byte
	if err := row.Scan(&entry.ID, &entry.DecidedAt, &direction, &entry.Symbol, &entry.Price,
		&entry.StopLoss, &tp, &entry.Quantity, &outcome, &entry.ExecutionDetail); err != nil {
		return nil, err
	}
	entry.Direction = models.Side(direction)
	entry.Outcome = models.Outcome(outcome)
	if len(tp) > 0 {
		if err := sonic.Unmarshal(tp, &entry.TakeProfits); err != nil {
			return nil, err
		}
	}
	return entry, nil
}
