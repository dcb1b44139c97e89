package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/Weewpee/autotrade-bot/internal/models"
	storage "github.com/Weewpee/autotrade-bot/internal/modules/storage/service"

	"github.com/bytedance/sonic"
)

// Store — файловый бэкенд на случай запуска без Postgres. Тот же контракт,
// что и у pg-стора: переживает рестарт, pending остаются действующими.
type Store struct {
	path string

	mu     sync.Mutex
	state  state
	loaded bool
}

type state struct {
	Pending map[string]*models.PendingSignal `json:"pending"`
	Journal map[string]*models.JournalEntry  `json:"journal"`
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
		state: state{
			Pending: make(map[string]*models.PendingSignal),
			Journal: make(map[string]*models.JournalEntry),
		},
	}
}

func (s *Store) UpsertPending(ctx context.Context, p *models.PendingSignal) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("file.UpsertPending: %w", err)
		}
	}()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.loadLocked(); err != nil {
		return err
	}
	cp := *p
	s.state.Pending[p.ID] = &cp
	return s.saveLocked()
}

func (s *Store) GetPending(ctx context.Context, id string) (*models.PendingSignal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, fmt.Errorf("file.GetPending: %w", err)
	}
	p, ok := s.state.Pending[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) ListPending(ctx context.Context) ([]*models.PendingSignal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, fmt.Errorf("file.ListPending: %w", err)
	}
	out := make([]*models.PendingSignal, 0, len(s.state.Pending))
	for _, p := range s.state.Pending {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Finalize держит один мьютекс на обе мутации, так что запись журнала и
// удаление pending неразделимы.
func (s *Store) Finalize(ctx context.Context, entry *models.JournalEntry) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.loadLocked(); err != nil {
		return fmt.Errorf("file.Finalize: %w", err)
	}
	if _, ok := s.state.Pending[entry.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *entry
	s.state.Journal[entry.ID] = &cp
	delete(s.state.Pending, entry.ID)
	if err = s.saveLocked(); err != nil {
		return fmt.Errorf("file.Finalize: %w", err)
	}
	return nil
}

func (s *Store) GetJournal(ctx context.Context, id string) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, fmt.Errorf("file.GetJournal: %w", err)
	}
	e, ok := s.state.Journal[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *Store) ListJournal(ctx context.Context, limit int) ([]*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return nil, fmt.Errorf("file.ListJournal: %w", err)
	}
	out := make([]*models.JournalEntry, 0, len(s.state.Journal))
	for _, e := range s.state.Journal {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DecidedAt.After(out[j].DecidedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.loaded = true
			return nil
		}
		return err
	}
	var st state
	if err := sonic.Unmarshal(data, &st); err != nil {
		return err
	}
	if st.Pending == nil {
		st.Pending = make(map[string]*models.PendingSignal)
	}
	if st.Journal == nil {
		st.Journal = make(map[string]*models.JournalEntry)
	}
	s.state = st
	s.loaded = true
	return nil
}

func (s *Store) saveLocked() error {
	data, err := sonic.Marshal(s.state)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	// пишем во временный файл и переименовываем, чтобы не порвать стейт
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
