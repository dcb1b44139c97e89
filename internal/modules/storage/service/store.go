package service

import (
	"context"
	"errors"

	"github.com/Weewpee/autotrade-bot/internal/models"
)

// ErrNotFound — pending id неизвестен или уже обработан.
var ErrNotFound = errors.New("pending signal not found")

// Store is the durable persistence behind intake and decisions: staged
// pending signals plus the append-only trade journal.
type Store interface {
	// UpsertPending stages a signal; re-ingesting the same id overwrites.
	UpsertPending(ctx context.Context, p *models.PendingSignal) error
	GetPending(ctx context.Context, id string) (*models.PendingSignal, error)
	ListPending(ctx context.Context) ([]*models.PendingSignal, error)

	// Finalize appends the journal entry and deletes the pending record with
	// the same id as one atomic unit. Returns ErrNotFound when the pending
	// record is already gone; in that case nothing is written.
	Finalize(ctx context.Context, entry *models.JournalEntry) error

	GetJournal(ctx context.Context, id string) (*models.JournalEntry, error)
	ListJournal(ctx context.Context, limit int) ([]*models.JournalEntry, error)
}
