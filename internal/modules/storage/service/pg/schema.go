package pg

import (
	"context"
	"fmt"
)

const schemaPending = `
CREATE TABLE IF NOT EXISTS pending(
	id         TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// журнал неизменяемый: только INSERT, апдейтов по нему нет
const schemaJournal = `
CREATE TABLE IF NOT EXISTS journal(
	id         TEXT PRIMARY KEY,
	decided_at TIMESTAMPTZ NOT NULL,
	signal     TEXT NOT NULL,
	symbol     TEXT NOT NULL,
	price      DOUBLE PRECISION NOT NULL,
	sl         DOUBLE PRECISION,
	tp         JSONB,
	qty        DOUBLE PRECISION NOT NULL,
	outcome    TEXT NOT NULL,
	details    JSONB
)`

// Bootstrap creates the two tables at process start.
func (s *Store) Bootstrap(ctx context.Context) error {
	for _, stmt := range []string{schemaPending, schemaJournal} {
		if _, err := s.db.Conn().Exec(ctx, stmt); err != nil {
			return fmt.Errorf("pg.Bootstrap: %w", err)
		}
	}
	return nil
}
