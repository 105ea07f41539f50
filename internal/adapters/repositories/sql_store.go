package repositories

import (
	"context"
	"database/sql"
	"errors"
	"freight-fulfillment-service/internal/ports"
)

// SQLStore implements ports.Persistence on database/sql.
// The same queries serve Postgres (pgx driver) and SQLite (modernc driver);
// placeholders are rewritten per dialect.
type SQLStore struct {
	DB      *sql.DB
	dialect Dialect
}

var _ ports.Persistence = (*SQLStore)(nil)

func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db, dialect: Postgres}
}

func NewSqliteStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db, dialect: SQLite}
}

func (s *SQLStore) Dialect() Dialect { return s.dialect }

func (s *SQLStore) q(query string) string { return s.dialect.rebind(query) }

func (s *SQLStore) check() error {
	if s.DB == nil {
		return errors.New("sql store: DB is nil")
	}
	return nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
