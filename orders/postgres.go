package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PGStore reads order statuses from a Postgres table kept in sync with the
// spreadsheet by an external import job.
type PGStore struct {
	db *sqlx.DB
}

// NewPGStore builds a PGStore over an open connection pool.
func NewPGStore(db *sqlx.DB) *PGStore {
	return &PGStore{db: db}
}

// StatusByCode returns the status stored for code.
func (s *PGStore) StatusByCode(ctx context.Context, code string) (string, error) {
	var status string
	err := s.db.GetContext(ctx, &status,
		`SELECT status FROM orders WHERE lower(trim(order_code)) = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("orders: query status: %w", err)
	}
	return status, nil
}
