// Package orders resolves order fulfillment status by order code from an
// external tabular record store (published spreadsheet CSV or Postgres).
package orders

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by a RecordStore when no record matches the code.
var ErrNotFound = errors.New("orders: record not found")

// RecordStore looks up the status paired with an order code. The code is
// already normalized by the caller.
type RecordStore interface {
	StatusByCode(ctx context.Context, code string) (string, error)
}

// NormalizeCode trims and case-folds an order code. Lookups are
// whitespace-insensitive and case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
