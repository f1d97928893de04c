package orders

import (
	"context"
	"errors"

	"github.com/oleglapko/poizon-2/core/logger"
	"log/slog"
)

// Service wraps a RecordStore with the lookup policy: codes are normalized
// before the query, and every store failure degrades to the not-found
// outcome instead of surfacing an error to the conversation.
type Service struct {
	store RecordStore
}

// NewService builds a Service over store.
func NewService(store RecordStore) *Service {
	return &Service{store: store}
}

// Lookup returns the status for code, or ok=false when the record is
// missing, the code is empty, or the store failed.
func (s *Service) Lookup(ctx context.Context, code string) (status string, ok bool) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return "", false
	}
	if s.store == nil {
		logger.Warn(ctx, "orders", "lookup.unconfigured",
			slog.String("outcome", "not_found"),
		)
		return "", false
	}

	status, err := s.store.StatusByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Debug(ctx, "orders", "lookup.miss",
				slog.String("outcome", "not_found"),
				slog.String("code", normalized),
			)
		} else {
			logger.Warn(ctx, "orders", "lookup.failed",
				slog.String("outcome", "not_found"),
				slog.String("code", normalized),
				slog.String("err", err.Error()),
			)
		}
		return "", false
	}
	return status, true
}
