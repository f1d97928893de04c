package rates

import (
	"context"

	"github.com/oleglapko/poizon-2/core/logger"
	"log/slog"
)

// DefaultFallbackRate is used when the feed cannot be reached or parsed.
const DefaultFallbackRate = 11.5

// Fallback wraps a Source and substitutes a constant rate whenever the
// inner source fails. It never returns an error: quotes stay computable
// with every external dependency down.
type Fallback struct {
	inner    Source
	fallback float64
}

// NewFallback wraps inner. A non-positive fallback uses DefaultFallbackRate.
func NewFallback(inner Source, fallback float64) *Fallback {
	if fallback <= 0 {
		fallback = DefaultFallbackRate
	}
	return &Fallback{inner: inner, fallback: fallback}
}

// Rate returns the inner source's rate, or the fallback constant after
// logging the failure.
func (f *Fallback) Rate(ctx context.Context, charCode string) (float64, error) {
	rate, err := f.inner.Rate(ctx, charCode)
	if err != nil {
		logger.Warn(ctx, "rates", "rate.fallback",
			slog.String("status", "fallback"),
			slog.String("currency", charCode),
			slog.Float64("rate", f.fallback),
			slog.String("err", err.Error()),
		)
		return f.fallback, nil
	}
	return rate, nil
}
