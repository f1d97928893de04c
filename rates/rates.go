// Package rates provides the CNY/RUB exchange rate from the Central Bank of
// Russia daily feed, with an explicit fallback policy for when the feed is
// unreachable.
package rates

import "context"

// Source yields the exchange rate for a 3-letter currency code.
type Source interface {
	Rate(ctx context.Context, charCode string) (float64, error)
}
