package fetcher

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoData reports that the source published no rate for the requested
// period, e.g. the official daily table on a non-business day. It is a
// distinguishable outcome, not an upstream failure.
var ErrNoData = errors.New("fetcher: no rate published for period")

// RateFetcher retrieves the current USD/KRW rate.
type RateFetcher interface {
	FetchRate(ctx context.Context) (decimal.Decimal, error)
}
