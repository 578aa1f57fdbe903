package service

import (
	"context"

	"MarketLens/internal/domain/models"
)

// CrossValidator computes an independent summary over a flat list of close
// prices, so primary statistics can be checked against a second
// implementation. Implementations must be best-effort: an unavailable
// backend is reported as an error and the caller proceeds without it.
type CrossValidator interface {
	Name() string
	Summarize(ctx context.Context, closes []float64) (models.CrossCheck, error)
}

// RemoteQuotes fetches real daily bars for a symbol from an external feed.
type RemoteQuotes interface {
	FetchDaily(ctx context.Context, symbol string, days int) (*models.PriceSeries, error)
}
