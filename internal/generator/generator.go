// Package generator produces reproducible synthetic daily OHLCV series
// from a geometric random walk. One Generator owns one random stream;
// identical seed plus identical call sequence reproduces identical output
// bit for bit. Calls on a shared Generator must be sequenced, never
// concurrent, or reproducibility is lost. Concurrent callers should each
// own a Generator seeded independently.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/pkg/util"
)

// Default GBM parameters applied when no option overrides them.
const (
	DefaultInitialPrice = 100.0
	DefaultDrift        = 0.0002
	DefaultVolatility   = 0.02
)

const (
	minVolume = 1_000_000
	maxVolume = 10_000_000 // exclusive
)

// Generator holds the seeded random stream shared by all draws.
type Generator struct {
	rng *rand.Rand
}

// New builds a Generator seeded once. The same seed reproduces the same
// sequence of series.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

type options struct {
	initialPrice float64
	drift        float64
	volatility   float64
	end          time.Time
}

// Option adjusts a single generation call.
type Option func(*options)

// WithInitialPrice overrides the starting price.
func WithInitialPrice(p float64) Option { return func(o *options) { o.initialPrice = p } }

// WithDrift overrides the daily drift of the walk.
func WithDrift(d float64) Option { return func(o *options) { o.drift = d } }

// WithVolatility overrides the daily volatility of the walk. Zero collapses
// the walk to a deterministic exponential trend.
func WithVolatility(v float64) Option { return func(o *options) { o.volatility = v } }

// WithEndDate pins the last bar to the last business day on or before t
// instead of the wall clock, which keeps full output fixed in tests.
func WithEndDate(t time.Time) Option { return func(o *options) { o.end = t } }

// Generate produces days bars of synthetic OHLCV data for one symbol.
//
// Closes follow close[i] = initial * exp(sum of i+1 normal variates with
// mean drift and deviation volatility), so prices stay strictly positive
// for any parameters. Open perturbs the close by a uniform jitter in
// [-0.5%, +0.5%]; high and low by one-sided jitters in [0%, 1%]; then high
// and low are clamped so low <= min(open, close) and high >= max(open,
// close) always hold. Volume draws uniformly from [1,000,000, 10,000,000).
//
// The draw order is part of the reproducibility contract: one vector per
// field, in close, open, high, low, volume order. Dates are consecutive
// business days ending at the wall clock (or the WithEndDate override),
// ascending.
func (g *Generator) Generate(symbol string, days int, opts ...Option) (*models.PriceSeries, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", models.ErrInvalidInput)
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", models.ErrInvalidInput, days)
	}
	o := options{
		initialPrice: DefaultInitialPrice,
		drift:        DefaultDrift,
		volatility:   DefaultVolatility,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.initialPrice <= 0 {
		return nil, fmt.Errorf("%w: initial price must be positive, got %g",
			models.ErrInvalidInput, o.initialPrice)
	}
	if o.volatility < 0 {
		return nil, fmt.Errorf("%w: volatility must be non-negative, got %g",
			models.ErrInvalidInput, o.volatility)
	}

	end := o.end
	if end.IsZero() {
		end = time.Now()
	}
	dates := util.BusinessDaysEnding(end, days)

	closes := make([]float64, days)
	walk := 0.0
	for i := range closes {
		walk += o.drift + o.volatility*g.rng.NormFloat64()
		closes[i] = o.initialPrice * math.Exp(walk)
	}
	openJitter := g.uniforms(-0.005, 0.005, days)
	highJitter := g.uniforms(0, 0.01, days)
	lowJitter := g.uniforms(0, 0.01, days)

	points := make([]models.PricePoint, days)
	for i := range points {
		open := closes[i] * (1 + openJitter[i])
		high := closes[i] * (1 + highJitter[i])
		low := closes[i] * (1 - lowJitter[i])
		high = math.Max(high, math.Max(open, closes[i]))
		low = math.Min(low, math.Min(open, closes[i]))
		points[i] = models.PricePoint{
			Date:   dates[i],
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closes[i],
			Volume: minVolume + g.rng.Int63n(maxVolume-minVolume),
		}
	}
	return &models.PriceSeries{Symbol: symbol, Points: points}, nil
}

// GenerateMulti produces one series per symbol, in argument order. Each
// symbol first draws its own initial price, drift, and volatility from
// fixed uniform ranges ([50,200], [-0.0005,0.001], [0.01,0.03]) so the
// statistical character differs per symbol while the whole batch stays
// reproducible from one seed. Parameter options are therefore overridden
// per symbol; WithEndDate still applies.
func (g *Generator) GenerateMulti(symbols []string, days int, opts ...Option) (map[string]*models.PriceSeries, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols", models.ErrInvalidInput)
	}
	out := make(map[string]*models.PriceSeries, len(symbols))
	for _, symbol := range symbols {
		initial := 50 + g.rng.Float64()*150
		drift := -0.0005 + g.rng.Float64()*0.0015
		vol := 0.01 + g.rng.Float64()*0.02
		series, err := g.Generate(symbol, days,
			append(opts, WithInitialPrice(initial), WithDrift(drift), WithVolatility(vol))...)
		if err != nil {
			return nil, err
		}
		out[symbol] = series
	}
	return out, nil
}

func (g *Generator) uniforms(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + g.rng.Float64()*(hi-lo)
	}
	return out
}
