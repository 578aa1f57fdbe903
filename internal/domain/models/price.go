package models

import (
	"fmt"
	"math"
	"time"
)

// PricePoint is a single daily OHLCV bar.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries holds the ordered daily bars for one symbol. A series is
// immutable once produced: consumers read it, they never modify it.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Closes returns the close prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Dates returns the bar dates in series order.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Period renders the covered date range, e.g. "2024-01-02 to 2024-06-28".
func (s *PriceSeries) Period() string {
	if s.Len() == 0 {
		return ""
	}
	first := s.Points[0].Date.Format("2006-01-02")
	last := s.Points[len(s.Points)-1].Date.Format("2006-01-02")
	return fmt.Sprintf("%s to %s", first, last)
}

// Validate checks the series invariants: non-empty, one symbol, strictly
// ascending dates, positive prices, non-negative volume, and the OHLC bound
// low <= min(open, close) <= max(open, close) <= high on every bar.
// Violations are reported as ErrInvalidInput; nothing is repaired.
func (s *PriceSeries) Validate() error {
	if s == nil || len(s.Points) == 0 {
		return fmt.Errorf("%w: empty price series", ErrInvalidInput)
	}
	if s.Symbol == "" {
		return fmt.Errorf("%w: missing symbol", ErrInvalidInput)
	}
	var prev time.Time
	for i, p := range s.Points {
		if p.Open <= 0 || p.High <= 0 || p.Low <= 0 || p.Close <= 0 {
			return fmt.Errorf("%w: non-positive price at index %d", ErrInvalidInput, i)
		}
		if p.Volume < 0 {
			return fmt.Errorf("%w: negative volume at index %d", ErrInvalidInput, i)
		}
		if p.Low > math.Min(p.Open, p.Close) || p.High < math.Max(p.Open, p.Close) {
			return fmt.Errorf("%w: OHLC bounds violated at index %d (%s)",
				ErrInvalidInput, i, p.Date.Format("2006-01-02"))
		}
		if i > 0 && !p.Date.After(prev) {
			return fmt.Errorf("%w: dates not strictly ascending at index %d", ErrInvalidInput, i)
		}
		prev = p.Date
	}
	return nil
}
