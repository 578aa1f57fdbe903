// Package analytics computes statistics and rolling indicators over daily
// price series. All functions are pure: inputs are validated up front and
// statistics that are undefined for the data come back as NaN per the
// documented fallbacks instead of errors.
package analytics

import (
	"fmt"
	"math"

	"MarketLens/internal/domain/models"
)

const (
	// TradingDaysPerYear is the annualization base for daily series.
	TradingDaysPerYear = 252

	// DefaultRiskFreeRate is the annual risk-free rate applied by summary
	// reports when no override is given.
	DefaultRiskFreeRate = 0.02
)

// Returns computes simple daily returns r[i] = close[i+1]/close[i] - 1.
// The result is one element shorter than the input; the first bar has no
// prior close and is dropped, not zero-filled.
func Returns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 closes for returns, got %d",
			models.ErrInvalidInput, len(closes))
	}
	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 {
			return nil, fmt.Errorf("%w: non-positive close at index %d", models.ErrInvalidInput, i-1)
		}
		out[i-1] = closes[i]/closes[i-1] - 1
	}
	return out, nil
}

// Mean computes the arithmetic mean.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: mean of empty series", models.ErrInvalidInput)
	}
	return mean(values), nil
}

// Volatility computes the sample standard deviation of a return series,
// scaled by sqrt(252) when annualize is set. A single return has no sample
// deviation and yields NaN.
func Volatility(returns []float64, annualize bool) (float64, error) {
	if len(returns) == 0 {
		return 0, fmt.Errorf("%w: volatility of empty return series", models.ErrInvalidInput)
	}
	vol := sampleStd(returns)
	if annualize {
		vol *= math.Sqrt(TradingDaysPerYear)
	}
	return vol, nil
}

// SharpeRatio computes (mean(r)*k1 - riskFree) / (std(r)*k2) where k1=252
// and k2=sqrt(252) when annualize is set, else k1=k2=1. riskFree is an
// annual rate. Zero deviation yields exactly 0 rather than dividing by zero.
func SharpeRatio(returns []float64, riskFree float64, annualize bool) (float64, error) {
	if len(returns) == 0 {
		return 0, fmt.Errorf("%w: sharpe ratio of empty return series", models.ErrInvalidInput)
	}
	m := mean(returns)
	sd := sampleStd(returns)
	if annualize {
		m *= TradingDaysPerYear
		sd *= math.Sqrt(TradingDaysPerYear)
	}
	if sd == 0 {
		return 0, nil
	}
	return (m - riskFree) / sd, nil
}

// MaxDrawdown computes the most negative fractional decline from a running
// peak: min over i of (close[i] - max(close[0..i])) / max(close[0..i]).
// The result is always <= 0, and exactly 0 for a non-decreasing series.
func MaxDrawdown(closes []float64) (float64, error) {
	if len(closes) == 0 {
		return 0, fmt.Errorf("%w: max drawdown of empty series", models.ErrInvalidInput)
	}
	peak := math.Inf(-1)
	worst := 0.0
	for i, c := range closes {
		if c <= 0 {
			return 0, fmt.Errorf("%w: non-positive close at index %d", models.ErrInvalidInput, i)
		}
		if c > peak {
			peak = c
		}
		if dd := (c - peak) / peak; dd < worst {
			worst = dd
		}
	}
	return worst, nil
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStd is the n-1 normalized deviation; NaN below two observations.
func sampleStd(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
