package analytics

import (
	"fmt"
	"math"

	"MarketLens/internal/domain/models"
)

func checkWindow(n, window int) error {
	if window < 1 {
		return fmt.Errorf("%w: window must be >= 1, got %d", models.ErrInvalidInput, window)
	}
	if window > n {
		return fmt.Errorf("%w: window %d exceeds series length %d", models.ErrInvalidInput, window, n)
	}
	return nil
}

// rollingMean fills out[i] with the mean of values[i-window+1..i] for
// i >= window-1 and NaN before that.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = mean(values[i-window+1 : i+1])
	}
	return out
}

// rollingSampleStd is the sample deviation counterpart of rollingMean.
// A window of 1 has no sample deviation, so every entry is NaN.
func rollingSampleStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sampleStd(values[i-window+1 : i+1])
	}
	return out
}

// MovingAverage computes the simple rolling mean of the closes over the
// trailing window. Entries before index window-1 are NaN.
func MovingAverage(closes []float64, window int) ([]float64, error) {
	if err := checkWindow(len(closes), window); err != nil {
		return nil, err
	}
	return rollingMean(closes, window), nil
}

// BollingerBands computes the middle band as the rolling mean of the closes
// and the upper and lower bands numStd sample deviations around it. All
// three bands share the NaN warm-up prefix.
func BollingerBands(closes []float64, window int, numStd float64) (models.Band, error) {
	if err := checkWindow(len(closes), window); err != nil {
		return models.Band{}, err
	}
	middle := rollingMean(closes, window)
	std := rollingSampleStd(closes, window)
	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	for i := range closes {
		upper[i] = middle[i] + numStd*std[i]
		lower[i] = middle[i] - numStd*std[i]
	}
	return models.Band{Middle: middle, Upper: upper, Lower: lower}, nil
}

// RSI computes the relative strength index from simple rolling means of
// gains and losses (not Wilder smoothing). The day-over-day change at index
// 0 is taken as zero, so the first defined value lands at index window-1,
// aligned with the other rolling indicators. A zero average loss saturates
// the index at exactly 100 instead of dividing by zero.
func RSI(closes []float64, window int) ([]float64, error) {
	if err := checkWindow(len(closes), window); err != nil {
		return nil, err
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	avgGain := rollingMean(gains, window)
	avgLoss := rollingMean(losses, window)

	out := make([]float64, len(closes))
	for i := range closes {
		switch {
		case i < window-1:
			out[i] = math.NaN()
		case avgLoss[i] == 0:
			out[i] = 100
		default:
			rs := avgGain[i] / avgLoss[i]
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out, nil
}

// RollingVolatility computes the rolling sample deviation of a return
// series, scaled to annual terms when annualize is set. The result aligns
// to the return index, which is one element shorter than the close series
// it came from.
func RollingVolatility(returns []float64, window int, annualize bool) ([]float64, error) {
	if err := checkWindow(len(returns), window); err != nil {
		return nil, err
	}
	out := rollingSampleStd(returns, window)
	if annualize {
		factor := math.Sqrt(TradingDaysPerYear)
		for i := range out {
			out[i] *= factor
		}
	}
	return out, nil
}
