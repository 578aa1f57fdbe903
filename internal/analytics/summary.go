package analytics

import (
	"fmt"
	"math"

	"MarketLens/internal/domain/models"
)

// Summarize aggregates the headline statistics for one series. Fields
// derived from returns need at least two bars; for a single bar they come
// back as NaN while the pure price aggregates stay defined.
func Summarize(series *models.PriceSeries) (*models.SummaryReport, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: empty price series", models.ErrInvalidInput)
	}
	closes := series.Closes()

	meanPrice, err := Mean(closes)
	if err != nil {
		return nil, err
	}
	maxDD, err := MaxDrawdown(closes)
	if err != nil {
		return nil, err
	}

	minPrice, maxPrice := closes[0], closes[0]
	for _, c := range closes[1:] {
		minPrice = math.Min(minPrice, c)
		maxPrice = math.Max(maxPrice, c)
	}

	meanDaily := math.NaN()
	annualReturn := math.NaN()
	volDaily := math.NaN()
	volAnnual := math.NaN()
	sharpe := math.NaN()
	if len(closes) >= 2 {
		returns, err := Returns(closes)
		if err != nil {
			return nil, err
		}
		meanDaily = mean(returns)
		annualReturn = meanDaily * TradingDaysPerYear
		volDaily = sampleStd(returns)
		volAnnual = volDaily * math.Sqrt(TradingDaysPerYear)
		sharpe, _ = SharpeRatio(returns, DefaultRiskFreeRate, true)
	}

	return &models.SummaryReport{
		Symbol:           series.Symbol,
		Period:           series.Period(),
		TotalDays:        series.Len(),
		MeanPrice:        meanPrice,
		MinPrice:         minPrice,
		MaxPrice:         maxPrice,
		TotalReturn:      (closes[len(closes)-1]/closes[0] - 1) * 100,
		MeanDailyReturn:  meanDaily,
		AnnualReturn:     annualReturn,
		VolatilityDaily:  volDaily,
		VolatilityAnnual: volAnnual,
		SharpeRatio:      sharpe,
		MaxDrawdown:      maxDD,
		LastClose:        closes[len(closes)-1],
	}, nil
}

// Normalize rescales closes to a base of 100 at the first bar so that
// differently priced series chart on one axis.
func Normalize(closes []float64) ([]float64, error) {
	if len(closes) == 0 {
		return nil, fmt.Errorf("%w: empty series", models.ErrInvalidInput)
	}
	if closes[0] <= 0 {
		return nil, fmt.Errorf("%w: non-positive base close", models.ErrInvalidInput)
	}
	out := make([]float64, len(closes))
	for i, c := range closes {
		out[i] = c / closes[0] * 100
	}
	return out, nil
}
