package models

import (
	"encoding/json"
	"math"
)

// SummaryReport aggregates the headline statistics for one price series.
// Statistics that are undefined for the input (for example volatility of a
// single return) are carried as NaN and serialized as JSON null.
type SummaryReport struct {
	Symbol           string  `json:"symbol"`
	Period           string  `json:"period"`
	TotalDays        int     `json:"total_days"`
	MeanPrice        float64 `json:"mean_price"`
	MinPrice         float64 `json:"min_price"`
	MaxPrice         float64 `json:"max_price"`
	TotalReturn      float64 `json:"total_return"`
	MeanDailyReturn  float64 `json:"mean_daily_return"`
	AnnualReturn     float64 `json:"annual_return"`
	VolatilityDaily  float64 `json:"volatility_daily"`
	VolatilityAnnual float64 `json:"volatility_annual"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	LastClose        float64 `json:"last_close"`
}

// MarshalJSON emits NaN and Inf statistics as null so the report stays
// valid JSON regardless of the input series.
func (r SummaryReport) MarshalJSON() ([]byte, error) {
	type field struct {
		Symbol           string   `json:"symbol"`
		Period           string   `json:"period"`
		TotalDays        int      `json:"total_days"`
		MeanPrice        *float64 `json:"mean_price"`
		MinPrice         *float64 `json:"min_price"`
		MaxPrice         *float64 `json:"max_price"`
		TotalReturn      *float64 `json:"total_return"`
		MeanDailyReturn  *float64 `json:"mean_daily_return"`
		AnnualReturn     *float64 `json:"annual_return"`
		VolatilityDaily  *float64 `json:"volatility_daily"`
		VolatilityAnnual *float64 `json:"volatility_annual"`
		SharpeRatio      *float64 `json:"sharpe_ratio"`
		MaxDrawdown      *float64 `json:"max_drawdown"`
		LastClose        *float64 `json:"last_close"`
	}
	return json.Marshal(field{
		Symbol:           r.Symbol,
		Period:           r.Period,
		TotalDays:        r.TotalDays,
		MeanPrice:        finiteOrNil(r.MeanPrice),
		MinPrice:         finiteOrNil(r.MinPrice),
		MaxPrice:         finiteOrNil(r.MaxPrice),
		TotalReturn:      finiteOrNil(r.TotalReturn),
		MeanDailyReturn:  finiteOrNil(r.MeanDailyReturn),
		AnnualReturn:     finiteOrNil(r.AnnualReturn),
		VolatilityDaily:  finiteOrNil(r.VolatilityDaily),
		VolatilityAnnual: finiteOrNil(r.VolatilityAnnual),
		SharpeRatio:      finiteOrNil(r.SharpeRatio),
		MaxDrawdown:      finiteOrNil(r.MaxDrawdown),
		LastClose:        finiteOrNil(r.LastClose),
	})
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Band holds Bollinger band rows aligned to the source series: index i of
// each slice describes bar i, with NaN for the warm-up prefix.
type Band struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// IndicatorSet bundles the rolling indicators computed for one series.
// All slices except RollingVolatility align to the bar index; rolling
// volatility aligns to the return series, which is one element shorter.
type IndicatorSet struct {
	MovingAverages    map[int][]float64
	Bollinger         Band
	BollingerWindow   int
	RSI               []float64
	RSIWindow         int
	RollingVolatility []float64
	VolatilityWindow  int
}

// CrossCheck carries the statistics reported by an external validator,
// keyed by metric name.
type CrossCheck map[string]float64

// AnalysisResult is the outcome of analyzing one symbol. Rolling
// indicators are computed separately on request.
type AnalysisResult struct {
	Series     *PriceSeries
	Report     *SummaryReport
	CrossCheck CrossCheck
	DataSource string
}

// ComparisonResult holds per-symbol reports plus close prices normalized to
// a base of 100 so differently priced symbols chart on one scale.
type ComparisonResult struct {
	Symbols    []string
	Reports    map[string]*SummaryReport
	Normalized map[string][]float64
}
