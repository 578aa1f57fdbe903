package api

import (
	"math"
	"strconv"

	"MarketLens/internal/domain/models"
	"MarketLens/pkg/util"
)

// Candle is one OHLCV bar in API responses.
type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// SeriesPayload is a rolling indicator series. Warm-up values are null.
type SeriesPayload struct {
	Window int        `json:"window"`
	Values []*float64 `json:"values"`
}

// BandPayload carries the three Bollinger band rows.
type BandPayload struct {
	Window int        `json:"window"`
	Middle []*float64 `json:"middle"`
	Upper  []*float64 `json:"upper"`
	Lower  []*float64 `json:"lower"`
}

// IndicatorsPayload bundles the chart-ready indicator series.
type IndicatorsPayload struct {
	MovingAverages    map[string][]*float64 `json:"moving_averages"`
	Bollinger         BandPayload           `json:"bollinger"`
	RSI               SeriesPayload         `json:"rsi"`
	RollingVolatility SeriesPayload         `json:"rolling_volatility"`
}

// AnalysisResponse is the payload of POST /api/analyze.
type AnalysisResponse struct {
	Symbol     string                `json:"symbol"`
	DataSource string                `json:"data_source"`
	Report     *models.SummaryReport `json:"report"`
	Candles    []Candle              `json:"candles"`
	Indicators *IndicatorsPayload    `json:"indicators,omitempty"`
	CrossCheck models.CrossCheck     `json:"cross_check,omitempty"`
}

// CompareResponse is the payload of POST /api/compare.
type CompareResponse struct {
	Symbols    []string                         `json:"symbols"`
	Reports    map[string]*models.SummaryReport `json:"reports"`
	Normalized map[string][]float64             `json:"normalized"`
}

func newAnalysisResponse(res *models.AnalysisResult, ind *models.IndicatorSet) *AnalysisResponse {
	out := &AnalysisResponse{
		Symbol:     res.Series.Symbol,
		DataSource: res.DataSource,
		Report:     res.Report,
		Candles:    newCandles(res.Series),
		CrossCheck: res.CrossCheck,
	}
	if ind != nil {
		payload := &IndicatorsPayload{
			MovingAverages: make(map[string][]*float64, len(ind.MovingAverages)),
			Bollinger: BandPayload{
				Window: ind.BollingerWindow,
				Middle: nullable(ind.Bollinger.Middle),
				Upper:  nullable(ind.Bollinger.Upper),
				Lower:  nullable(ind.Bollinger.Lower),
			},
			RSI:               SeriesPayload{Window: ind.RSIWindow, Values: nullable(ind.RSI)},
			RollingVolatility: SeriesPayload{Window: ind.VolatilityWindow, Values: nullable(ind.RollingVolatility)},
		}
		for window, values := range ind.MovingAverages {
			payload.MovingAverages[maKey(window)] = nullable(values)
		}
		out.Indicators = payload
	}
	return out
}

func newCompareResponse(res *models.ComparisonResult) *CompareResponse {
	return &CompareResponse{
		Symbols:    res.Symbols,
		Reports:    res.Reports,
		Normalized: res.Normalized,
	}
}

func newCandles(series *models.PriceSeries) []Candle {
	out := make([]Candle, 0, series.Len())
	for _, p := range series.Points {
		out = append(out, Candle{
			Date:   p.Date.Format(util.DayFormat),
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		})
	}
	return out
}

// nullable maps NaN entries to JSON null.
func nullable(xs []float64) []*float64 {
	out := make([]*float64, len(xs))
	for i := range xs {
		if !math.IsNaN(xs[i]) {
			v := xs[i]
			out[i] = &v
		}
	}
	return out
}

func maKey(window int) string {
	return "ma_" + strconv.Itoa(window)
}
