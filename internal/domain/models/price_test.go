package models

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func bar(date string, open, high, low, close float64) PricePoint {
	return PricePoint{Date: day(date), Open: open, High: high, Low: low, Close: close, Volume: 1_000_000}
}

func TestPriceSeriesValidate(t *testing.T) {
	valid := &PriceSeries{
		Symbol: "TEST",
		Points: []PricePoint{
			bar("2024-01-02", 100, 101, 99, 100.5),
			bar("2024-01-03", 100.5, 102, 100, 101.2),
		},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(s *PriceSeries)
	}{
		{"empty series", func(s *PriceSeries) { s.Points = nil }},
		{"missing symbol", func(s *PriceSeries) { s.Symbol = "" }},
		{"non-positive close", func(s *PriceSeries) { s.Points[1].Close = 0 }},
		{"negative volume", func(s *PriceSeries) { s.Points[0].Volume = -1 }},
		{"high below close", func(s *PriceSeries) { s.Points[0].High = s.Points[0].Close - 1 }},
		{"low above open", func(s *PriceSeries) { s.Points[1].Low = s.Points[1].Open + 1 }},
		{"duplicate date", func(s *PriceSeries) { s.Points[1].Date = s.Points[0].Date }},
		{"descending dates", func(s *PriceSeries) { s.Points[1].Date = s.Points[0].Date.AddDate(0, 0, -1) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &PriceSeries{Symbol: valid.Symbol, Points: append([]PricePoint(nil), valid.Points...)}
			tc.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "want ErrInvalidInput, got %v", err)
		})
	}
}

func TestPriceSeriesAccessors(t *testing.T) {
	s := &PriceSeries{
		Symbol: "TEST",
		Points: []PricePoint{
			bar("2024-01-02", 100, 101, 99, 100.5),
			bar("2024-01-03", 100.5, 102, 100, 101.2),
			bar("2024-01-04", 101.2, 103, 101, 102.8),
		},
	}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{100.5, 101.2, 102.8}, s.Closes())
	assert.Equal(t, "2024-01-02 to 2024-01-04", s.Period())

	var empty *PriceSeries
	assert.Equal(t, 0, empty.Len())
}

func TestSummaryReportMarshalNaNAsNull(t *testing.T) {
	r := SummaryReport{
		Symbol:           "TEST",
		Period:           "2024-01-02 to 2024-01-03",
		TotalDays:        2,
		MeanPrice:        100,
		MinPrice:         99,
		MaxPrice:         101,
		TotalReturn:      1.5,
		VolatilityDaily:  math.NaN(),
		VolatilityAnnual: math.NaN(),
		SharpeRatio:      math.NaN(),
		MaxDrawdown:      0,
		LastClose:        101,
	}
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Nil(t, decoded["volatility_annual"])
	assert.Nil(t, decoded["sharpe_ratio"])
	assert.Equal(t, 101.0, decoded["last_close"])
	assert.Equal(t, "TEST", decoded["symbol"])
}
