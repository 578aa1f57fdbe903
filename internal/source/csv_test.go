package source

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/generator"
)

func TestCSVRoundTrip(t *testing.T) {
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	series, err := generator.New(42).Generate("TEST", 60, generator.WithEndDate(end))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSeries(&buf, series))

	got, err := ReadSeries(&buf)
	require.NoError(t, err)
	assert.Equal(t, series, got, "round-trip must reproduce every value exactly")
}

func TestCSVRoundTripThroughFile(t *testing.T) {
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	series, err := generator.New(7).Generate("FILE", 20, generator.WithEndDate(end))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "file.csv")
	require.NoError(t, SaveCSV(path, series))

	got, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, series, got)
}

func TestReadSeriesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"wrong header", "Date,Ticker,Open,High,Low,Close,Volume\n"},
		{"missing column", "Date,Symbol,Open,High,Low,Close\n"},
		{"no rows", "Date,Symbol,Open,High,Low,Close,Volume\n"},
		{
			"bad date",
			"Date,Symbol,Open,High,Low,Close,Volume\n28/06/2024,TEST,1,2,0.5,1.5,1000000\n",
		},
		{
			"bad price",
			"Date,Symbol,Open,High,Low,Close,Volume\n2024-06-28,TEST,abc,2,0.5,1.5,1000000\n",
		},
		{
			"bad volume",
			"Date,Symbol,Open,High,Low,Close,Volume\n2024-06-28,TEST,1,2,0.5,1.5,1.5e6\n",
		},
		{
			"ohlc violation not repaired",
			"Date,Symbol,Open,High,Low,Close,Volume\n2024-06-28,TEST,100,99,98,100,1000000\n",
		},
		{
			"mixed symbols",
			"Date,Symbol,Open,High,Low,Close,Volume\n" +
				"2024-06-27,AAA,1,2,0.5,1.5,1000000\n" +
				"2024-06-28,BBB,1,2,0.5,1.5,1000000\n",
		},
		{
			"unsorted dates",
			"Date,Symbol,Open,High,Low,Close,Volume\n" +
				"2024-06-28,TEST,1,2,0.5,1.5,1000000\n" +
				"2024-06-27,TEST,1,2,0.5,1.5,1000000\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadSeries(strings.NewReader(tc.csv))
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestReadSeriesAcceptsHandWrittenFile(t *testing.T) {
	raw := "Date,Symbol,Open,High,Low,Close,Volume\n" +
		"2024-06-27,TEST,100.5,101.25,99.75,101,2000000\n" +
		"2024-06-28,TEST,101,102,100.5,101.5,3000000\n"
	series, err := ReadSeries(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "TEST", series.Symbol)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, 101.25, series.Points[0].High)
	assert.Equal(t, int64(3000000), series.Points[1].Volume)
}

func TestWriteSeriesRejectsInvalidSeries(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSeries(&buf, &models.PriceSeries{Symbol: "TEST"})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}
