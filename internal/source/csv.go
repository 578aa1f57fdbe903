// Package source loads price series from outside the generator: flat CSV
// files and the Yahoo Finance chart API.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"MarketLens/internal/domain/models"
	"MarketLens/pkg/util"
)

// csvHeader is the fixed column layout shared by export and import.
var csvHeader = []string{"Date", "Symbol", "Open", "High", "Low", "Close", "Volume"}

// WriteSeries writes the series as CSV with a header row. Floats use the
// shortest representation that round-trips exactly, so a written file reads
// back bit-identical.
func WriteSeries(w io.Writer, series *models.PriceSeries) error {
	if err := series.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range series.Points {
		row := []string{
			p.Date.Format(util.DayFormat),
			series.Symbol,
			formatFloat(p.Open),
			formatFloat(p.High),
			formatFloat(p.Low),
			formatFloat(p.Close),
			strconv.FormatInt(p.Volume, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSeries parses a CSV file produced by WriteSeries (or any file with
// the same columns). Rows must belong to a single symbol and already
// satisfy the OHLC invariant; malformed input is rejected, never repaired.
func ReadSeries(r io.Reader) (*models.PriceSeries, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty csv", models.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	series := &models.PriceSeries{}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		line++

		point, symbol, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if series.Symbol == "" {
			series.Symbol = symbol
		} else if series.Symbol != symbol {
			return nil, fmt.Errorf("%w: row %d: mixed symbols %q and %q",
				models.ErrInvalidInput, line, series.Symbol, symbol)
		}
		series.Points = append(series.Points, point)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// SaveCSV writes the series to a file, creating or truncating it.
func SaveCSV(path string, series *models.PriceSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSeries(f, series); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadCSV reads a series from a file.
func LoadCSV(path string) (*models.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	series, err := ReadSeries(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return fmt.Errorf("%w: expected %d columns, got %d",
			models.ErrInvalidInput, len(csvHeader), len(header))
	}
	for i, want := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("%w: column %d: expected %q, got %q",
				models.ErrInvalidInput, i, want, header[i])
		}
	}
	return nil
}

func parseRow(record []string) (models.PricePoint, string, error) {
	if len(record) != len(csvHeader) {
		return models.PricePoint{}, "", fmt.Errorf("%w: expected %d fields, got %d",
			models.ErrInvalidInput, len(csvHeader), len(record))
	}
	date, err := util.ParseDay(strings.TrimSpace(record[0]))
	if err != nil {
		return models.PricePoint{}, "", fmt.Errorf("%w: bad date %q", models.ErrInvalidInput, record[0])
	}
	symbol := strings.TrimSpace(record[1])

	var prices [4]float64
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[2+i]), 64)
		if err != nil {
			return models.PricePoint{}, "", fmt.Errorf("%w: bad %s %q",
				models.ErrInvalidInput, strings.ToLower(csvHeader[2+i]), record[2+i])
		}
		prices[i] = v
	}
	volume, err := strconv.ParseInt(strings.TrimSpace(record[6]), 10, 64)
	if err != nil {
		return models.PricePoint{}, "", fmt.Errorf("%w: bad volume %q", models.ErrInvalidInput, record[6])
	}

	return models.PricePoint{
		Date:   date,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, symbol, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
