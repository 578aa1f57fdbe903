package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/analytics"
	"MarketLens/internal/domain/models"
	"MarketLens/internal/generator"
)

// Compare generates one synthetic series per symbol from a single seeded
// stream and reports each alongside its close path normalized to a base of
// 100. Symbols keep their input order; duplicates collapse to the first
// occurrence.
func (a *Analyzer) Compare(ctx context.Context, req *models.CompareRequest) (*models.ComparisonResult, error) {
	start := time.Now()

	symbols := normalizeSymbols(req.Symbols)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no symbols", models.ErrInvalidInput)
	}

	g := generator.New(req.Seed)
	series, err := g.GenerateMulti(symbols, req.Days)
	if err != nil {
		return nil, err
	}

	res := &models.ComparisonResult{
		Symbols:    symbols,
		Reports:    make(map[string]*models.SummaryReport, len(symbols)),
		Normalized: make(map[string][]float64, len(symbols)),
	}

	for _, sym := range symbols {
		s := series[sym]
		report, err := analytics.Summarize(s)
		if err != nil {
			return nil, err
		}
		a.applyRiskFreeRate(s, report)

		normalized, err := analytics.Normalize(s.Closes())
		if err != nil {
			return nil, err
		}

		res.Reports[sym] = report
		res.Normalized[sym] = normalized
		a.metrics.RecordReport(SourceSynthetic, sym)
		a.metrics.RecordLastClose(sym, report.LastClose)
	}

	a.metrics.RecordLatency("compare", time.Since(start).Seconds())
	return res, nil
}

func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		sym := normalizeSymbol(s)
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}
