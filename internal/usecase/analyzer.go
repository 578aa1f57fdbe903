package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"MarketLens/internal/analytics"
	"MarketLens/internal/domain/models"
	domsvc "MarketLens/internal/domain/service"
	"MarketLens/internal/generator"
	"MarketLens/pkg/config"
	applogger "MarketLens/pkg/logger"

	"github.com/creasty/defaults"
)

// Data sources recorded on analysis results.
const (
	SourceSynthetic = "synthetic"
	SourceRemote    = "remote"
	SourceCSV       = "csv"
)

// IndicatorParams selects the rolling indicator windows. Zero values fall
// back to the defaults below.
type IndicatorParams struct {
	MAWindows  []int   `default:"[20,50]"`
	BollWindow int     `default:"20"`
	BollStd    float64 `default:"2"`
	RSIWindow  int     `default:"14"`
	VolWindow  int     `default:"20"`
}

// Analyzer orchestrates series acquisition, the summary report, rolling
// indicators, and the optional external cross-check.
type Analyzer struct {
	cfg       *config.Config
	remote    domsvc.RemoteQuotes
	validator domsvc.CrossValidator
	metrics   domsvc.Metrics
	log       *applogger.Logger
}

// NewAnalyzer creates an Analyzer. remote and validator may be nil, which
// disables the remote source and the cross-check respectively.
func NewAnalyzer(cfg *config.Config, remote domsvc.RemoteQuotes, validator domsvc.CrossValidator, metrics domsvc.Metrics, log *applogger.Logger) *Analyzer {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Analyzer{
		cfg:       cfg,
		remote:    remote,
		validator: validator,
		metrics:   metrics,
		log:       log,
	}
}

// Analyze produces the full analysis for one symbol. The series comes from
// the requested source; a failing remote source falls back to synthetic
// data instead of failing the request.
func (a *Analyzer) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalysisResult, error) {
	start := time.Now()

	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is empty", models.ErrInvalidInput)
	}

	series, dataSource, err := a.resolveSeries(ctx, symbol, req)
	if err != nil {
		return nil, err
	}

	res, err := a.analyzeSeries(ctx, series, req, dataSource)
	if err != nil {
		return nil, err
	}

	a.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	return res, nil
}

// AnalyzeSeries analyzes an externally supplied series, typically loaded
// from CSV. The series must pass validation; malformed input is rejected,
// never repaired.
func (a *Analyzer) AnalyzeSeries(ctx context.Context, series *models.PriceSeries, req *models.AnalyzeRequest) (*models.AnalysisResult, error) {
	start := time.Now()

	if series == nil {
		return nil, fmt.Errorf("%w: nil series", models.ErrInvalidInput)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	res, err := a.analyzeSeries(ctx, series, req, SourceCSV)
	if err != nil {
		return nil, err
	}

	a.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	return res, nil
}

// Export generates a synthetic series for flat tabular export.
func (a *Analyzer) Export(ctx context.Context, req *models.ExportRequest) (*models.PriceSeries, error) {
	start := time.Now()

	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is empty", models.ErrInvalidInput)
	}

	g := generator.New(req.Seed)
	series, err := g.Generate(symbol, req.Days, a.gbmOptions(nil, nil, nil)...)
	if err != nil {
		return nil, err
	}

	a.metrics.RecordLatency("export", time.Since(start).Seconds())
	return series, nil
}

// Indicators computes the rolling indicator set for a series.
func (a *Analyzer) Indicators(series *models.PriceSeries, p IndicatorParams) (*models.IndicatorSet, error) {
	if err := defaults.Set(&p); err != nil {
		return nil, fmt.Errorf("indicator defaults: %w", err)
	}

	closes := series.Closes()

	mas := make(map[int][]float64, len(p.MAWindows))
	for _, w := range p.MAWindows {
		ma, err := analytics.MovingAverage(closes, w)
		if err != nil {
			return nil, err
		}
		mas[w] = ma
	}

	bands, err := analytics.BollingerBands(closes, p.BollWindow, p.BollStd)
	if err != nil {
		return nil, err
	}

	rsi, err := analytics.RSI(closes, p.RSIWindow)
	if err != nil {
		return nil, err
	}

	returns, err := analytics.Returns(closes)
	if err != nil {
		return nil, err
	}
	vol, err := analytics.RollingVolatility(returns, p.VolWindow, true)
	if err != nil {
		return nil, err
	}

	return &models.IndicatorSet{
		MovingAverages:    mas,
		Bollinger:         bands,
		BollingerWindow:   p.BollWindow,
		RSI:               rsi,
		RSIWindow:         p.RSIWindow,
		RollingVolatility: vol,
		VolatilityWindow:  p.VolWindow,
	}, nil
}

func (a *Analyzer) resolveSeries(ctx context.Context, symbol string, req *models.AnalyzeRequest) (*models.PriceSeries, string, error) {
	if req.Source == SourceRemote && a.remote != nil {
		series, err := a.remote.FetchDaily(ctx, symbol, req.Days)
		if err == nil {
			return series, SourceRemote, nil
		}
		a.warn("remote source unavailable, using synthetic data",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		a.metrics.RecordError("remote_unavailable")
	}

	g := generator.New(req.Seed)
	series, err := g.Generate(symbol, req.Days, a.gbmOptions(req.InitialPrice, req.Drift, req.Volatility)...)
	if err != nil {
		return nil, "", err
	}
	return series, SourceSynthetic, nil
}

func (a *Analyzer) analyzeSeries(ctx context.Context, series *models.PriceSeries, req *models.AnalyzeRequest, dataSource string) (*models.AnalysisResult, error) {
	report, err := analytics.Summarize(series)
	if err != nil {
		return nil, err
	}
	a.applyRiskFreeRate(series, report)

	res := &models.AnalysisResult{
		Series:     series,
		Report:     report,
		DataSource: dataSource,
	}

	if req.CrossValidate {
		res.CrossCheck = a.crossCheck(ctx, series.Closes())
	}

	a.metrics.RecordReport(dataSource, series.Symbol)
	a.metrics.RecordLastClose(series.Symbol, report.LastClose)
	return res, nil
}

// applyRiskFreeRate re-derives the Sharpe ratio when the configured rate
// differs from the library default baked into Summarize.
func (a *Analyzer) applyRiskFreeRate(series *models.PriceSeries, report *models.SummaryReport) {
	rf := a.cfg.Analytics.RiskFreeRate
	if rf == analytics.DefaultRiskFreeRate {
		return
	}
	returns, err := analytics.Returns(series.Closes())
	if err != nil {
		return
	}
	sharpe, err := analytics.SharpeRatio(returns, rf, true)
	if err != nil {
		return
	}
	report.SharpeRatio = sharpe
}

// crossCheck runs the external validator. Any failure is logged and
// swallowed; the primary result never depends on the validator.
func (a *Analyzer) crossCheck(ctx context.Context, closes []float64) models.CrossCheck {
	if a.validator == nil {
		return nil
	}
	cc, err := a.validator.Summarize(ctx, closes)
	if err != nil {
		a.debug("cross validator unavailable",
			applogger.String("validator", a.validator.Name()),
			applogger.Error(err),
		)
		a.metrics.RecordError("delegate_unavailable")
		return nil
	}
	return cc
}

func (a *Analyzer) gbmOptions(initial, drift, vol *float64) []generator.Option {
	g := a.cfg.Generator
	return []generator.Option{
		generator.WithInitialPrice(orDefault(initial, g.InitialPrice)),
		generator.WithDrift(orDefault(drift, g.Drift)),
		generator.WithVolatility(orDefault(vol, g.Volatility)),
	}
}

func (a *Analyzer) warn(msg string, fields ...applogger.Field) {
	if a.log != nil {
		a.log.Warn(msg, fields...)
	}
}

func (a *Analyzer) debug(msg string, fields ...applogger.Field) {
	if a.log != nil {
		a.log.Debug(msg, fields...)
	}
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func orDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

type nopMetrics struct{}

func (nopMetrics) RecordReport(string, string)     {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastClose(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}
