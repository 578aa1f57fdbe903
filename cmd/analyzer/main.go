// Command analyzer generates synthetic market data and prints an analytics
// report to the terminal. It runs the same engine as the HTTP server but
// needs no network: defaults come from the config file, every knob has a
// flag, and output is either a plain-text table or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"MarketLens/internal/di"
	"MarketLens/internal/domain/models"
	"MarketLens/internal/source"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/config"
	"MarketLens/pkg/util"
)

const bannerWidth = 60

type options struct {
	symbol        string
	symbols       []string
	days          int
	seed          int64
	initialPrice  *float64
	drift         *float64
	volatility    *float64
	saveCSV       string
	loadCSV       string
	crossValidate bool
	asJSON        bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	symbol := flag.String("symbol", "STOCK", "single symbol to analyze")
	symbols := flag.String("symbols", "", "comma separated symbols to compare")
	days := flag.Int("days", 0, "trading days to generate (0 = config default)")
	seed := flag.Int64("seed", 0, "generator seed (0 = config default)")
	initialPrice := flag.Float64("initial-price", 0, "starting price override")
	drift := flag.Float64("drift", 0, "daily drift override")
	volatility := flag.Float64("volatility", 0, "daily volatility override")
	saveCSV := flag.String("save-csv", "", "write the series to a CSV file")
	loadCSV := flag.String("load-csv", "", "analyze an existing CSV file instead of generating")
	crossValidate := flag.Bool("cross-validate", false, "run the external cross validator")
	asJSON := flag.Bool("json", false, "print the report as JSON")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		return err
	}

	// Only flags the user actually set override the config. Zero is a
	// legal value for drift and volatility, so presence matters.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	opts := options{
		symbol:        *symbol,
		symbols:       util.SplitSymbols(*symbols),
		days:          *days,
		seed:          *seed,
		saveCSV:       *saveCSV,
		loadCSV:       *loadCSV,
		crossValidate: *crossValidate,
		asJSON:        *asJSON,
	}
	if !set["days"] {
		opts.days = cfg.Generator.Days
	}
	if !set["seed"] {
		opts.seed = cfg.Generator.Seed
	}
	if set["initial-price"] {
		opts.initialPrice = initialPrice
	}
	if set["drift"] {
		opts.drift = drift
	}
	if set["volatility"] {
		opts.volatility = volatility
	}

	analyzer := usecase.NewAnalyzer(cfg, nil, di.ProvideCrossValidator(cfg), nil, nil)
	ctx := context.Background()

	if len(opts.symbols) > 0 {
		return runCompare(ctx, analyzer, opts)
	}
	return runSingle(ctx, analyzer, opts)
}

func runSingle(ctx context.Context, analyzer *usecase.Analyzer, opts options) error {
	req := &models.AnalyzeRequest{
		Symbol:        opts.symbol,
		Days:          opts.days,
		Seed:          opts.seed,
		Source:        usecase.SourceSynthetic,
		CrossValidate: opts.crossValidate,
		InitialPrice:  opts.initialPrice,
		Drift:         opts.drift,
		Volatility:    opts.volatility,
	}

	if !opts.asJSON {
		printBanner("Market Data Analyzer")
		fmt.Println()
		if opts.loadCSV != "" {
			fmt.Printf("Loading data from %s...\n", opts.loadCSV)
		} else {
			fmt.Printf("Generating data for %s...\n", strings.ToUpper(strings.TrimSpace(opts.symbol)))
			fmt.Printf("Period: %d trading days\n", opts.days)
		}
		fmt.Println()
	}

	res, err := analyzeOne(ctx, analyzer, req, opts.loadCSV)
	if err != nil {
		return err
	}

	if opts.saveCSV != "" {
		if err := source.SaveCSV(opts.saveCSV, res.Series); err != nil {
			return err
		}
	}

	if opts.asJSON {
		return printJSON(struct {
			Symbol     string                `json:"symbol"`
			DataSource string                `json:"data_source"`
			Report     *models.SummaryReport `json:"report"`
			CrossCheck models.CrossCheck     `json:"cross_check,omitempty"`
		}{res.Series.Symbol, res.DataSource, res.Report, res.CrossCheck})
	}

	if opts.loadCSV != "" {
		fmt.Printf("Loaded %d data points\n", res.Series.Len())
	} else {
		fmt.Printf("Generated %d data points\n", res.Series.Len())
	}
	fmt.Printf("Date range: %s\n", res.Report.Period)
	fmt.Println()

	if opts.saveCSV != "" {
		fmt.Printf("Data saved to %s\n", opts.saveCSV)
		fmt.Println()
	}

	printBanner("Analytics Report")
	printReport(res.Report)

	if opts.crossValidate {
		fmt.Println()
		printBanner("External Cross-Check")
		if len(res.CrossCheck) > 0 {
			printCrossCheck(res.CrossCheck)
		} else {
			fmt.Println("  External validator not available.")
			fmt.Println("  Set delegate.command in the config to enable it.")
		}
	}

	fmt.Println("\nAnalysis complete!")
	return nil
}

func runCompare(ctx context.Context, analyzer *usecase.Analyzer, opts options) error {
	req := &models.CompareRequest{
		Symbols: opts.symbols,
		Days:    opts.days,
		Seed:    opts.seed,
	}

	if !opts.asJSON {
		printBanner("Market Data Analyzer")
		fmt.Println()
		fmt.Printf("Analyzing %d stocks: %s\n", len(opts.symbols), strings.Join(opts.symbols, ", "))
		fmt.Printf("Period: %d trading days\n", opts.days)
	}

	res, err := analyzer.Compare(ctx, req)
	if err != nil {
		return err
	}

	if opts.asJSON {
		return printJSON(struct {
			Symbols    []string                         `json:"symbols"`
			Reports    map[string]*models.SummaryReport `json:"reports"`
			Normalized map[string][]float64             `json:"normalized"`
		}{res.Symbols, res.Reports, res.Normalized})
	}

	for _, sym := range res.Symbols {
		fmt.Println()
		printBanner("Analytics Report: " + sym)
		printReport(res.Reports[sym])
	}

	fmt.Println("\nAnalysis complete!")
	return nil
}

func analyzeOne(ctx context.Context, analyzer *usecase.Analyzer, req *models.AnalyzeRequest, csvPath string) (*models.AnalysisResult, error) {
	if csvPath == "" {
		return analyzer.Analyze(ctx, req)
	}
	series, err := source.LoadCSV(csvPath)
	if err != nil {
		return nil, err
	}
	return analyzer.AnalyzeSeries(ctx, series, req)
}

func printBanner(title string) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Println(rule)
	fmt.Println(title)
	fmt.Println(rule)
}

func printReport(r *models.SummaryReport) {
	printLine("symbol", r.Symbol)
	printLine("period", r.Period)
	printLine("total_days", fmt.Sprintf("%d", r.TotalDays))
	printFloat("mean_price", r.MeanPrice)
	printFloat("min_price", r.MinPrice)
	printFloat("max_price", r.MaxPrice)
	printFloat("total_return", r.TotalReturn)
	printFloat("mean_daily_return", r.MeanDailyReturn)
	printFloat("annual_return", r.AnnualReturn)
	printFloat("volatility_daily", r.VolatilityDaily)
	printFloat("volatility_annual", r.VolatilityAnnual)
	printFloat("sharpe_ratio", r.SharpeRatio)
	printFloat("max_drawdown", r.MaxDrawdown)
	printFloat("last_close", r.LastClose)
}

func printCrossCheck(cc models.CrossCheck) {
	keys := make([]string, 0, len(cc))
	for k := range cc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printFloat(k, cc[k])
	}
}

// printLine renders one dot-padded report row, e.g.
// "  mean_price.................... 101.2345".
func printLine(key, value string) {
	if pad := 30 - len(key); pad > 0 {
		key += strings.Repeat(".", pad)
	}
	fmt.Printf("  %s %s\n", key, value)
}

func printFloat(key string, v float64) {
	printLine(key, fmt.Sprintf("%.4f", v))
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
