package source

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	xhttp "MarketLens/pkg/http"
	"MarketLens/pkg/util"
)

// DefaultYahooBaseURL is the public chart API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooClient fetches real daily bars from the Yahoo Finance chart API.
// It is best-effort by design: callers fall back to synthetic data when a
// fetch fails.
type YahooClient struct {
	base    string
	symbols map[string]string
	client  *xhttp.Client
}

// YahooOption configures the client.
type YahooOption func(*YahooClient)

// WithSymbolMap remaps local symbols to the tickers the chart API expects,
// e.g. "BRK.B" to "BRK-B". Unmapped symbols pass through unchanged.
func WithSymbolMap(m map[string]string) YahooOption {
	return func(c *YahooClient) {
		c.symbols = m
	}
}

// NewYahooClient builds a client against baseURL (the default host when
// empty) with the given request timeout.
func NewYahooClient(baseURL string, timeout time.Duration, opts ...YahooOption) *YahooClient {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	c := &YahooClient{
		base:   strings.TrimRight(baseURL, "/"),
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// yahooChart is the response structure of the chart API. Prices arrive as
// nullable arrays; a bar with all prices null is a non-trading day.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily returns up to days of the most recent daily bars for symbol,
// oldest first. Null bars (holidays) are skipped; a payload that violates
// the series invariants is rejected, not repaired.
func (c *YahooClient) FetchDaily(ctx context.Context, symbol string, days int) (*models.PriceSeries, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", models.ErrInvalidInput)
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", models.ErrInvalidInput, days)
	}
	ticker := symbol
	if mapped, ok := c.symbols[symbol]; ok {
		ticker = mapped
	}

	var chart yahooChart
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.base, url.PathEscape(ticker)),
		QueryParams: map[string][]string{
			"interval": {"1d"},
			"range":    {rangeForDays(days)},
		},
		Headers: map[string]string{"User-Agent": "Mozilla/5.0"},
	}, &chart)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data for %s", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	points := make([]models.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, cl := deref(quote.Open, i), deref(quote.High, i), deref(quote.Low, i), deref(quote.Close, i)
		if o == nil || h == nil || l == nil || cl == nil {
			continue
		}
		var volume int64
		if v := derefInt(quote.Volume, i); v != nil {
			volume = *v
		}
		points = append(points, models.PricePoint{
			Date:   util.Day(time.Unix(ts, 0).UTC()),
			Open:   *o,
			High:   *h,
			Low:    *l,
			Close:  *cl,
			Volume: volume,
		})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("yahoo: only null bars for %s", symbol)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	if len(points) > days {
		points = points[len(points)-days:]
	}
	series := &models.PriceSeries{Symbol: symbol, Points: points}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("yahoo: malformed bars for %s: %w", symbol, err)
	}
	return series, nil
}

// rangeForDays maps a bar count to the smallest chart API range covering
// it. Daily data caps out at two years.
func rangeForDays(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	default:
		return "2y"
	}
}

func deref(xs []*float64, i int) *float64 {
	if i >= len(xs) {
		return nil
	}
	return xs[i]
}

func derefInt(xs []*int64, i int) *int64 {
	if i >= len(xs) {
		return nil
	}
	return xs[i]
}
