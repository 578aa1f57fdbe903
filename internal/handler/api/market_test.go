package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/source"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type analysisEnvelope struct {
	Status int `json:"status"`
	Data   struct {
		Symbol     string               `json:"symbol"`
		DataSource string               `json:"data_source"`
		Report     models.SummaryReport `json:"report"`
		Candles    []Candle             `json:"candles"`
		Indicators IndicatorsPayload    `json:"indicators"`
		CrossCheck map[string]float64   `json:"cross_check"`
	} `json:"data"`
}

type compareEnvelope struct {
	Status int             `json:"status"`
	Data   CompareResponse `json:"data"`
}

func newTestHandler(t *testing.T, limiter *ratelimit.Limiter) *MarketHandler {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	analyzer := usecase.NewAnalyzer(cfg, nil, nil, nil, nil)
	return NewMarketHandler(nil, analyzer, limiter)
}

func newTestEcho(t *testing.T, limiter *ratelimit.Limiter) *echo.Echo {
	t.Helper()
	e := echo.New()
	newTestHandler(t, limiter).RegisterRoutes(e)
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeEndpoint(t *testing.T) {
	e := newTestEcho(t, nil)

	rec := doRequest(e, http.MethodPost, "/api/analyze", `{"symbol":"test","days":60,"seed":7}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env analysisEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, "TEST", env.Data.Symbol)
	assert.Equal(t, usecase.SourceSynthetic, env.Data.DataSource)
	assert.Equal(t, 60, env.Data.Report.TotalDays)
	assert.Len(t, env.Data.Candles, 60)
	assert.Empty(t, env.Data.CrossCheck)

	rsi := env.Data.Indicators.RSI
	assert.Equal(t, 14, rsi.Window)
	require.Len(t, rsi.Values, 60)
	assert.Nil(t, rsi.Values[0], "warm-up values serialize as null")
	assert.Nil(t, rsi.Values[12])
	assert.NotNil(t, rsi.Values[13])

	require.Contains(t, env.Data.Indicators.MovingAverages, "ma_20")
	require.Contains(t, env.Data.Indicators.MovingAverages, "ma_50")
	assert.Len(t, env.Data.Indicators.MovingAverages["ma_20"], 60)
	assert.Len(t, env.Data.Indicators.RollingVolatility.Values, 59)
}

func TestAnalyzeValidation(t *testing.T) {
	e := newTestEcho(t, nil)

	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"missing symbol", `{"days":60}`, "ERR_REQUIRED", "Symbol"},
		{"days too small", `{"symbol":"x","days":1}`, "ERR_GTE", "Days"},
		{"bad source", `{"symbol":"x","days":60,"source":"oracle"}`, "ERR_ONEOF", "Source"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(e, http.MethodPost, "/api/analyze", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var env xhttp.APIResponse400Err
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			require.NotEmpty(t, env.Data)
			assert.Equal(t, tc.code, env.Data[0].Code)
			assert.Equal(t, tc.field, env.Data[0].Field)
		})
	}
}

func TestAnalyzeWindowLargerThanSeries(t *testing.T) {
	e := newTestEcho(t, nil)

	// 10 bars cannot fill the default 20-bar indicator windows
	rec := doRequest(e, http.MethodPost, "/api/analyze", `{"symbol":"x","days":10}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_BAD_REQUEST")
}

func TestCompareEndpoint(t *testing.T) {
	e := newTestEcho(t, nil)

	rec := doRequest(e, http.MethodPost, "/api/compare", `{"symbols":["aaa","bbb"],"days":60,"seed":11}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env compareEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	assert.Equal(t, []string{"AAA", "BBB"}, env.Data.Symbols)
	require.Contains(t, env.Data.Reports, "AAA")
	require.Contains(t, env.Data.Reports, "BBB")
	require.Len(t, env.Data.Normalized["AAA"], 60)
	assert.Equal(t, 100.0, env.Data.Normalized["AAA"][0])
}

func TestCompareValidation(t *testing.T) {
	e := newTestEcho(t, nil)

	rec := doRequest(e, http.MethodPost, "/api/compare", `{"symbols":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env xhttp.APIResponse400Err
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data)
	assert.Equal(t, "Symbols", env.Data[0].Field)
}

func TestExportEndpoint(t *testing.T) {
	e := newTestEcho(t, nil)

	rec := doRequest(e, http.MethodGet, "/api/export?symbol=exp&days=12&seed=3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "EXP_prices.csv")

	series, err := source.ReadSeries(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "EXP", series.Symbol)
	assert.Equal(t, 12, series.Len())
}

func TestExportValidation(t *testing.T) {
	e := newTestEcho(t, nil)

	rec := doRequest(e, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_REQUIRED")
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestEcho(t, nil)

	rec := doRequest(e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRateLimitedEndpoint(t *testing.T) {
	e := newTestEcho(t, ratelimit.New(0.001, 1))

	first := doRequest(e, http.MethodGet, "/api/export?symbol=a&days=5&seed=1", "")
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(e, http.MethodGet, "/api/export?symbol=a&days=5&seed=1", "")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "ERR_RATE_LIMITED")
}

func TestHealthThroughServerStack(t *testing.T) {
	quiet, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stdout"})
	require.NoError(t, err)

	srv := xhttp.NewServer(newTestHandler(t, nil),
		xhttp.WithLogger(quiet),
		xhttp.WithMetricsPath("/metrics"),
	)

	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	metricsRec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, metricsRec.Code)
}
