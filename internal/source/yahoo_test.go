package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketLens/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartBody(symbol string) string {
	ts := func(day int) int64 {
		return time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC).Unix()
	}
	// Middle bar is a null bar (holiday) and must be skipped.
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {"symbol": %q},
				"timestamp": [%d, %d, %d],
				"indicators": {"quote": [{
					"open":   [100.5, null, 101.0],
					"high":   [102.0, null, 103.5],
					"low":    [99.5,  null, 100.25],
					"close":  [101.0, null, 102.75],
					"volume": [1500000, null, 2500000]
				}]}
			}],
			"error": null
		}
	}`, symbol, ts(26), ts(27), ts(28))
}

func TestYahooFetchDaily(t *testing.T) {
	var gotPath, gotRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartBody("AAPL"))
	}))
	defer srv.Close()

	client := NewYahooClient(srv.URL, time.Second)
	series, err := client.FetchDaily(context.Background(), "AAPL", 30)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	assert.Equal(t, "1mo", gotRange)

	require.Equal(t, 2, series.Len(), "null bar must be skipped")
	assert.Equal(t, "AAPL", series.Symbol)
	assert.Equal(t, "2024-06-26", series.Points[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-06-28", series.Points[1].Date.Format("2006-01-02"))
	assert.Equal(t, 101.0, series.Points[0].Close)
	assert.Equal(t, 102.75, series.Points[1].Close)
	assert.Equal(t, int64(2500000), series.Points[1].Volume)
}

func TestYahooFetchDailyMapsSymbols(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, chartBody("BRK-B"))
	}))
	defer srv.Close()

	client := NewYahooClient(srv.URL, time.Second, WithSymbolMap(map[string]string{"BRK.B": "BRK-B"}))
	series, err := client.FetchDaily(context.Background(), "BRK.B", 30)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/BRK-B", gotPath)
	assert.Equal(t, "BRK.B", series.Symbol, "series keeps the local symbol")
}

func TestYahooFetchDailyTrimsToRequestedDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody("AAPL"))
	}))
	defer srv.Close()

	series, err := NewYahooClient(srv.URL, time.Second).FetchDaily(context.Background(), "AAPL", 1)
	require.NoError(t, err)
	require.Equal(t, 1, series.Len())
	assert.Equal(t, "2024-06-28", series.Points[0].Date.Format("2006-01-02"))
}

func TestYahooFetchDailyErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusTooManyRequests)
		}))
		defer srv.Close()
		_, err := NewYahooClient(srv.URL, time.Second).FetchDaily(context.Background(), "AAPL", 10)
		assert.Error(t, err)
	})

	t.Run("api error object", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
		}))
		defer srv.Close()
		_, err := NewYahooClient(srv.URL, time.Second).FetchDaily(context.Background(), "NOPE", 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "No data found")
	})

	t.Run("empty result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
		}))
		defer srv.Close()
		_, err := NewYahooClient(srv.URL, time.Second).FetchDaily(context.Background(), "AAPL", 10)
		assert.Error(t, err)
	})

	t.Run("malformed bars rejected", func(t *testing.T) {
		// high < open violates the OHLC bound; the payload must not reach
		// callers as a valid series.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{
				"chart": {
					"result": [{
						"timestamp": [%d],
						"indicators": {"quote": [{
							"open": [100.0], "high": [90.0], "low": [89.0],
							"close": [95.0], "volume": [1000000]
						}]}
					}],
					"error": null
				}
			}`, time.Date(2024, 6, 26, 0, 0, 0, 0, time.UTC).Unix())
		}))
		defer srv.Close()
		_, err := NewYahooClient(srv.URL, time.Second).FetchDaily(context.Background(), "AAPL", 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		client := NewYahooClient("", time.Second)
		_, err := client.FetchDaily(context.Background(), "", 10)
		assert.Error(t, err)
		_, err = client.FetchDaily(context.Background(), "AAPL", 0)
		assert.Error(t, err)
	})
}
