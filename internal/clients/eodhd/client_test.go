package eodhd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraddock/equityscan/internal/common"
	"github.com/mbraddock/equityscan/internal/interfaces"
	"github.com/mbraddock/equityscan/internal/models"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "uppercases", input: "nvda", expected: "NVDA"},
		{name: "trims whitespace", input: "  msft  ", expected: "MSFT"},
		{name: "preserves exchange suffix", input: "bhp.au", expected: "BHP.AU"},
		{name: "already normalized", input: "RELIANCE.NS", expected: "RELIANCE.NS"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeTicker(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", WithBaseURL(server.URL), WithRateLimit(1000))
}

func TestGetEOD_ParsesBars(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/eod/NVDA", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_token"))
		assert.Equal(t, "d", r.URL.Query().Get("period"))
		assert.Equal(t, "a", r.URL.Query().Get("order"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2024-01-31", r.URL.Query().Get("to"))

		w.Write([]byte(`[
			{"date":"2024-01-02","open":100.5,"high":105,"low":99,"close":104,"volume":1200000},
			{"date":"2024-01-03","open":null,"high":null,"low":null,"close":null,"volume":null},
			{"date":"2024-01-04","open":"106.5","high":"N/A","low":"","close":"108","volume":900000}
		]`))
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	bars, err := client.GetEOD(context.Background(), "NVDA", interfaces.WithDateRange(from, to))
	require.NoError(t, err)
	require.Len(t, bars, 3)

	require.NotNil(t, bars[0].Close)
	assert.Equal(t, 104.0, *bars[0].Close)
	require.NotNil(t, bars[0].Volume)
	assert.Equal(t, int64(1200000), *bars[0].Volume)

	// Null row survives as a bar with nil fields; cleaning deals with it later.
	assert.Nil(t, bars[1].Close)
	assert.Nil(t, bars[1].Volume)

	// String-encoded numbers parse; non-numeric strings become nil.
	require.NotNil(t, bars[2].Open)
	assert.Equal(t, 106.5, *bars[2].Open)
	assert.Nil(t, bars[2].High)
	assert.Nil(t, bars[2].Low)
	require.NotNil(t, bars[2].Close)
	assert.Equal(t, 108.0, *bars[2].Close)
}

func TestGetEOD_PeriodOption(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "w", r.URL.Query().Get("period"))
		w.Write([]byte(`[{"date":"2024-01-05","close":10}]`))
	})

	bars, err := client.GetEOD(context.Background(), "NVDA", interfaces.WithPeriod("w"))
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}

func TestGetEOD_SkipsInconsistentPriceRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"date":"2024-01-02","open":100,"high":95,"low":99,"close":97},
			{"date":"2024-01-03","open":100,"high":105,"low":99,"close":110},
			{"date":"2024-01-04","open":98,"high":105,"low":99,"close":104},
			{"date":"2024-01-05","open":100,"high":105,"low":99,"close":104}
		]`))
	})

	// high < low, close > high, open < low: all three rows dropped.
	bars, err := client.GetEOD(context.Background(), "NVDA")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "2024-01-05", bars[0].Date.Format("2006-01-02"))
}

func TestGetEOD_PartialRowsSkipPriceChecks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"date":"2024-01-02","open":null,"high":null,"low":null,"close":104},
			{"date":"2024-01-03","open":100,"high":105,"low":null,"close":104}
		]`))
	})

	bars, err := client.GetEOD(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Len(t, bars, 2, "rows missing a side of a comparison are kept")
}

func TestGetEOD_SkipsUnparseableDates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"date":"not-a-date","close":10},
			{"date":"2024-01-03","close":20}
		]`))
	})

	bars, err := client.GetEOD(context.Background(), "NVDA")
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 20.0, *bars[0].Close)
}

func TestGetEOD_EmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := client.GetEOD(context.Background(), "NVDA")

	var emptyErr *models.EmptyDataError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, "NVDA", emptyErr.Ticker)
}

func TestGetEOD_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetEOD(context.Background(), "UNKNOWN")

	var providerErr *models.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusNotFound, providerErr.StatusCode)
	assert.Equal(t, "UNKNOWN", providerErr.Ticker)
}

func TestGetEOD_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	})

	_, err := client.GetEOD(context.Background(), "NVDA")

	var providerErr *models.ProviderError
	assert.ErrorAs(t, err, &providerErr)
}

func TestGetFundamentals_DefaultMapping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fundamentals/NVDA", r.URL.Path)
		w.Write([]byte(`{
			"General": {"UpdatedAt": "2024-06-15"},
			"Highlights": {
				"BookValue": 12.34,
				"TotalStockholderEquity": 5000000,
				"PreferredEquity": null,
				"PERatio": 31.5,
				"EarningsShare": 2.8
			},
			"SharesStats": {"SharesOutstanding": 250000},
			"Valuation": {"EnterpriseValue": 98765432}
		}`))
	})

	f, err := client.GetFundamentals(context.Background(), "NVDA")
	require.NoError(t, err)

	assert.Equal(t, "NVDA", f.Ticker)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), f.AsOf)
	require.NotNil(t, f.BookValuePerShare)
	assert.Equal(t, 12.34, *f.BookValuePerShare)
	require.NotNil(t, f.TotalEquity)
	assert.Equal(t, 5000000.0, *f.TotalEquity)
	assert.Nil(t, f.PreferredEquity)
	require.NotNil(t, f.SharesOutstanding)
	assert.Equal(t, 250000.0, *f.SharesOutstanding)

	assert.Contains(t, f.RawFields, "book_value_per_share")
	assert.NotContains(t, f.RawFields, "preferred_equity")

	// Extra mapped fields ride along in RawFields without a computation role.
	assert.Equal(t, 31.5, f.RawFields["pe_ratio"])
	assert.Equal(t, 2.8, f.RawFields["eps"])
	assert.Equal(t, 98765432.0, f.RawFields["enterprise_value"])
	assert.NotContains(t, f.RawFields, "revenue", "absent extra paths leave no entry")
}

func TestGetFundamentals_CustomMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balanceSheet":{"equity":"9000","shares":"300"},"income":{"net":4500}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient("test-key",
		WithBaseURL(server.URL),
		WithRateLimit(1000),
		WithFieldMapping(common.FundamentalsConfig{
			TotalEquity:       "balanceSheet.equity",
			SharesOutstanding: "balanceSheet.shares",
			Extra:             map[string]string{"net_income": "income.net"},
		}),
	)

	f, err := client.GetFundamentals(context.Background(), "NVDA")
	require.NoError(t, err)

	require.NotNil(t, f.TotalEquity)
	assert.Equal(t, 9000.0, *f.TotalEquity)
	require.NotNil(t, f.SharesOutstanding)
	assert.Equal(t, 300.0, *f.SharesOutstanding)
	assert.Nil(t, f.BookValuePerShare, "unmapped fields stay nil")
	assert.Equal(t, 4500.0, f.RawFields["net_income"])
}

func TestGetFundamentals_NonNumericStrings(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Highlights":{"BookValue":"N/A"}}`))
	})

	f, err := client.GetFundamentals(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Nil(t, f.BookValuePerShare)
}

func TestGetFundamentals_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GetFundamentals(context.Background(), "NVDA")

	var providerErr *models.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusTooManyRequests, providerErr.StatusCode)
}
