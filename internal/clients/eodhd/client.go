// Package eodhd provides a client for the EODHD API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/mbraddock/equityscan/internal/common"
	"github.com/mbraddock/equityscan/internal/interfaces"
	"github.com/mbraddock/equityscan/internal/models"
)

const (
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// NormalizeTicker case-normalizes a ticker symbol. Exchange suffixes
// (".AU", ".US", ".NS", ...) are preserved verbatim; unfamiliar suffixes are
// deferred to the provider's own rejection. Empty or whitespace-only input is
// rejected before any network call.
func NormalizeTicker(ticker string) (string, error) {
	trimmed := strings.TrimSpace(ticker)
	if trimmed == "" {
		return "", fmt.Errorf("ticker must be non-empty")
	}
	return strings.ToUpper(trimmed), nil
}

// flexFloat64 handles JSON values that may be a number, a string, or null.
// nil pointer = value absent.
type flexFloat64 struct {
	value *float64
}

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		f.value = nil
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.value = &num
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			f.value = nil
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			f.value = nil
			return nil
		}
		f.value = &num
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	mapping    common.FundamentalsConfig
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithFieldMapping sets the gjson paths used to extract fundamental inputs
// from the provider payload.
func WithFieldMapping(mapping common.FundamentalsConfig) ClientOption {
	return func(c *Client) {
		c.mapping = mapping
	}
}

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		mapping: common.NewDefaultConfig().Fundamentals,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a rate-limited GET request and returns the response body.
func (c *Client) get(ctx context.Context, ticker, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &models.ProviderError{Ticker: ticker, Endpoint: path, Err: err}
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &models.ProviderError{Ticker: ticker, Endpoint: path, Err: err}
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.ProviderError{Ticker: ticker, Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.ProviderError{Ticker: ticker, Endpoint: path, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &models.ProviderError{
			Ticker:     ticker,
			StatusCode: resp.StatusCode,
			Endpoint:   path,
		}
	}

	return body, nil
}

// eodBarResponse represents a single bar in the API response. Price and volume
// fields may be missing or null for partial rows.
type eodBarResponse struct {
	Date   string      `json:"date"`
	Open   flexFloat64 `json:"open"`
	High   flexFloat64 `json:"high"`
	Low    flexFloat64 `json:"low"`
	Close  flexFloat64 `json:"close"`
	Volume *int64      `json:"volume"`
}

// GetEOD retrieves daily price bars, ascending by date. Returns
// *models.EmptyDataError when the ticker resolves but no bars exist in the
// requested window.
func (c *Client) GetEOD(ctx context.Context, ticker string, opts ...interfaces.EODOption) ([]models.PriceBar, error) {
	params := &interfaces.EODParams{
		Period: "d",
	}

	for _, opt := range opts {
		opt(params)
	}

	urlParams := url.Values{}
	urlParams.Set("period", params.Period)
	urlParams.Set("order", "a")

	if !params.From.IsZero() {
		urlParams.Set("from", params.From.Format("2006-01-02"))
	}
	if !params.To.IsZero() {
		urlParams.Set("to", params.To.Format("2006-01-02"))
	}

	path := fmt.Sprintf("/eod/%s", ticker)

	body, err := c.get(ctx, ticker, path, urlParams)
	if err != nil {
		return nil, err
	}

	var rows []eodBarResponse
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &models.ProviderError{Ticker: ticker, Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(rows) == 0 {
		return nil, &models.EmptyDataError{Ticker: ticker}
	}

	bars := make([]models.PriceBar, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			c.logger.Warn().Str("ticker", ticker).Str("date", row.Date).Msg("Skipping bar with unparseable date")
			continue
		}
		if !priceRelationshipsValid(row) {
			c.logger.Warn().Str("ticker", ticker).Str("date", row.Date).Msg("Skipping bar with inconsistent prices")
			continue
		}
		bars = append(bars, models.PriceBar{
			Date:   date,
			Open:   row.Open.value,
			High:   row.High.value,
			Low:    row.Low.value,
			Close:  row.Close.value,
			Volume: row.Volume,
		})
	}

	if len(bars) == 0 {
		return nil, &models.EmptyDataError{Ticker: ticker}
	}

	return bars, nil
}

// priceRelationshipsValid checks a row's price ordering: high >= low, and
// open/close inside [low, high]. Pairs with a missing side are not checked.
func priceRelationshipsValid(row eodBarResponse) bool {
	high, low := row.High.value, row.Low.value
	if high != nil && low != nil && *high < *low {
		return false
	}
	for _, p := range []*float64{row.Open.value, row.Close.value} {
		if p == nil {
			continue
		}
		if high != nil && *p > *high {
			return false
		}
		if low != nil && *p < *low {
			return false
		}
	}
	return true
}

// GetFundamentals retrieves a single fundamentals snapshot. The payload is
// provider-dependent, so values are extracted via the configured gjson paths
// rather than a fixed response struct.
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*models.Fundamentals, error) {
	path := fmt.Sprintf("/fundamentals/%s", ticker)

	body, err := c.get(ctx, ticker, path, nil)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		return nil, &models.ProviderError{Ticker: ticker, Endpoint: path, Err: fmt.Errorf("invalid JSON payload")}
	}

	doc := gjson.ParseBytes(body)

	f := &models.Fundamentals{
		Ticker:    ticker,
		AsOf:      time.Now().UTC(),
		RawFields: map[string]float64{},
	}

	if c.mapping.AsOf != "" {
		if r := doc.Get(c.mapping.AsOf); r.Exists() {
			if asOf, err := time.Parse("2006-01-02", r.String()); err == nil {
				f.AsOf = asOf
			}
		}
	}

	f.BookValuePerShare = c.extractField(doc, c.mapping.BookValuePerShare, "book_value_per_share", f.RawFields)
	f.TotalEquity = c.extractField(doc, c.mapping.TotalEquity, "total_equity", f.RawFields)
	f.PreferredEquity = c.extractField(doc, c.mapping.PreferredEquity, "preferred_equity", f.RawFields)
	f.SharesOutstanding = c.extractField(doc, c.mapping.SharesOutstanding, "shares_outstanding", f.RawFields)

	// Extra paths carry no computation role; they ride along in RawFields.
	for name, path := range c.mapping.Extra {
		c.extractField(doc, path, name, f.RawFields)
	}

	keys := make([]string, 0, len(f.RawFields))
	for k := range f.RawFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	c.logger.Debug().Str("ticker", ticker).Strs("fields", keys).Msg("Fundamentals extracted")

	return f, nil
}

// extractField resolves one mapped numeric path. Missing paths and
// non-numeric values yield nil; resolved values are also recorded in raw.
func (c *Client) extractField(doc gjson.Result, path, name string, raw map[string]float64) *float64 {
	if path == "" {
		return nil
	}
	r := doc.Get(path)
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if r.Type != gjson.Number && r.Type != gjson.String {
		return nil
	}
	if r.Type == gjson.String {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r.String()), 64)
		if err != nil {
			return nil
		}
		raw[name] = parsed
		return &parsed
	}
	v := r.Float()
	raw[name] = v
	return &v
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
