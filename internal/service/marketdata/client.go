package marketdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MarketLens/internal/domain/models"
	drepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/service/ratelimit"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"
)

// Client fetches daily bars from a candle REST endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	rate    float64
	burst   float64
	logger  *applogger.Logger
}

var _ drepo.PriceProvider = (*Client)(nil)

// New creates a new daily-bar PriceProvider.
func New(baseURL, apiKey string, timeout time.Duration, ratePerSec, burst float64) *Client {
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	if burst <= 0 {
		burst = ratePerSec
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		limiter: ratelimit.New(),
		rate:    ratePerSec,
		burst:   burst,
	}
}

// SetLogger attaches a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.logger = l }

// candleResponse mirrors the provider's /stock/candle payload.
// Status "no_data" means the range holds no trading days.
type candleResponse struct {
	Status string    `json:"s"`
	Times  []int64   `json:"t"`
	Closes []float64 `json:"c"`
}

// FetchDailyBars fetches daily close bars for symbol over [from, to].
func (c *Client) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error) {
	if err := c.limiter.Wait(ctx, "provider", c.burst, c.rate); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var resp candleResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch candles %s: %w", symbol, err)
	}

	if resp.Status == "no_data" {
		return nil, nil
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("fetch candles %s: status %q", symbol, resp.Status)
	}
	if len(resp.Times) != len(resp.Closes) {
		return nil, fmt.Errorf("fetch candles %s: %d timestamps vs %d closes", symbol, len(resp.Times), len(resp.Closes))
	}

	bars := make([]models.PriceBar, 0, len(resp.Times))
	for i, ts := range resp.Times {
		bars = append(bars, models.PriceBar{
			Symbol: symbol,
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close:  resp.Closes[i],
		})
	}

	if c.logger != nil {
		c.logger.Debug("fetched daily bars",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
		)
	}
	return bars, nil
}
