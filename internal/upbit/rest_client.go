package upbit

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"upbit-trade-dashboard/internal/config"
	"upbit-trade-dashboard/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.upbit.com/v1"
	maxRetries     = 3
)

// RestClientInterface defines the interface for the Upbit quotation API client.
type RestClientInterface interface {
	GetTickers(ctx context.Context, markets []string) ([]Ticker, error)
	Prices(ctx context.Context, coins []models.Coin) (map[models.Coin]float64, error)
}

// RestClient is a client for the public Upbit quotation API.
// It implements the RestClientInterface.
type RestClient struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
	backoff func(attempt int) time.Duration
}

// ensure RestClient implements the interface
var _ RestClientInterface = (*RestClient)(nil)

// NewRestClient creates a new Upbit REST API client.
func NewRestClient(cfg *config.Upbit, logger *zap.Logger) *RestClient {
	url := cfg.BaseURL
	if url == "" {
		url = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(url).
		SetHeader("Accept", "application/json")
	if cfg.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)
	}

	// rate.Limit is requests per second.
	limit, burst := rate.Limit(cfg.RateLimit), cfg.RateLimitBurst
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(limit, burst)

	return &RestClient{
		client:  client,
		logger:  logger.Named("upbit"),
		limiter: limiter,
		backoff: exponentialBackoff,
	}
}

// exponentialBackoff waits 1s, 2s, 4s.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * time.Second
}

// Ticker is the subset of the /ticker response the dashboard needs.
type Ticker struct {
	Market     string  `json:"market"`
	TradePrice float64 `json:"trade_price"`
	Timestamp  int64   `json:"timestamp"`
}

// GetTickers fetches the latest trade price of each market, e.g. "KRW-BTC".
func (c *RestClient) GetTickers(ctx context.Context, markets []string) ([]Ticker, error) {
	var tickers []Ticker

	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("markets", strings.Join(markets, ",")).
		SetResult(&tickers)

	resp, err := c.doRequest(ctx, http.MethodGet, "/ticker", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickers: %w", err)
	}

	return *resp.Result().(*[]Ticker), nil
}

// Prices quotes the KRW price of each coin. It satisfies the dashboard's
// price source.
func (c *RestClient) Prices(ctx context.Context, coins []models.Coin) (map[models.Coin]float64, error) {
	markets := make([]string, 0, len(coins))
	byMarket := make(map[string]models.Coin, len(coins))
	for _, coin := range coins {
		markets = append(markets, coin.Market())
		byMarket[coin.Market()] = coin
	}

	tickers, err := c.GetTickers(ctx, markets)
	if err != nil {
		return nil, err
	}

	prices := make(map[models.Coin]float64, len(tickers))
	for _, t := range tickers {
		if coin, ok := byMarket[t.Market]; ok {
			prices[coin] = t.TradePrice
		}
	}
	return prices, nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error

	for i := 0; i < maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
		} else if ctx.Err() == nil {
			// network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			if err != nil {
				return nil, fmt.Errorf("request failed: %w", err)
			}
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		if retryAfter == 0 {
			retryAfter = c.backoff(i)
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err == nil {
		err = fmt.Errorf("status %s", resp.Status())
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}
