package coingecko

import (
	"context"
	"fmt"
	"strconv"

	"ConfidenceMeter/internal/domain/models"
	"ConfidenceMeter/pkg/config"
	xhttp "ConfidenceMeter/pkg/http"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Client talks to the CoinGecko REST API (free tier, keyless).
type Client struct {
	baseURL string
	client  *xhttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// New creates a CoinGecko client with the configured timeout and pacing.
func New(cfg config.ProviderConfig) *Client {
	perSecond := rate.Limit(float64(cfg.RatePerMinute) / 60.0)
	st := gobreaker.Settings{Name: "coingecko"}
	st.ReadyToTrip = func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 5 }

	return &Client{
		baseURL: cfg.BaseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: rate.NewLimiter(perSecond, 2),
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

type marketChartResponse struct {
	Prices [][]float64 `json:"prices"` // [ms timestamp, price]
}

// History fetches the daily price series for a coin over the lookback
// window. Timestamps arrive in milliseconds and are converted to seconds.
func (c *Client) History(ctx context.Context, coinID string, lookbackDays int) ([]models.PricePoint, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var chart marketChartResponse
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    fmt.Sprintf("%s/coins/%s/market_chart", c.baseURL, coinID),
			QueryParams: map[string][]string{
				"vs_currency": {"usd"},
				"days":        {strconv.Itoa(lookbackDays)},
			},
		}, &chart)
	})
	if err != nil {
		return nil, fmt.Errorf("coingecko market_chart %s: %w", coinID, err)
	}

	points := make([]models.PricePoint, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		if len(p) < 2 {
			continue
		}
		points = append(points, models.PricePoint{
			Timestamp: int64(p[0]) / 1000,
			Price:     p[1],
		})
	}
	return points, nil
}

// SimplePrice fetches the current USD price for a coin.
func (c *Client) SimplePrice(ctx context.Context, coinID string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	var payload map[string]map[string]float64
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.baseURL + "/simple/price",
			QueryParams: map[string][]string{
				"ids":           {coinID},
				"vs_currencies": {"usd"},
			},
		}, &payload)
	})
	if err != nil {
		return 0, fmt.Errorf("coingecko simple/price %s: %w", coinID, err)
	}

	price, ok := payload[coinID]["usd"]
	if !ok {
		return 0, fmt.Errorf("coingecko simple/price %s: no usd quote", coinID)
	}
	return price, nil
}
