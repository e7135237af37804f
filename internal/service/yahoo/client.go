package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ConfidenceMeter/internal/domain/models"
	"ConfidenceMeter/pkg/config"
	xhttp "ConfidenceMeter/pkg/http"
	"ConfidenceMeter/pkg/util"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Client fetches daily close series from the Yahoo Finance chart API.
type Client struct {
	baseURL string
	client  *xhttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

func New(cfg config.ProviderConfig) *Client {
	perSecond := rate.Limit(float64(cfg.RatePerMinute) / 60.0)
	st := gobreaker.Settings{Name: "yahoo"}
	st.ReadyToTrip = func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 5 }

	return &Client{
		baseURL: cfg.BaseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: rate.NewLimiter(perSecond, 2),
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches the daily close series for a symbol over the lookback
// window. Returns an empty series when Yahoo has no rows for the range;
// null closes (market holidays) are skipped.
func (c *Client) History(ctx context.Context, symbol string, lookbackDays int) ([]models.PricePoint, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start, end := util.LookbackRange(time.Now(), lookbackDays)

	var payload chartResponse
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol),
			QueryParams: map[string][]string{
				"period1":  {strconv.FormatInt(start.Unix(), 10)},
				"period2":  {strconv.FormatInt(end.Unix(), 10)},
				"interval": {"1d"},
			},
		}, &payload)
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: %s", symbol, payload.Chart.Error.Code)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	closes := result.Indicators.Quote[0].Close

	points := make([]models.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, models.PricePoint{
			Timestamp: ts,
			Price:     *closes[i],
		})
	}
	return points, nil
}
