package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ConfidenceMeter/pkg/config"
	xhttp "ConfidenceMeter/pkg/http"
	applogger "ConfidenceMeter/pkg/logger"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Client reads market quotes from the Polymarket Gamma API.
type Client struct {
	baseURL string
	client  *xhttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *applogger.Logger
}

func New(cfg config.ProviderConfig, l *applogger.Logger) *Client {
	perSecond := rate.Limit(float64(cfg.RatePerMinute) / 60.0)
	st := gobreaker.Settings{Name: "polymarket"}
	st.ReadyToTrip = func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 5 }

	return &Client{
		baseURL: cfg.BaseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: rate.NewLimiter(perSecond, 2),
		breaker: gobreaker.NewCircuitBreaker(st),
		logger:  l,
	}
}

type gammaMarket struct {
	Slug          string          `json:"slug"`
	Question      string          `json:"question"`
	OutcomePrices json.RawMessage `json:"outcomePrices"`
}

// MarketQuote fetches one binary market by slug and returns the YES
// probability (outcome index 0). ok=false means the market carried no
// usable prices and must be omitted from aggregation; err is reserved
// for transport failures.
func (c *Client) MarketQuote(ctx context.Context, slug string) (float64, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, false, err
	}

	var market gammaMarket
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    fmt.Sprintf("%s/markets/slug/%s", c.baseURL, slug),
		}, &market)
	})
	if err != nil {
		return 0, false, fmt.Errorf("gamma market %s: %w", slug, err)
	}

	prices, err := ParseOutcomePrices(market.OutcomePrices)
	if err != nil {
		c.logger.Warn("unparseable outcome prices",
			applogger.String("slug", slug),
			applogger.Error(err),
		)
		return 0, false, nil
	}
	if len(prices) == 0 {
		return 0, false, nil
	}

	// YES is always the first outcome in exact market order.
	return prices[0], true, nil
}

// ParseOutcomePrices decodes the Gamma `outcomePrices` field, which has
// shipped in three shapes over time: a native JSON array of numbers or
// numeric strings, a string-encoded JSON array, and a legacy
// comma-joined string. Any other shape is an error and the market is
// omitted by the caller.
func ParseOutcomePrices(raw json.RawMessage) ([]float64, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no outcomePrices")
	}

	var items []interface{}
	if err := json.Unmarshal(raw, &items); err == nil {
		return floatSlice(items)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("outcomePrices is neither array nor string: %s", raw)
	}

	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return nil, fmt.Errorf("string-encoded array: %w", err)
		}
		return floatSlice(items)
	}

	// Legacy comma-joined format, e.g. "0.415,0.585".
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("csv element %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func floatSlice(items []interface{}) ([]float64, error) {
	out := make([]float64, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case float64:
			out = append(out, v)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("array element %q: %w", v, err)
			}
			out = append(out, f)
		default:
			return nil, fmt.Errorf("array element of type %T", it)
		}
	}
	return out, nil
}
