package indicators

import (
	"math"

	"ConfidenceMeter/internal/domain/models"
	"ConfidenceMeter/pkg/normalize"
)

// Blend weights for the per-asset score. Fixed, not configurable per call.
const (
	momentumWeight   = 0.5
	trendWeight      = 0.3
	volatilityWeight = 0.2
)

func percentChange(old, new float64) float64 {
	if old == 0 {
		return 0.0
	}
	return (new - old) / old
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdev is the n-1 standard deviation; 0 for fewer than 2 values.
func sampleStdev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0.0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - m
		variance += d * d
	}
	variance /= float64(n - 1)
	return math.Sqrt(variance)
}

// Compute derives normalized momentum, trend and volatility from one
// price series. Returns ok=false when the series holds fewer than two
// points, in which case the caller substitutes a neutral result.
func Compute(series []models.PricePoint) (models.Indicators, bool) {
	if len(series) < 2 {
		return models.Indicators{}, false
	}

	prices := make([]float64, len(series))
	for i, p := range series {
		prices[i] = p.Price
	}
	first := prices[0]
	last := prices[len(prices)-1]

	// Momentum: full-window percent change.
	rawReturn := percentChange(first, last)
	momentum := normalize.Momentum(rawReturn, normalize.DefaultMinReturn, normalize.DefaultMaxReturn)

	// Trend: last price vs. unweighted mean of the window.
	ma := mean(prices)
	priceOverMA := 1.0
	if ma != 0 {
		priceOverMA = last / ma
	}
	trend := normalize.Trend(priceOverMA, normalize.DefaultMinTrendRatio, normalize.DefaultMaxTrendRatio)

	// Volatility: sample stdev of period-over-period returns, inverted
	// so calm markets score high.
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, percentChange(prices[i-1], prices[i]))
	}
	vol := normalize.Volatility(sampleStdev(returns), normalize.DefaultLowVol, normalize.DefaultHighVol, true)

	return models.Indicators{
		Momentum:   momentum,
		Trend:      trend,
		Volatility: vol,
	}, true
}

// Score blends the three indicators into a single 0-100 asset score.
func Score(ind models.Indicators) float64 {
	score01 := momentumWeight*ind.Momentum + trendWeight*ind.Trend + volatilityWeight*ind.Volatility
	return normalize.ToPercentage(score01)
}
