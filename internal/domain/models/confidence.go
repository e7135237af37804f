package models

// PricePoint is one observation in an asset's price history.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"` // unix seconds
	Price     float64 `json:"price"`
}

// Indicators holds the three normalized per-asset scores, each in [0, 1].
type Indicators struct {
	Momentum   float64 `json:"momentum"`
	Trend      float64 `json:"trend"`
	Volatility float64 `json:"volatility"`
}

// AssetConfidence is the per-asset result: a 0-100 score with the
// indicators it was blended from and a few raw inputs for display.
type AssetConfidence struct {
	Score      float64            `json:"score"`
	Indicators Indicators         `json:"indicators"`
	RawData    map[string]float64 `json:"raw_data"`
}

// CategoryConfidence is the weighted average of its member assets.
type CategoryConfidence struct {
	Score  float64                    `json:"score"`
	Assets map[string]AssetConfidence `json:"assets"`
}

// MarketSentiment is one prediction-market contract's contribution after
// direction inversion: probability is "probability of the outcome
// favorable to confidence", not the raw market price.
type MarketSentiment struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
	Impact      float64 `json:"impact"`
}

// AggregateSentiment is the impact-weighted view across all surviving markets.
type AggregateSentiment struct {
	Markets        map[string]MarketSentiment `json:"markets"`
	AggregateScore float64                    `json:"aggregate_sentiment_score"`
}

// ConfidenceBreakdown is the full computation output.
type ConfidenceBreakdown struct {
	Overall    float64                       `json:"overall"`
	Categories map[string]CategoryConfidence `json:"categories"`
	Sentiment  AggregateSentiment            `json:"polymarket_sentiment"`
}
