package repository

import (
	"context"

	"ConfidenceMeter/internal/domain/models"
)

// MarketData supplies price history and latest prices for configured assets.
// Implementations must return series sorted ascending by timestamp and an
// empty series (not an error) when the upstream simply has no data.
type MarketData interface {
	HistoricalSeries(ctx context.Context, assetID string, lookbackDays int) ([]models.PricePoint, error)
	LatestPrice(ctx context.Context, assetID string) (float64, error)
}

// SentimentSource supplies the aggregated prediction-market sentiment.
type SentimentSource interface {
	Sentiment(ctx context.Context) (models.AggregateSentiment, error)
}

type Metrics interface {
	RecordFetch(provider, op string, seconds float64)
	RecordFetchError(provider, op string)
	RecordCacheHit(scope string)
	RecordCacheMiss(scope string)
	RecordNeutralFallback(kind string)
	RecordOverallScore(score float64)
}
