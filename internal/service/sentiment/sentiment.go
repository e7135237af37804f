package sentiment

import (
	"context"
	"math"
	"time"

	"ConfidenceMeter/internal/domain/models"
	"ConfidenceMeter/internal/domain/repository"
	"ConfidenceMeter/pkg/cache"
	"ConfidenceMeter/pkg/config"
	applogger "ConfidenceMeter/pkg/logger"
	"ConfidenceMeter/pkg/normalize"
)

const cacheKey = "polymarket_sentiment"

// QuoteProvider fetches the raw YES probability for one contract.
// ok=false means the market has no usable quote and must be omitted
// from aggregation, not defaulted to neutral.
type QuoteProvider interface {
	MarketQuote(ctx context.Context, slug string) (prob float64, ok bool, err error)
}

// Service aggregates prediction-market probabilities into one sentiment
// score, caching the result for a short window.
type Service struct {
	quotes  QuoteProvider
	markets []config.MarketConfig
	cache   cache.Service
	ttl     time.Duration
	logger  *applogger.Logger
	metrics repository.Metrics
}

func New(quotes QuoteProvider, markets []config.MarketConfig, c cache.Service, ttl time.Duration, l *applogger.Logger, m repository.Metrics) *Service {
	return &Service{quotes: quotes, markets: markets, cache: c, ttl: ttl, logger: l, metrics: m}
}

// Sentiment returns the aggregate sentiment across all configured
// markets. Markets whose quotes are missing, unparseable or transport-
// failed are omitted; with nothing left, the aggregate is neutral 50.
func (s *Service) Sentiment(ctx context.Context) (models.AggregateSentiment, error) {
	var cached models.AggregateSentiment
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		s.metrics.RecordCacheHit("sentiment")
		return cached, nil
	}
	s.metrics.RecordCacheMiss("sentiment")

	markets := make(map[string]models.MarketSentiment, len(s.markets))
	for _, cfg := range s.markets {
		raw, ok, err := s.quotes.MarketQuote(ctx, cfg.Slug)
		if err != nil {
			s.logger.Warn("market quote failed, omitting",
				applogger.String("market", cfg.ID),
				applogger.Error(err),
			)
			s.metrics.RecordFetchError("polymarket", "quote")
			continue
		}
		if !ok {
			s.logger.Warn("market quote unavailable, omitting", applogger.String("market", cfg.ID))
			continue
		}
		markets[cfg.ID] = Convert(cfg, raw)
	}

	result := models.AggregateSentiment{
		Markets:        markets,
		AggregateScore: Aggregate(markets) * 100.0,
	}

	_ = s.cache.Set(ctx, cacheKey, result, s.ttl)
	return result, nil
}

// Convert turns a raw YES probability into the market's sentiment
// contribution, applying direction inversion for markets where a high
// probability is bad for confidence.
func Convert(cfg config.MarketConfig, rawProb float64) models.MarketSentiment {
	prob := normalize.Probability(rawProb)
	if cfg.Direction == config.DirectionNegative {
		prob = 1.0 - prob
	}
	prob = normalize.Probability(prob)

	return models.MarketSentiment{
		ID:          cfg.ID,
		Name:        cfg.Name,
		Probability: prob,
		Impact:      cfg.MarketImpact(),
	}
}

// Aggregate computes the impact-weighted mean probability in [0, 1].
// Non-finite probabilities and non-positive impacts are excluded so a
// single bad upstream value cannot poison the sum; with no surviving
// markets or zero total impact it returns the neutral 0.5.
func Aggregate(markets map[string]models.MarketSentiment) float64 {
	weightedSum := 0.0
	totalWeight := 0.0
	for _, m := range markets {
		if math.IsNaN(m.Probability) || math.IsInf(m.Probability, 0) {
			continue
		}
		if m.Impact <= 0 {
			continue
		}
		weightedSum += m.Probability * m.Impact
		totalWeight += m.Impact
	}
	if totalWeight <= 0 {
		return 0.5
	}
	return weightedSum / totalWeight
}
