package confidence

import (
	"context"
	"sync"
	"time"

	"ConfidenceMeter/internal/domain/models"
	"ConfidenceMeter/internal/domain/repository"
	"ConfidenceMeter/internal/service/indicators"
	"ConfidenceMeter/pkg/cache"
	"ConfidenceMeter/pkg/config"
	applogger "ConfidenceMeter/pkg/logger"
)

const neutralScore = 50.0

// Engine computes the full confidence breakdown: per-asset indicator
// scores, category aggregates and the sentiment-adjusted overall score.
// One short-TTL cache entry per lookback window bounds recomputation;
// concurrent requests racing an expired entry may each recompute, which
// is tolerated.
type Engine struct {
	cfg       *config.Config
	data      repository.MarketData
	sentiment repository.SentimentSource
	cache     cache.Service
	ttl       time.Duration
	logger    *applogger.Logger
	metrics   repository.Metrics
}

func NewEngine(cfg *config.Config, data repository.MarketData, sent repository.SentimentSource, c cache.Service, ttl time.Duration, l *applogger.Logger, m repository.Metrics) *Engine {
	return &Engine{cfg: cfg, data: data, sentiment: sent, cache: c, ttl: ttl, logger: l, metrics: m}
}

// BuildBreakdown is the main entry point. Per-asset history fetches and
// the sentiment fetch run concurrently and converge before aggregation.
// Upstream failures degrade to neutral values; the returned breakdown
// is always complete and well-formed.
func (e *Engine) BuildBreakdown(ctx context.Context, lookbackDays int) (models.ConfidenceBreakdown, error) {
	key := cache.GenerateKeyWithParams("breakdown", lookbackDays)
	var cached models.ConfidenceBreakdown
	if err := e.cache.Get(ctx, key, &cached); err == nil {
		e.metrics.RecordCacheHit("breakdown")
		return cached, nil
	}
	e.metrics.RecordCacheMiss("breakdown")

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		assets    = make(map[string]models.AssetConfidence, len(e.cfg.Assets))
		sentiment models.AggregateSentiment
	)

	for _, asset := range e.cfg.Assets {
		wg.Add(1)
		go func(asset config.AssetConfig) {
			defer wg.Done()
			ac := e.assetConfidence(ctx, asset, lookbackDays)
			mu.Lock()
			assets[asset.ID] = ac
			mu.Unlock()
		}(asset)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		sent, err := e.sentiment.Sentiment(ctx)
		if err != nil {
			e.logger.Warn("sentiment fetch failed, using neutral", applogger.Error(err))
			e.metrics.RecordNeutralFallback("sentiment")
			sent = models.AggregateSentiment{
				Markets:        map[string]models.MarketSentiment{},
				AggregateScore: neutralScore,
			}
		}
		mu.Lock()
		sentiment = sent
		mu.Unlock()
	}()

	wg.Wait()

	categories := e.aggregateCategories(assets)
	overall := e.overallScore(categories, sentiment.AggregateScore)

	breakdown := models.ConfidenceBreakdown{
		Overall:    overall,
		Categories: categories,
		Sentiment:  sentiment,
	}

	e.metrics.RecordOverallScore(overall)
	_ = e.cache.Set(ctx, key, breakdown, e.ttl)
	return breakdown, nil
}

// assetConfidence computes one asset's score, substituting the neutral
// result when the series is too short or the fetch failed.
func (e *Engine) assetConfidence(ctx context.Context, asset config.AssetConfig, lookbackDays int) models.AssetConfidence {
	series, err := e.data.HistoricalSeries(ctx, asset.ID, lookbackDays)
	if err != nil {
		e.logger.Warn("history fetch failed, using neutral",
			applogger.String("asset", asset.ID),
			applogger.Error(err),
		)
		e.metrics.RecordNeutralFallback("asset")
		return neutralAsset(0)
	}

	latest := 0.0
	if len(series) > 0 {
		latest = series[len(series)-1].Price
	}

	ind, ok := indicators.Compute(series)
	if !ok {
		e.metrics.RecordNeutralFallback("asset")
		return neutralAsset(latest)
	}

	return models.AssetConfidence{
		Score:      indicators.Score(ind),
		Indicators: ind,
		RawData:    map[string]float64{"latest_price": latest},
	}
}

func neutralAsset(latestPrice float64) models.AssetConfidence {
	return models.AssetConfidence{
		Score:      neutralScore,
		Indicators: models.Indicators{Momentum: 0.5, Trend: 0.5, Volatility: 0.5},
		RawData:    map[string]float64{"latest_price": latestPrice},
	}
}

// aggregateCategories groups asset confidences by configured category
// and computes each category's asset-weight-weighted score.
func (e *Engine) aggregateCategories(assets map[string]models.AssetConfidence) map[string]models.CategoryConfidence {
	out := make(map[string]models.CategoryConfidence)
	for category, members := range e.cfg.AssetsByCategory() {
		scores := make(map[string]float64, len(members))
		weights := make(map[string]float64, len(members))
		catAssets := make(map[string]models.AssetConfidence, len(members))
		for _, m := range members {
			ac, ok := assets[m.ID]
			if !ok {
				continue
			}
			scores[m.ID] = ac.Score
			weights[m.ID] = m.AssetWeight()
			catAssets[m.ID] = ac
		}
		out[category] = models.CategoryConfidence{
			Score:  weightedAverage(scores, weights),
			Assets: catAssets,
		}
	}
	return out
}

// overallScore blends category scores by configured category weight,
// then nudges the result by the bounded sentiment adjustment.
func (e *Engine) overallScore(categories map[string]models.CategoryConfidence, sentimentScore float64) float64 {
	catScores := make(map[string]float64, len(e.cfg.Weights))
	catWeights := make(map[string]float64, len(e.cfg.Weights))
	for category, weight := range e.cfg.Weights {
		score := neutralScore
		if cc, ok := categories[category]; ok {
			score = cc.Score
		}
		catScores[category] = score
		catWeights[category] = weight
	}
	base := weightedAverage(catScores, catWeights)

	// Map sentiment 0-100 into [-1, 1], 50 being neutral, then scale by
	// the configured adjustment cap and overall sentiment weight.
	deviation := (sentimentScore - neutralScore) / neutralScore
	adjustment := deviation * e.cfg.Sentiment.MaxAdjustmentPoints * e.cfg.Sentiment.OverallWeight

	return clamp(base+adjustment, 0, 100)
}

// weightedAverage computes sum(score*weight)/sum(weight) with a default
// weight of 1.0 for keys missing from the weight map. Zero total weight
// yields 0, matching the aggregation contract.
func weightedAverage(scores map[string]float64, weights map[string]float64) float64 {
	totalWeight := 0.0
	weightedSum := 0.0
	for key, score := range scores {
		w, ok := weights[key]
		if !ok {
			w = 1.0
		}
		weightedSum += score * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0.0
	}
	return weightedSum / totalWeight
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// AssetDetail computes the detail view for one asset outside of a full
// breakdown. Indicators and score are nil for short series.
func (e *Engine) AssetDetail(ctx context.Context, assetID string, lookbackDays int) (models.AssetDetailResponse, error) {
	asset, ok := e.cfg.AssetByID(assetID)
	if !ok {
		return models.AssetDetailResponse{}, ErrUnknownAsset
	}

	series, err := e.data.HistoricalSeries(ctx, assetID, lookbackDays)
	if err != nil {
		e.logger.Warn("history fetch failed for asset detail",
			applogger.String("asset", assetID),
			applogger.Error(err),
		)
		series = nil
	}

	latest := 0.0
	if len(series) > 0 {
		latest = series[len(series)-1].Price
	} else if p, err := e.data.LatestPrice(ctx, assetID); err == nil {
		latest = p
	}

	resp := models.AssetDetailResponse{
		Config: models.AssetInfo{
			ID:       asset.ID,
			Name:     asset.Name,
			Category: asset.Category,
			Source:   string(asset.Source),
		},
		LatestPrice: latest,
	}

	if ind, ok := indicators.Compute(series); ok {
		score := indicators.Score(ind)
		resp.Indicators = &ind
		resp.Score = &score
	}
	return resp, nil
}
