package confidence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ConfidenceMeter/internal/domain/models"
	"ConfidenceMeter/pkg/cache"
	"ConfidenceMeter/pkg/config"
	applogger "ConfidenceMeter/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketData struct {
	mu      sync.Mutex
	series  map[string][]models.PricePoint
	errs    map[string]error
	prices  map[string]float64
	fetches int
}

func (f *fakeMarketData) HistoricalSeries(_ context.Context, assetID string, _ int) ([]models.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if err, found := f.errs[assetID]; found {
		return nil, err
	}
	return f.series[assetID], nil
}

func (f *fakeMarketData) LatestPrice(_ context.Context, assetID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prices[assetID], nil
}

type fakeSentiment struct {
	result models.AggregateSentiment
	err    error
}

func (f *fakeSentiment) Sentiment(context.Context) (models.AggregateSentiment, error) {
	return f.result, f.err
}

type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, string, float64) {}
func (nopMetrics) RecordFetchError(string, string)     {}
func (nopMetrics) RecordCacheHit(string)               {}
func (nopMetrics) RecordCacheMiss(string)              {}
func (nopMetrics) RecordNeutralFallback(string)        {}
func (nopMetrics) RecordOverallScore(float64)          {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	return l
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Assets = []config.AssetConfig{
		{ID: "spy", Name: "S&P 500", Category: "equities", Source: config.SourceYahoo, YahooSymbol: "SPY"},
		{ID: "btc", Name: "Bitcoin", Category: "crypto", Source: config.SourceCoinGecko, CoinGeckoID: "bitcoin", Weight: 1.5},
	}
	cfg.Weights = map[string]float64{
		"equities": 0.6,
		"crypto":   0.4,
	}
	cfg.Sentiment.OverallWeight = 0.15
	cfg.Sentiment.MaxAdjustmentPoints = 10.0
	return cfg
}

func rising(prices ...float64) []models.PricePoint {
	pts := make([]models.PricePoint, len(prices))
	for i, p := range prices {
		pts[i] = models.PricePoint{Timestamp: int64(i), Price: p}
	}
	return pts
}

func neutralSentiment() *fakeSentiment {
	return &fakeSentiment{result: models.AggregateSentiment{
		Markets:        map[string]models.MarketSentiment{},
		AggregateScore: 50.0,
	}}
}

func newTestEngine(t *testing.T, cfg *config.Config, data *fakeMarketData, sent *fakeSentiment) *Engine {
	t.Helper()
	return NewEngine(cfg, data, sent, cache.NewMemoryCache(), 30*time.Second, testLogger(t), nopMetrics{})
}

func TestBuildBreakdownComplete(t *testing.T) {
	data := &fakeMarketData{series: map[string][]models.PricePoint{
		"spy": rising(100, 102, 104, 106),
		"btc": rising(50000, 51000, 52000, 53000),
	}}
	eng := newTestEngine(t, testConfig(), data, neutralSentiment())

	bd, err := eng.BuildBreakdown(context.Background(), 30)
	require.NoError(t, err)

	assert.Len(t, bd.Categories, 2)
	assert.Contains(t, bd.Categories, "equities")
	assert.Contains(t, bd.Categories, "crypto")
	assert.Len(t, bd.Categories["equities"].Assets, 1)
	assert.GreaterOrEqual(t, bd.Overall, 0.0)
	assert.LessOrEqual(t, bd.Overall, 100.0)

	// Rising prices everywhere should read better than neutral.
	assert.Greater(t, bd.Overall, 50.0)
}

func TestBuildBreakdownNeutralOnFetchError(t *testing.T) {
	data := &fakeMarketData{
		series: map[string][]models.PricePoint{"spy": rising(100, 102, 104)},
		errs:   map[string]error{"btc": errors.New("provider down")},
	}
	eng := newTestEngine(t, testConfig(), data, neutralSentiment())

	bd, err := eng.BuildBreakdown(context.Background(), 30)
	require.NoError(t, err)

	btc := bd.Categories["crypto"].Assets["btc"]
	assert.Equal(t, 50.0, btc.Score)
	assert.Equal(t, 0.5, btc.Indicators.Momentum)
}

func TestBuildBreakdownNeutralOnSentimentError(t *testing.T) {
	data := &fakeMarketData{series: map[string][]models.PricePoint{
		"spy": rising(100, 102, 104),
		"btc": rising(100, 102, 104),
	}}
	sent := &fakeSentiment{err: errors.New("gamma down")}
	eng := newTestEngine(t, testConfig(), data, sent)

	bd, err := eng.BuildBreakdown(context.Background(), 30)
	require.NoError(t, err)

	assert.Empty(t, bd.Sentiment.Markets)
	assert.Equal(t, 50.0, bd.Sentiment.AggregateScore)
}

func TestBuildBreakdownCached(t *testing.T) {
	data := &fakeMarketData{series: map[string][]models.PricePoint{
		"spy": rising(100, 102, 104),
		"btc": rising(100, 102, 104),
	}}
	eng := newTestEngine(t, testConfig(), data, neutralSentiment())

	first, err := eng.BuildBreakdown(context.Background(), 30)
	require.NoError(t, err)
	fetchesAfterFirst := data.fetches

	second, err := eng.BuildBreakdown(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, first.Overall, second.Overall)
	assert.Equal(t, fetchesAfterFirst, data.fetches)

	// A different lookback window is a distinct cache entry.
	_, err = eng.BuildBreakdown(context.Background(), 7)
	require.NoError(t, err)
	assert.Greater(t, data.fetches, fetchesAfterFirst)
}

func TestOverallScoreSentimentAdjustment(t *testing.T) {
	cfg := testConfig()
	eng := newTestEngine(t, cfg, &fakeMarketData{}, neutralSentiment())

	categories := map[string]models.CategoryConfidence{
		"equities": {Score: 50.0},
		"crypto":   {Score: 50.0},
	}

	// Neutral sentiment leaves the base untouched.
	assert.InDelta(t, 50.0, eng.overallScore(categories, 50.0), 1e-9)

	// Max bullish sentiment: +1 * 10 points * 0.15 weight = +1.5.
	assert.InDelta(t, 51.5, eng.overallScore(categories, 100.0), 1e-9)

	// Max bearish sentiment mirrors to -1.5.
	assert.InDelta(t, 48.5, eng.overallScore(categories, 0.0), 1e-9)
}

func TestOverallScoreMissingCategoryIsNeutral(t *testing.T) {
	cfg := testConfig()
	eng := newTestEngine(t, cfg, &fakeMarketData{}, neutralSentiment())

	// Only equities present: crypto slot fills with neutral 50.
	categories := map[string]models.CategoryConfidence{
		"equities": {Score: 80.0},
	}
	// 0.6*80 + 0.4*50 = 68
	assert.InDelta(t, 68.0, eng.overallScore(categories, 50.0), 1e-9)
}

func TestOverallScoreClamped(t *testing.T) {
	cfg := testConfig()
	cfg.Sentiment.OverallWeight = 1.0
	cfg.Sentiment.MaxAdjustmentPoints = 500.0
	eng := newTestEngine(t, cfg, &fakeMarketData{}, neutralSentiment())

	categories := map[string]models.CategoryConfidence{
		"equities": {Score: 90.0},
		"crypto":   {Score: 90.0},
	}
	assert.Equal(t, 100.0, eng.overallScore(categories, 100.0))
	assert.Equal(t, 0.0, eng.overallScore(categories, 0.0))
}

func TestWeightedAverage(t *testing.T) {
	// 40 at weight 1 plus 60 at weight 3: (40 + 180) / 4 = 55.
	got := weightedAverage(
		map[string]float64{"a": 40, "b": 60},
		map[string]float64{"a": 1.0, "b": 3.0},
	)
	assert.InDelta(t, 55.0, got, 1e-9)

	// Defaults to weight 1.0 for keys missing from the weight map.
	got = weightedAverage(
		map[string]float64{"a": 40, "b": 60},
		map[string]float64{"b": 3.0},
	)
	assert.InDelta(t, 55.0, got, 1e-9)

	// Zero total weight yields 0.
	got = weightedAverage(
		map[string]float64{"a": 40},
		map[string]float64{"a": 0.0},
	)
	assert.Equal(t, 0.0, got)
}

func TestAssetDetail(t *testing.T) {
	data := &fakeMarketData{series: map[string][]models.PricePoint{
		"spy": rising(100, 102, 104, 106),
	}}
	eng := newTestEngine(t, testConfig(), data, neutralSentiment())

	detail, err := eng.AssetDetail(context.Background(), "spy", 30)
	require.NoError(t, err)

	assert.Equal(t, "spy", detail.Config.ID)
	assert.Equal(t, 106.0, detail.LatestPrice)
	require.NotNil(t, detail.Indicators)
	require.NotNil(t, detail.Score)
	assert.Greater(t, *detail.Score, 50.0)
}

func TestAssetDetailShortSeries(t *testing.T) {
	data := &fakeMarketData{
		series: map[string][]models.PricePoint{"btc": rising(50000)},
	}
	eng := newTestEngine(t, testConfig(), data, neutralSentiment())

	detail, err := eng.AssetDetail(context.Background(), "btc", 30)
	require.NoError(t, err)

	assert.Equal(t, 50000.0, detail.LatestPrice)
	assert.Nil(t, detail.Indicators)
	assert.Nil(t, detail.Score)
}

func TestAssetDetailUnknownAsset(t *testing.T) {
	eng := newTestEngine(t, testConfig(), &fakeMarketData{}, neutralSentiment())

	_, err := eng.AssetDetail(context.Background(), "doge", 30)
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestAssetDetailFallsBackToLatestPrice(t *testing.T) {
	data := &fakeMarketData{
		errs:   map[string]error{"spy": errors.New("provider down")},
		prices: map[string]float64{"spy": 512.0},
	}
	eng := newTestEngine(t, testConfig(), data, neutralSentiment())

	detail, err := eng.AssetDetail(context.Background(), "spy", 30)
	require.NoError(t, err)
	assert.Equal(t, 512.0, detail.LatestPrice)
	assert.Nil(t, detail.Indicators)
}
