package sentiment

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"ConfidenceMeter/internal/domain/models"
	"ConfidenceMeter/pkg/cache"
	"ConfidenceMeter/pkg/config"
	applogger "ConfidenceMeter/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuotes struct {
	probs map[string]float64
	errs  map[string]error
	calls int
}

func (f *fakeQuotes) MarketQuote(_ context.Context, slug string) (float64, bool, error) {
	f.calls++
	if err, found := f.errs[slug]; found {
		return 0, false, err
	}
	p, found := f.probs[slug]
	if !found {
		return 0, false, nil
	}
	return p, true, nil
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

func market(id string, dir config.Direction, impact float64) config.MarketConfig {
	return config.MarketConfig{ID: id, Name: id, Slug: id, Direction: dir, ImpactWeight: impact}
}

func TestConvertDirectionInversion(t *testing.T) {
	m := Convert(market("recession", config.DirectionNegative, 1.0), 0.9)
	assert.InDelta(t, 0.1, m.Probability, 1e-9)

	m = Convert(market("rate-cut", config.DirectionPositive, 1.0), 0.9)
	assert.InDelta(t, 0.9, m.Probability, 1e-9)
}

func TestConvertPercentScale(t *testing.T) {
	m := Convert(market("rate-cut", config.DirectionPositive, 1.0), 62.0)
	assert.InDelta(t, 0.62, m.Probability, 1e-9)
}

func TestConvertDefaultImpact(t *testing.T) {
	m := Convert(market("rate-cut", config.DirectionPositive, 0), 0.5)
	assert.Equal(t, 1.0, m.Impact)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Equal(t, 0.5, Aggregate(nil))
	assert.Equal(t, 0.5, Aggregate(map[string]models.MarketSentiment{}))
}

func TestAggregateWeighted(t *testing.T) {
	markets := map[string]models.MarketSentiment{
		"a": {Probability: 0.8, Impact: 3.0},
		"b": {Probability: 0.4, Impact: 1.0},
	}
	// (0.8*3 + 0.4*1) / 4 = 0.7
	assert.InDelta(t, 0.7, Aggregate(markets), 1e-9)
}

func TestAggregateExcludesBadValues(t *testing.T) {
	markets := map[string]models.MarketSentiment{
		"nan":    {Probability: math.NaN(), Impact: 1.0},
		"inf":    {Probability: math.Inf(1), Impact: 1.0},
		"zeroed": {Probability: 0.9, Impact: 0},
		"good":   {Probability: 0.6, Impact: 2.0},
	}
	assert.InDelta(t, 0.6, Aggregate(markets), 1e-9)
}

func TestAggregateAllExcluded(t *testing.T) {
	markets := map[string]models.MarketSentiment{
		"nan": {Probability: math.NaN(), Impact: 1.0},
	}
	assert.Equal(t, 0.5, Aggregate(markets))
}

func TestSentimentOmitsFailedMarkets(t *testing.T) {
	quotes := &fakeQuotes{
		probs: map[string]float64{"up": 0.8},
		errs:  map[string]error{"down": errors.New("boom")},
	}
	cfgs := []config.MarketConfig{
		market("up", config.DirectionPositive, 1.0),
		market("down", config.DirectionNegative, 1.0),
		market("missing", config.DirectionPositive, 1.0),
	}
	svc := New(quotes, cfgs, cache.NewMemoryCache(), time.Minute, testLogger(t), nopMetrics{})

	agg, err := svc.Sentiment(context.Background())
	require.NoError(t, err)

	assert.Len(t, agg.Markets, 1)
	assert.Contains(t, agg.Markets, "up")
	assert.InDelta(t, 80.0, agg.AggregateScore, 1e-9)
}

func TestSentimentNeutralWithNoMarkets(t *testing.T) {
	svc := New(&fakeQuotes{}, nil, cache.NewMemoryCache(), time.Minute, testLogger(t), nopMetrics{})

	agg, err := svc.Sentiment(context.Background())
	require.NoError(t, err)
	assert.Empty(t, agg.Markets)
	assert.InDelta(t, 50.0, agg.AggregateScore, 1e-9)
}

func TestSentimentCachesResult(t *testing.T) {
	quotes := &fakeQuotes{probs: map[string]float64{"up": 0.8}}
	cfgs := []config.MarketConfig{market("up", config.DirectionPositive, 1.0)}
	svc := New(quotes, cfgs, cache.NewMemoryCache(), time.Minute, testLogger(t), nopMetrics{})

	_, err := svc.Sentiment(context.Background())
	require.NoError(t, err)
	_, err = svc.Sentiment(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, quotes.calls)
}
