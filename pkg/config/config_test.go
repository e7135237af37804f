package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
environment: test
assets:
  - id: spy
    name: S&P 500
    category: equities
    source: yahoo
    yahoo_symbol: SPY
  - id: btc
    name: Bitcoin
    category: crypto
    source: coingecko
    coingecko_id: bitcoin
    weight: 1.5
markets:
  - id: recession
    name: Recession
    slug: us-recession
    direction: negative
    impact_weight: 1.5
category_weights:
  equities: 0.6
  crypto: 0.4
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL.Breakdown)
	assert.Equal(t, time.Minute, cfg.Cache.TTL.History)
	assert.Equal(t, time.Minute, cfg.Cache.TTL.Sentiment)
	assert.Equal(t, 0.15, cfg.Sentiment.OverallWeight)
	assert.Equal(t, 10.0, cfg.Sentiment.MaxAdjustmentPoints)
	assert.Equal(t, "https://gamma-api.polymarket.com", cfg.Providers.Polymarket.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Providers.Yahoo.Timeout)
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	_, err := Load(writeConfig(t, "assets:\n  - id: spy\n    category: equities\n    source: yahoo\n    yahoo_symbol: SPY\n"))
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateAssetIDs(t *testing.T) {
	bad := `
environment: test
assets:
  - id: spy
    category: equities
    source: yahoo
    yahoo_symbol: SPY
  - id: spy
    category: equities
    source: yahoo
    yahoo_symbol: SPY
`
	_, err := Load(writeConfig(t, bad))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate asset id")
}

func TestLoadRejectsSourceMismatch(t *testing.T) {
	bad := `
environment: test
assets:
  - id: btc
    category: crypto
    source: coingecko
`
	_, err := Load(writeConfig(t, bad))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "coingecko_id")
}

func TestLoadRejectsBadMarketDirection(t *testing.T) {
	bad := minimalYAML + `
`
	cfg, err := Load(writeConfig(t, bad))
	require.NoError(t, err)
	cfg.Markets[0].Direction = "sideways"
	assert.Error(t, cfg.Validate())
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "redis.internal", cfg.Cache.Redis.Host)
	assert.Equal(t, 6380, cfg.Cache.Redis.Port)
}

func TestAssetHelpers(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	a, ok := cfg.AssetByID("btc")
	require.True(t, ok)
	assert.Equal(t, 1.5, a.AssetWeight())

	spy, ok := cfg.AssetByID("spy")
	require.True(t, ok)
	assert.Equal(t, 1.0, spy.AssetWeight())

	_, ok = cfg.AssetByID("doge")
	assert.False(t, ok)

	byCat := cfg.AssetsByCategory()
	assert.Len(t, byCat["equities"], 1)
	assert.Len(t, byCat["crypto"], 1)
}

func TestMarketImpactDefault(t *testing.T) {
	m := MarketConfig{ID: "x", Slug: "x", Direction: DirectionPositive}
	assert.Equal(t, 1.0, m.MarketImpact())

	m.ImpactWeight = 2.5
	assert.Equal(t, 2.5, m.MarketImpact())
}
