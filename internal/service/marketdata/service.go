package marketdata

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ConfidenceMeter/internal/domain/models"
	"ConfidenceMeter/internal/domain/repository"
	"ConfidenceMeter/pkg/cache"
	"ConfidenceMeter/pkg/config"
	applogger "ConfidenceMeter/pkg/logger"
)

// CryptoSource is the CoinGecko-facing slice of the service.
type CryptoSource interface {
	History(ctx context.Context, coinID string, lookbackDays int) ([]models.PricePoint, error)
	SimplePrice(ctx context.Context, coinID string) (float64, error)
}

// EquitySource is the Yahoo-facing slice of the service.
type EquitySource interface {
	History(ctx context.Context, symbol string, lookbackDays int) ([]models.PricePoint, error)
}

// TTLs for the two cache scopes this service owns.
type TTLs struct {
	History     time.Duration
	LatestPrice time.Duration
}

// Service routes per-asset data requests to the right provider and
// caches results so repeated breakdown computations stay cheap.
type Service struct {
	cfg     *config.Config
	crypto  CryptoSource
	equity  EquitySource
	cache   cache.Service
	ttl     TTLs
	logger  *applogger.Logger
	metrics repository.Metrics
}

func New(cfg *config.Config, crypto CryptoSource, equity EquitySource, c cache.Service, ttl TTLs, l *applogger.Logger, m repository.Metrics) *Service {
	return &Service{cfg: cfg, crypto: crypto, equity: equity, cache: c, ttl: ttl, logger: l, metrics: m}
}

// HistoricalSeries returns the asset's price series over the lookback
// window, sorted ascending by timestamp. An unknown asset id is a
// configuration defect and the only hard error besides transport.
func (s *Service) HistoricalSeries(ctx context.Context, assetID string, lookbackDays int) ([]models.PricePoint, error) {
	asset, ok := s.cfg.AssetByID(assetID)
	if !ok {
		return nil, fmt.Errorf("unknown asset id '%s'", assetID)
	}

	key := cache.GenerateKeyWithParams("history", assetID, lookbackDays)
	var cached []models.PricePoint
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.RecordCacheHit("history")
		return cached, nil
	}
	s.metrics.RecordCacheMiss("history")

	start := time.Now()
	series, err := s.fetchHistory(ctx, asset, lookbackDays)
	if err != nil {
		s.metrics.RecordFetchError(string(asset.Source), "history")
		return nil, err
	}
	s.metrics.RecordFetch(string(asset.Source), "history", time.Since(start).Seconds())

	sort.Slice(series, func(i, j int) bool { return series[i].Timestamp < series[j].Timestamp })

	_ = s.cache.Set(ctx, key, series, s.ttl.History)
	return series, nil
}

func (s *Service) fetchHistory(ctx context.Context, asset config.AssetConfig, lookbackDays int) ([]models.PricePoint, error) {
	switch asset.Source {
	case config.SourceCoinGecko:
		return s.crypto.History(ctx, asset.CoinGeckoID, lookbackDays)
	case config.SourceYahoo:
		return s.equity.History(ctx, asset.YahooSymbol, lookbackDays)
	default:
		return nil, fmt.Errorf("asset '%s': unsupported source '%s'", asset.ID, asset.Source)
	}
}

// LatestPrice returns the most recent price for the asset. For Yahoo
// assets this rides the short two-day history, matching the provider's
// lack of a spot endpoint.
func (s *Service) LatestPrice(ctx context.Context, assetID string) (float64, error) {
	asset, ok := s.cfg.AssetByID(assetID)
	if !ok {
		return 0, fmt.Errorf("unknown asset id '%s'", assetID)
	}

	key := cache.GenerateKey("latest_price", assetID)
	var cached float64
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		s.metrics.RecordCacheHit("latest_price")
		return cached, nil
	}
	s.metrics.RecordCacheMiss("latest_price")

	start := time.Now()
	var price float64
	var err error
	switch asset.Source {
	case config.SourceCoinGecko:
		price, err = s.crypto.SimplePrice(ctx, asset.CoinGeckoID)
	case config.SourceYahoo:
		var series []models.PricePoint
		series, err = s.equity.History(ctx, asset.YahooSymbol, 2)
		if err == nil {
			if len(series) == 0 {
				return 0, fmt.Errorf("no recent prices for '%s'", assetID)
			}
			price = series[len(series)-1].Price
		}
	default:
		return 0, fmt.Errorf("asset '%s': unsupported source '%s'", asset.ID, asset.Source)
	}
	if err != nil {
		s.metrics.RecordFetchError(string(asset.Source), "latest_price")
		return 0, err
	}
	s.metrics.RecordFetch(string(asset.Source), "latest_price", time.Since(start).Seconds())

	_ = s.cache.Set(ctx, key, price, s.ttl.LatestPrice)
	return price, nil
}
