package di

import (
	"fmt"

	"ConfidenceMeter/internal/domain/repository"
	"ConfidenceMeter/internal/handler/api"
	"ConfidenceMeter/internal/service/coingecko"
	"ConfidenceMeter/internal/service/marketdata"
	"ConfidenceMeter/internal/service/polymarket"
	"ConfidenceMeter/internal/service/sentiment"
	"ConfidenceMeter/internal/service/yahoo"
	"ConfidenceMeter/internal/usecase/confidence"
	"ConfidenceMeter/internal/usecase/feedback"
	"ConfidenceMeter/pkg/cache"
	"ConfidenceMeter/pkg/config"
	xhttp "ConfidenceMeter/pkg/http"
	applogger "ConfidenceMeter/pkg/logger"
	"ConfidenceMeter/pkg/metrics"
	"ConfidenceMeter/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the cache backend selected in config. Every
// consumer receives this instance through its constructor; nothing
// reaches for a package-level cache.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return cache.NewMemoryCache(), nil
	case "redis":
		return cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
	case "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, err
		}
		return cache.NewLayeredCache(rc), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvideCoinGecko creates the CoinGecko market data client.
func ProvideCoinGecko(cfg *config.Config) *coingecko.Client {
	return coingecko.New(cfg.Providers.CoinGecko)
}

// ProvideYahoo creates the Yahoo Finance chart client.
func ProvideYahoo(cfg *config.Config) *yahoo.Client {
	return yahoo.New(cfg.Providers.Yahoo)
}

// ProvidePolymarket creates the Polymarket gamma API client.
func ProvidePolymarket(cfg *config.Config, l *applogger.Logger) *polymarket.Client {
	return polymarket.New(cfg.Providers.Polymarket, l)
}

// ProvideMarketData creates the provider-routing market data service.
func ProvideMarketData(
	cfg *config.Config,
	cg *coingecko.Client,
	yh *yahoo.Client,
	c cache.Service,
	l *applogger.Logger,
	m repository.Metrics,
) repository.MarketData {
	return marketdata.New(cfg, cg, yh, c, marketdata.TTLs{
		History:     cfg.Cache.TTL.History,
		LatestPrice: cfg.Cache.TTL.LatestPrice,
	}, l, m)
}

// ProvideSentiment creates the Polymarket sentiment aggregation service.
func ProvideSentiment(
	cfg *config.Config,
	pm *polymarket.Client,
	c cache.Service,
	l *applogger.Logger,
	m repository.Metrics,
) repository.SentimentSource {
	return sentiment.New(pm, cfg.Markets, c, cfg.Cache.TTL.Sentiment, l, m)
}

// ProvideEngine creates the confidence scoring engine.
func ProvideEngine(
	cfg *config.Config,
	data repository.MarketData,
	sent repository.SentimentSource,
	c cache.Service,
	l *applogger.Logger,
	m repository.Metrics,
) *confidence.Engine {
	return confidence.NewEngine(cfg, data, sent, c, cfg.Cache.TTL.Breakdown, l, m)
}

// ProvideFeedback creates the daily feedback accumulator.
func ProvideFeedback() *feedback.Service {
	return feedback.New()
}

// ProvideHandler creates the HTTP handler with all routes.
func ProvideHandler(
	l *applogger.Logger,
	cfg *config.Config,
	engine *confidence.Engine,
	fb *feedback.Service,
) xhttp.Handler {
	return api.NewConfidenceEchoHandler(l, cfg, engine, fb)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler, c cache.Service) *server.App {
	return server.New(cfg, l, handler, c)
}
