package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Direction describes how a prediction-market probability maps onto confidence.
type Direction string

const (
	DirectionPositive Direction = "positive" // high probability => higher confidence
	DirectionNegative Direction = "negative" // high probability => lower confidence
)

// DataSource identifies where an asset's price history comes from.
type DataSource string

const (
	SourceCoinGecko DataSource = "coingecko"
	SourceYahoo     DataSource = "yahoo"
)

// AssetConfig is the static configuration for one tracked asset.
type AssetConfig struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Category    string     `yaml:"category"`
	Source      DataSource `yaml:"source"`
	CoinGeckoID string     `yaml:"coingecko_id"`
	YahooSymbol string     `yaml:"yahoo_symbol"`
	Weight      float64    `yaml:"weight"` // relative within its category; 0 means default 1.0
}

// MarketConfig is the static configuration for one tracked Polymarket contract.
type MarketConfig struct {
	ID           string    `yaml:"id"`
	Name         string    `yaml:"name"`
	Slug         string    `yaml:"slug"`
	Direction    Direction `yaml:"direction"`
	ImpactWeight float64   `yaml:"impact_weight"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Cache struct {
		Backend string `yaml:"backend"` // memory, redis or layered
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		TTL struct {
			Breakdown   time.Duration `yaml:"breakdown"`
			History     time.Duration `yaml:"history"`
			LatestPrice time.Duration `yaml:"latest_price"`
			Sentiment   time.Duration `yaml:"sentiment"`
		} `yaml:"ttl"`
	} `yaml:"cache"`
	Providers struct {
		CoinGecko  ProviderConfig `yaml:"coingecko"`
		Yahoo      ProviderConfig `yaml:"yahoo"`
		Polymarket ProviderConfig `yaml:"polymarket"`
	} `yaml:"providers"`
	Assets    []AssetConfig      `yaml:"assets"`
	Markets   []MarketConfig     `yaml:"markets"`
	Weights   map[string]float64 `yaml:"category_weights"` // category -> weight in overall score
	Sentiment struct {
		OverallWeight       float64 `yaml:"overall_weight"`
		MaxAdjustmentPoints float64 `yaml:"max_adjustment_points"`
	} `yaml:"sentiment"`
}

// ProviderConfig holds connection settings for one upstream data provider.
type ProviderConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerMinute int           `yaml:"rate_per_minute"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port := splitHostPort(v)
		c.Cache.Redis.Host = host
		if port != 0 {
			c.Cache.Redis.Port = port
		}
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		c.Providers.CoinGecko.BaseURL = v
	}
	if v := os.Getenv("POLYMARKET_BASE_URL"); v != "" {
		c.Providers.Polymarket.BaseURL = v
	}

	return c, nil
}

func splitHostPort(addr string) (string, int) {
	parts := strings.SplitN(addr, ":", 2)
	if len(parts) == 1 {
		return parts[0], 0
	}
	var port int
	if _, err := fmt.Sscanf(parts[1], "%d", &port); err != nil {
		return parts[0], 0
	}
	return parts[0], port
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL.Breakdown == 0 {
		c.Cache.TTL.Breakdown = 30 * time.Second
	}
	if c.Cache.TTL.History == 0 {
		c.Cache.TTL.History = time.Minute
	}
	if c.Cache.TTL.LatestPrice == 0 {
		c.Cache.TTL.LatestPrice = time.Minute
	}
	if c.Cache.TTL.Sentiment == 0 {
		c.Cache.TTL.Sentiment = time.Minute
	}
	if c.Sentiment.OverallWeight == 0 {
		c.Sentiment.OverallWeight = 0.15
	}
	if c.Sentiment.MaxAdjustmentPoints == 0 {
		c.Sentiment.MaxAdjustmentPoints = 10.0
	}
	if c.Providers.CoinGecko.BaseURL == "" {
		c.Providers.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.Providers.Yahoo.BaseURL == "" {
		c.Providers.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Providers.Polymarket.BaseURL == "" {
		c.Providers.Polymarket.BaseURL = "https://gamma-api.polymarket.com"
	}
	for _, p := range []*ProviderConfig{&c.Providers.CoinGecko, &c.Providers.Yahoo, &c.Providers.Polymarket} {
		if p.Timeout == 0 {
			p.Timeout = 10 * time.Second
		}
		if p.RatePerMinute == 0 {
			p.RatePerMinute = 30
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Cache.Backend {
	case "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("assets cannot be empty")
	}
	seen := make(map[string]bool, len(c.Assets))
	for _, a := range c.Assets {
		if a.ID == "" {
			return fmt.Errorf("asset id is required")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate asset id '%s'", a.ID)
		}
		seen[a.ID] = true
		if a.Category == "" {
			return fmt.Errorf("asset '%s': category is required", a.ID)
		}
		switch a.Source {
		case SourceCoinGecko:
			if a.CoinGeckoID == "" {
				return fmt.Errorf("asset '%s': coingecko_id is required for source coingecko", a.ID)
			}
		case SourceYahoo:
			if a.YahooSymbol == "" {
				return fmt.Errorf("asset '%s': yahoo_symbol is required for source yahoo", a.ID)
			}
		default:
			return fmt.Errorf("asset '%s': source must be 'coingecko' or 'yahoo', got '%s'", a.ID, a.Source)
		}
		if a.Weight < 0 {
			return fmt.Errorf("asset '%s': weight must be non-negative", a.ID)
		}
	}
	for _, m := range c.Markets {
		if m.ID == "" || m.Slug == "" {
			return fmt.Errorf("market id and slug are required")
		}
		if m.Direction != DirectionPositive && m.Direction != DirectionNegative {
			return fmt.Errorf("market '%s': direction must be 'positive' or 'negative'", m.ID)
		}
		if m.ImpactWeight < 0 {
			return fmt.Errorf("market '%s': impact_weight must be non-negative", m.ID)
		}
	}
	for cat, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("category '%s': weight must be non-negative", cat)
		}
	}
	return nil
}

// AssetByID returns the asset config for the given id.
func (c *Config) AssetByID(id string) (AssetConfig, bool) {
	for _, a := range c.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return AssetConfig{}, false
}

// AssetsByCategory groups configured assets by category.
func (c *Config) AssetsByCategory() map[string][]AssetConfig {
	out := make(map[string][]AssetConfig)
	for _, a := range c.Assets {
		out[a.Category] = append(out[a.Category], a)
	}
	return out
}

// AssetWeight returns the asset's configured weight, defaulting to 1.0.
func (a AssetConfig) AssetWeight() float64 {
	if a.Weight <= 0 {
		return 1.0
	}
	return a.Weight
}

// MarketImpact returns the market's impact weight, defaulting to 1.0.
func (m MarketConfig) MarketImpact() float64 {
	if m.ImpactWeight == 0 {
		return 1.0
	}
	return m.ImpactWeight
}
