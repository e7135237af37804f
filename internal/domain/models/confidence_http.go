package models

// Requests for confidence HTTP endpoints. Defined in domain for consistency and reuse.

type BreakdownRequest struct {
	LookbackDays int `query:"lookback_days" json:"lookback_days" default:"30" validate:"gte=2,lte=365"`
}

type AssetDetailRequest struct {
	LookbackDays int `query:"lookback_days" json:"lookback_days" default:"30" validate:"gte=2,lte=365"`
}

type FeedbackRequest struct {
	Score float64 `json:"score" validate:"gte=0,lte=100"`
}

// OverallResponse carries just the headline score.
type OverallResponse struct {
	Overall float64 `json:"overall"`
}

// CategoriesResponse maps category name to its 0-100 score.
type CategoriesResponse struct {
	Categories map[string]float64 `json:"categories"`
}

// AssetInfo is the public view of one configured asset.
type AssetInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Source   string `json:"data_source"`
}

// AssetListResponse lists all configured assets.
type AssetListResponse struct {
	Assets map[string]AssetInfo `json:"assets"`
}

// AssetDetailResponse is the per-asset detail view. Indicators and score
// are nil when the lookback window held fewer than two points.
type AssetDetailResponse struct {
	Config      AssetInfo   `json:"config"`
	LatestPrice float64     `json:"latest_price"`
	Indicators  *Indicators `json:"indicators"`
	Score       *float64    `json:"confidence_score"`
}

// MarketListResponse is the raw per-market sentiment view.
type MarketListResponse struct {
	Markets map[string]MarketSentiment `json:"markets"`
}

// FeedbackStats is today's crowd aggregate.
type FeedbackStats struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
