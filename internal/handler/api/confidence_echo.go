package api

import (
	"errors"
	"net/http"

	models "ConfidenceMeter/internal/domain/models"
	"ConfidenceMeter/internal/usecase/confidence"
	"ConfidenceMeter/internal/usecase/feedback"
	"ConfidenceMeter/pkg/config"
	xhttp "ConfidenceMeter/pkg/http"
	xlogger "ConfidenceMeter/pkg/logger"
	"ConfidenceMeter/pkg/util"

	"github.com/labstack/echo/v4"
)

// ConfidenceEchoHandler exposes the confidence, asset, polymarket and
// feedback endpoints. Aggregation endpoints never surface upstream data
// problems: the engine degrades to neutral values instead.
type ConfidenceEchoHandler struct {
	logger   *xlogger.Logger
	cfg      *config.Config
	engine   *confidence.Engine
	feedback *feedback.Service
}

func NewConfidenceEchoHandler(logger *xlogger.Logger, cfg *config.Config, engine *confidence.Engine, fb *feedback.Service) *ConfidenceEchoHandler {
	return &ConfidenceEchoHandler{logger: logger, cfg: cfg, engine: engine, feedback: fb}
}

func (h *ConfidenceEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	c := e.Group("/confidence")
	c.GET("", h.Full)
	c.GET("/overall", h.Overall)
	c.GET("/categories", h.Categories)

	a := e.Group("/assets")
	a.GET("", h.ListAssets)
	a.GET("/:id", h.AssetDetail)

	p := e.Group("/polymarket")
	p.GET("/markets", h.PolymarketMarkets)
	p.GET("/sentiment", h.PolymarketSentiment)

	f := e.Group("/feedback")
	f.POST("", h.SubmitFeedback)
	f.GET("/today", h.TodayFeedback)
}

func (h *ConfidenceEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ConfidenceEchoHandler) Full(c echo.Context) error {
	req := &models.BreakdownRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	breakdown, err := h.engine.BuildBreakdown(c.Request().Context(), req.LookbackDays)
	if err != nil {
		h.logger.Error("breakdown failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, breakdown)
}

func (h *ConfidenceEchoHandler) Overall(c echo.Context) error {
	req := &models.BreakdownRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	breakdown, err := h.engine.BuildBreakdown(c.Request().Context(), req.LookbackDays)
	if err != nil {
		h.logger.Error("breakdown failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, models.OverallResponse{Overall: breakdown.Overall})
}

func (h *ConfidenceEchoHandler) Categories(c echo.Context) error {
	req := &models.BreakdownRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	breakdown, err := h.engine.BuildBreakdown(c.Request().Context(), req.LookbackDays)
	if err != nil {
		h.logger.Error("breakdown failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	scores := make(map[string]float64, len(breakdown.Categories))
	for name, cat := range breakdown.Categories {
		scores[name] = cat.Score
	}
	return xhttp.SuccessResponse(c, models.CategoriesResponse{Categories: scores})
}

func (h *ConfidenceEchoHandler) ListAssets(c echo.Context) error {
	assets := make(map[string]models.AssetInfo, len(h.cfg.Assets))
	for _, a := range h.cfg.Assets {
		assets[a.ID] = models.AssetInfo{
			ID:       a.ID,
			Name:     a.Name,
			Category: a.Category,
			Source:   string(a.Source),
		}
	}
	return xhttp.SuccessResponse(c, models.AssetListResponse{Assets: assets})
}

func (h *ConfidenceEchoHandler) AssetDetail(c echo.Context) error {
	req := &models.AssetDetailRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	detail, err := h.engine.AssetDetail(c.Request().Context(), c.Param("id"), req.LookbackDays)
	if err != nil {
		if errors.Is(err, confidence.ErrUnknownAsset) {
			return xhttp.NotFoundResponse(c, "unknown asset id")
		}
		h.logger.Error("asset detail failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, detail)
}

func (h *ConfidenceEchoHandler) PolymarketMarkets(c echo.Context) error {
	// Reuses the breakdown computation so the raw view stays consistent
	// with what the confidence score actually consumed.
	days := util.ParseIntDefault(c.QueryParam("lookback_days"), 30)
	breakdown, err := h.engine.BuildBreakdown(c.Request().Context(), days)
	if err != nil {
		h.logger.Error("breakdown failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, models.MarketListResponse{Markets: breakdown.Sentiment.Markets})
}

func (h *ConfidenceEchoHandler) PolymarketSentiment(c echo.Context) error {
	req := &models.BreakdownRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	breakdown, err := h.engine.BuildBreakdown(c.Request().Context(), req.LookbackDays)
	if err != nil {
		h.logger.Error("breakdown failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, breakdown.Sentiment)
}

func (h *ConfidenceEchoHandler) SubmitFeedback(c echo.Context) error {
	req := &models.FeedbackRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	h.feedback.AddVote(req.Score)
	return xhttp.CreatedResponse(c, map[string]string{"status": "ok"})
}

func (h *ConfidenceEchoHandler) TodayFeedback(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.feedback.TodayStats())
}
