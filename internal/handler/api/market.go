package api

import (
	"errors"
	"fmt"
	"net/http"

	"MarketLens/internal/domain/models"
	"MarketLens/internal/service/ratelimit"
	"MarketLens/internal/source"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler exposes the analysis engine over HTTP.
type MarketHandler struct {
	log      *applogger.Logger
	analyzer *usecase.Analyzer
	limiter  *ratelimit.Limiter
}

// NewMarketHandler creates the API handler. limiter may be nil to disable
// rate limiting.
func NewMarketHandler(log *applogger.Logger, analyzer *usecase.Analyzer, limiter *ratelimit.Limiter) *MarketHandler {
	return &MarketHandler{log: log, analyzer: analyzer, limiter: limiter}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api", ratelimit.Middleware(h.limiter))
	g.POST("/analyze", h.Analyze)
	g.POST("/compare", h.Compare)
	g.GET("/export", h.Export)
}

func (h *MarketHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, echo.Map{"status": "ok"})
}

func (h *MarketHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "analyze", err)
	}

	ind, err := h.analyzer.Indicators(res.Series, usecase.IndicatorParams{
		MAWindows:  req.MAWindows,
		BollWindow: req.BollWindow,
		BollStd:    req.BollStd,
		RSIWindow:  req.RSIWindow,
		VolWindow:  req.VolWindow,
	})
	if err != nil {
		return h.fail(c, "analyze", err)
	}
	return xhttp.SuccessResponse(c, newAnalysisResponse(res, ind))
}

func (h *MarketHandler) Compare(c echo.Context) error {
	req := &models.CompareRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Compare(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "compare", err)
	}
	return xhttp.SuccessResponse(c, newCompareResponse(res))
}

// Export streams the generated series as a CSV attachment.
func (h *MarketHandler) Export(c echo.Context) error {
	req := &models.ExportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	series, err := h.analyzer.Export(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "export", err)
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	header.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", series.Symbol+"_prices.csv"))
	c.Response().WriteHeader(http.StatusOK)
	return source.WriteSeries(c.Response(), series)
}

// fail maps domain errors onto HTTP responses: invalid input becomes a 400,
// anything else an opaque 500.
func (h *MarketHandler) fail(c echo.Context, op string, err error) error {
	if errors.Is(err, models.ErrInvalidInput) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()).WithError(err))
	}
	if h.log != nil {
		h.log.Error(op+" failed", applogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("%s failed", op).WithError(err))
}
