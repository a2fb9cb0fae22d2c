package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	models "AgroPulse/internal/domain/models"
	"AgroPulse/internal/service/cache"
	svcmetrics "AgroPulse/internal/service/metrics"
	"AgroPulse/internal/services/analytics"
	"AgroPulse/internal/usecase"
	xhttp "AgroPulse/pkg/http"
	xlogger "AgroPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

// AnalyticsEchoHandler serves the per-commodity analytics endpoints.
type AnalyticsEchoHandler struct {
	logger    *xlogger.Logger
	analytics *usecase.PriceAnalytics
	aggregate *usecase.AnalysisAggregateUseCase
	cache     cache.BytesCache
	cacheTTL  time.Duration
	health    healthChecker
}

// NewAnalyticsEchoHandler builds the handler. A nil cache disables response caching.
func NewAnalyticsEchoHandler(
	logger *xlogger.Logger,
	pa *usecase.PriceAnalytics,
	agg *usecase.AnalysisAggregateUseCase,
	c cache.BytesCache,
	cacheTTL time.Duration,
	health healthChecker,
) *AnalyticsEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AnalyticsEchoHandler{
		logger:    logger,
		analytics: pa,
		aggregate: agg,
		cache:     c,
		cacheTTL:  cacheTTL,
		health:    health,
	}
}

func (h *AnalyticsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api/commodities/:commodity")
	g.GET("/indicators", h.Indicators)
	g.GET("/anomalies", h.Anomalies)
	g.GET("/forecast", h.Forecast)
	g.GET("/analysis", h.Analysis)
	g.GET("/alerts", h.Alerts)
}

func (h *AnalyticsEchoHandler) Indicators(c echo.Context) error {
	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.badRequest(c, "indicators", verr)
	}
	commodity := normalize(req.Commodity)
	key := cache.Key("indicators", commodity, req.Days)
	return h.serve(c, "indicators", key, func(ctx context.Context) (interface{}, error) {
		return h.analytics.Indicators(ctx, commodity, req.Days)
	})
}

func (h *AnalyticsEchoHandler) Anomalies(c echo.Context) error {
	req := &models.AnomaliesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.badRequest(c, "anomalies", verr)
	}
	commodity := normalize(req.Commodity)
	key := cache.Key("anomalies", commodity, req.Days, req.History)
	return h.serve(c, "anomalies", key, func(ctx context.Context) (interface{}, error) {
		return h.analytics.Anomalies(ctx, commodity, req.Days, req.History)
	})
}

func (h *AnalyticsEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.badRequest(c, "forecast", verr)
	}
	commodity := normalize(req.Commodity)
	key := cache.Key("forecast", commodity, req.Days, req.Horizon)
	return h.serve(c, "forecast", key, func(ctx context.Context) (interface{}, error) {
		return h.analytics.Forecast(ctx, commodity, req.Days, req.Horizon)
	})
}

func (h *AnalyticsEchoHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.badRequest(c, "analysis", verr)
	}
	commodity := normalize(req.Commodity)
	key := cache.Key("analysis", commodity, req.Days, req.Horizon)
	return h.serve(c, "analysis", key, func(ctx context.Context) (interface{}, error) {
		return h.aggregate.Analyze(ctx, commodity, req.Days, req.Horizon)
	})
}

// Alerts lists persisted alerts. Not cached: the scheduler appends to it.
func (h *AnalyticsEchoHandler) Alerts(c echo.Context) error {
	req := &models.AlertsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return h.badRequest(c, "alerts", verr)
	}
	commodity := normalize(req.Commodity)
	return h.serve(c, "alerts", "", func(ctx context.Context) (interface{}, error) {
		return h.analytics.AnomalyHistory(ctx, commodity, req.Limit)
	})
}

func (h *AnalyticsEchoHandler) Health(c echo.Context) error {
	if h.health != nil {
		if err := h.health.Health(c.Request().Context()); err != nil {
			h.logger.Warn("health check failed", xlogger.Error(err))
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// serve answers from cache when key is non-empty and cached, otherwise computes, encodes and
// stores the envelope.
func (h *AnalyticsEchoHandler) serve(c echo.Context, endpoint, key string, compute func(context.Context) (interface{}, error)) error {
	start := time.Now()
	defer func() {
		svcmetrics.AnalyticsLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()
	ctx := c.Request().Context()

	useCache := h.cache != nil && key != ""
	if useCache {
		body, ok, err := h.cache.GetBytes(ctx, key)
		switch {
		case err != nil:
			h.logger.Warn("cache get failed", xlogger.String("key", key), xlogger.Error(err))
		case ok:
			svcmetrics.CacheLookups.WithLabelValues(endpoint, "hit").Inc()
			return xhttp.RawDataResponse(c, http.StatusOK, body)
		}
		svcmetrics.CacheLookups.WithLabelValues(endpoint, "miss").Inc()
	}

	data, err := compute(ctx)
	if err != nil {
		appErr := toAppError(err)
		svcmetrics.AnalyticsErrors.WithLabelValues(endpoint, appErr.Code).Inc()
		if appErr.Status >= http.StatusInternalServerError {
			h.logger.Error(endpoint+" usecase error",
				xlogger.String("commodity", c.Param("commodity")),
				xlogger.Error(err),
			)
		}
		return xhttp.AppErrorResponse(c, appErr)
	}

	body, err := xhttp.EncodeResponse(http.StatusOK, data)
	if err != nil {
		h.logger.Error(endpoint+" encode error", xlogger.Error(err))
		svcmetrics.AnalyticsErrors.WithLabelValues(endpoint, xhttp.CodeInternal).Inc()
		return xhttp.InternalServerErrorResponse(c)
	}
	if useCache {
		if err := h.cache.SetBytes(ctx, key, body, h.cacheTTL); err != nil {
			h.logger.Warn("cache set failed", xlogger.String("key", key), xlogger.Error(err))
		}
	}
	return xhttp.RawDataResponse(c, http.StatusOK, body)
}

func (h *AnalyticsEchoHandler) badRequest(c echo.Context, endpoint string, verr interface{}) error {
	svcmetrics.AnalyticsErrors.WithLabelValues(endpoint, "ERR_VALIDATION").Inc()
	return xhttp.BadRequestResponse(c, verr)
}

// toAppError maps engine and use case errors onto HTTP errors.
func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, analytics.ErrInsufficientData):
		return xhttp.InsufficientDataError(err.Error()).WithError(err)
	case errors.Is(err, analytics.ErrMalformedInput):
		return xhttp.MalformedInputError(err.Error()).WithError(err)
	case errors.Is(err, usecase.ErrSeriesTooLong):
		return xhttp.SeriesTooLongError(err.Error()).WithError(err)
	default:
		return xhttp.InternalError("failed to analyse price history").WithError(err)
	}
}

func normalize(commodity string) string {
	return strings.ToLower(strings.TrimSpace(commodity))
}

var _ xhttp.Handler = (*AnalyticsEchoHandler)(nil)
