package api

import (
	"net/http"
	"time"

	"Cassandra/internal/domain/models"
	"Cassandra/internal/domain/risk"
	"Cassandra/internal/service/metrics"
	"Cassandra/internal/service/ratelimit"
	"Cassandra/internal/usecase"
	"Cassandra/pkg/cache"
	xhttp "Cassandra/pkg/http"
	xlogger "Cassandra/pkg/logger"
	xutil "Cassandra/pkg/util"

	"github.com/labstack/echo/v4"
)

const liveCacheKey = "assess:live"

// AssessEchoHandler exposes the scoring pipeline over HTTP.
type AssessEchoHandler struct {
	logger    *xlogger.Logger
	assessor  *usecase.Assessor
	collector *usecase.QuoteCollector
	processor *usecase.AssessmentProcessor
	limiter   *ratelimit.Limiter
	cache     cache.Service
	cacheTTL  time.Duration
	rps       float64
}

func NewAssessEchoHandler(
	logger *xlogger.Logger,
	assessor *usecase.Assessor,
	collector *usecase.QuoteCollector,
	processor *usecase.AssessmentProcessor,
	cacheSvc cache.Service,
	cacheTTL time.Duration,
	rps float64,
) *AssessEchoHandler {
	if rps <= 0 {
		rps = 10
	}
	return &AssessEchoHandler{
		logger:    logger,
		assessor:  assessor,
		collector: collector,
		processor: processor,
		limiter:   ratelimit.New(),
		cache:     cacheSvc,
		cacheTTL:  cacheTTL,
		rps:       rps,
	}
}

func (h *AssessEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/assess", h.Assess)
	g.GET("/assess/live", h.AssessLive)
	g.GET("/schema", h.Schema)
	g.GET("/history", h.History)
	e.GET("/health", h.Health)
}

// Assess scores a caller-supplied indicator snapshot.
func (h *AssessEchoHandler) Assess(c echo.Context) error {
	start := time.Now()
	if !h.limiter.Allow(c.RealIP(), h.rps, h.rps) {
		metrics.EndpointErrors.WithLabelValues("assess", "rate_limited").Inc()
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many requests", http.StatusTooManyRequests))
	}

	req := &models.AssessRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	set := models.NewIndicatorSet(req.Indicators)
	res, err := h.assessor.Assess(c.Request().Context(), set, models.SourceManual, req.AllowOutOfRange)
	if err != nil {
		return h.assessError(c, "assess", err)
	}
	if err := h.processor.Process(c.Request().Context(), res); err != nil {
		// Scoring succeeded but the result could not be persisted. The
		// caller still gets the assessment.
		h.logger.Error("persist manual assessment", xlogger.Error(err))
	}

	metrics.EndpointLatency.WithLabelValues("assess").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res)
}

// AssessLive scores the latest collected market snapshot. Results are
// cached briefly so concurrent pollers do not re-run the model.
func (h *AssessEchoHandler) AssessLive(c echo.Context) error {
	start := time.Now()
	req := &models.LiveAssessRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	if h.cache != nil && !req.AllowOutOfRange {
		var cached models.Assessment
		if err := h.cache.Get(ctx, liveCacheKey, &cached); err == nil {
			return xhttp.SuccessResponse(c, &cached)
		}
	}

	set := h.collector.Snapshot()
	res, err := h.assessor.Assess(ctx, set, models.SourceLive, req.AllowOutOfRange)
	if err != nil {
		if risk.KindOf(err) == risk.KindMissingIndicator {
			// Collector has not seen every required indicator yet.
			return xhttp.AppErrorResponse(c, xhttp.NewAppError(
				string(risk.KindMissingIndicator), "", err.Error(), http.StatusServiceUnavailable))
		}
		return h.assessError(c, "assess_live", err)
	}

	if h.cache != nil && !req.AllowOutOfRange && h.cacheTTL > 0 {
		if cerr := h.cache.Set(ctx, liveCacheKey, res, h.cacheTTL); cerr != nil {
			h.logger.Warn("cache live assessment", xlogger.Error(cerr))
		}
	}

	metrics.EndpointLatency.WithLabelValues("assess_live").Observe(time.Since(start).Seconds())
	return xhttp.SuccessResponse(c, res)
}

// Schema returns the active indicator contract.
func (h *AssessEchoHandler) Schema(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.assessor.Schema())
}

// History returns stored assessments in a time window, newest first.
func (h *AssessEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now().UTC()
	from := xhttp.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := xhttp.ParseTimeDefault(req.To, now)
	from, to = xutil.AlignWindow(from, to)

	rows, err := h.processor.Query(c.Request().Context(), from, to, req.Limit)
	if err != nil {
		h.logger.Error("history query", xlogger.Error(err))
		metrics.EndpointErrors.WithLabelValues("history", "storage").Inc()
		return xhttp.AppErrorResponse(c, xhttp.InternalError("history unavailable"))
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Health reports collector connectivity, per-indicator quote
// freshness, and storage reachability.
func (h *AssessEchoHandler) Health(c echo.Context) error {
	status := map[string]interface{}{
		"status":    "ok",
		"collector": h.collector != nil && h.collector.IsConnected(),
	}
	if h.collector != nil {
		freshness := make(map[string]string)
		for _, name := range h.assessor.Schema().Names() {
			if ts, ok := h.collector.LastUpdated(name); ok {
				freshness[name] = ts.UTC().Format(time.RFC3339)
			}
		}
		status["indicators"] = freshness
	}
	if err := h.processor.Health(c.Request().Context()); err != nil {
		status["status"] = "degraded"
		status["storage"] = err.Error()
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
	}
	return xhttp.SuccessResponse(c, status)
}

// assessError maps scoring pipeline failures onto HTTP responses. Input
// problems are the caller's fault, model problems are ours.
func (h *AssessEchoHandler) assessError(c echo.Context, endpoint string, err error) error {
	kind := risk.KindOf(err)
	metrics.EndpointErrors.WithLabelValues(endpoint, string(kind)).Inc()

	switch kind {
	case risk.KindUnknownIndicator, risk.KindMissingIndicator, risk.KindOutOfRange, risk.KindEncoding:
		return xhttp.AppErrorResponse(c, xhttp.NewAppError(string(kind), "", err.Error(), http.StatusBadRequest))
	case risk.KindSchemaMismatch, risk.KindInference, risk.KindInvalidProbability:
		h.logger.Error("assessment failed", xlogger.String("endpoint", endpoint), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.NewAppError(string(kind), "", err.Error(), http.StatusBadGateway))
	default:
		h.logger.Error("assessment failed", xlogger.String("endpoint", endpoint), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
}

