package analytics

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carelog/ward-api/internal/analytics"
	"github.com/carelog/ward-api/internal/handler"
	"github.com/carelog/ward-api/internal/service/report"
	apperrors "github.com/carelog/ward-api/pkg/errors"
	"github.com/carelog/ward-api/pkg/httputil"
)

type Handler struct {
	service *report.Service
}

func NewHandler(service *report.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	wards := r.Group("/wards/:unit")
	{
		wards.GET("/distributions/:dimension", h.GetDistribution)
		wards.GET("/census", h.GetCensus)
		wards.GET("/risk", h.GetRisk)
	}
}

func (h *Handler) GetDistribution(c *gin.Context) {
	q, err := handler.BindReportQuery(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	groups, err := h.service.Distribution(c.Request.Context(), q, analytics.Dimension(c.Param("dimension")))
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownDimension) {
			httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
			return
		}
		_ = c.Error(err)
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, groups)
}

func (h *Handler) GetCensus(c *gin.Context) {
	q, err := handler.BindReportQuery(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	granularity := analytics.Granularity(c.DefaultQuery("granularity", string(analytics.GranularityDay)))

	lastN := 0
	if s := c.Query("last"); s != "" {
		lastN, err = strconv.Atoi(s)
		if err != nil || lastN < 0 {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid last parameter", err))
			return
		}
	}

	series, err := h.service.Census(c.Request.Context(), q, granularity, lastN)
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownGranularity) {
			httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
			return
		}
		_ = c.Error(err)
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, series)
}

func (h *Handler) GetRisk(c *gin.Context) {
	q, err := handler.BindReportQuery(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	rep, err := h.service.Risk(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, rep)
}
