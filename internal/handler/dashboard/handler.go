package dashboard

import (
	"github.com/gin-gonic/gin"

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
		wards.GET("/dashboard", h.GetDashboard)
		wards.GET("/observations/summary", h.GetObservationSummary)
	}
}

func (h *Handler) GetDashboard(c *gin.Context) {
	q, err := handler.BindReportQuery(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	rep, err := h.service.Dashboard(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, rep)
}

func (h *Handler) GetObservationSummary(c *gin.Context) {
	q, err := handler.BindReportQuery(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	stats, err := h.service.Observations(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}
