package mortality

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
	r.GET("/wards/:unit/mortality", h.GetMortality)
}

func (h *Handler) GetMortality(c *gin.Context) {
	q, err := handler.BindReportQuery(c)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	rep, err := h.service.Mortality(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, rep)
}
