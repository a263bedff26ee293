package handlers

import (
	"net/http"

	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DriverStatusHandler struct {
	availability service.AvailabilityService
	log          *zap.Logger
}

func NewDriverStatusHandler(availability service.AvailabilityService, log *zap.Logger) *DriverStatusHandler {
	return &DriverStatusHandler{
		availability: availability,
		log:          log,
	}
}

// ListHandler godoc
// @Summary Занятость водителей
// @Description Проекция по последним статусам: busy/available/unavailable; фильтр q по имени или телефону
// @Security BearerAuth
// @Tags driver-statuses
// @Produce json
// @Param q query string false "Поиск по имени или телефону"
// @Success 200 {array} service.DriverStatus
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджеров"
// @Router /api/v1/driver-statuses [get]
func (h *DriverStatusHandler) List(c *gin.Context) {
	list, err := h.availability.ListDriverStatuses(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, list)
}
