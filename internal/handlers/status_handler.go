package handlers

import (
	"net/http"

	"github.com/FatimaaAlzahraa/RouteX/internal/dto"
	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatusUpdateHandler struct {
	statuses service.StatusService
	log      *zap.Logger
}

func NewStatusUpdateHandler(statuses service.StatusService, log *zap.Logger) *StatusUpdateHandler {
	return &StatusUpdateHandler{
		statuses: statuses,
		log:      log,
	}
}

// CreateHandler godoc
// @Summary Добавление статуса отгрузки
// @Description Водитель назначенной отгрузки добавляет запись в журнал; timestamp ставит сервер
// @Security BearerAuth
// @Tags status-updates
// @Accept json
// @Produce json
// @Param status body dto.CreateStatusUpdateRequest true "Статус и опциональная геометка"
// @Success 201 {object} dto.StatusUpdateResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверный статус или геоданные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Отгрузка назначена другому водителю"
// @Failure 404 {object} dto.NotFoundErrorResponse "Отгрузка не найдена"
// @Router /api/v1/status-updates [post]
func (h *StatusUpdateHandler) Create(c *gin.Context) {
	var req dto.CreateStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid status update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	su, err := h.statuses.AppendStatusUpdate(c.Request.Context(), req.ToInput())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStatusUpdateResponse(su))
}

// ListByShipmentHandler godoc
// @Summary Журнал статусов отгрузки
// @Description Менеджер или назначенный водитель; записи от новых к старым
// @Security BearerAuth
// @Tags status-updates
// @Produce json
// @Param id path string true "ID отгрузки"
// @Success 200 {array} dto.StatusUpdateResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse "Нет доступа к отгрузке"
// @Failure 404 {object} dto.NotFoundErrorResponse "Отгрузка не найдена"
// @Router /api/v1/shipments/{id}/status-updates [get]
func (h *StatusUpdateHandler) ListByShipment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	list, err := h.statuses.ListStatusUpdates(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusUpdateResponses(list))
}
