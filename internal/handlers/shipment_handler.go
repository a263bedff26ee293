package handlers

import (
	"net/http"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/internal/dto"
	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ShipmentHandler struct {
	shipments service.ShipmentService
	log       *zap.Logger
}

func NewShipmentHandler(shipments service.ShipmentService, log *zap.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		shipments: shipments,
		log:       log,
	}
}

// CreateHandler godoc
// @Summary Создание отгрузки
// @Description Создаёт отгрузку; при назначении водителя и товара атомарно резервирует единицу остатка
// @Security BearerAuth
// @Tags shipments
// @Accept json
// @Produce json
// @Param shipment body dto.CreateShipmentRequest true "Данные отгрузки"
// @Success 201 {object} dto.ShipmentResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные или нет остатка"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджеров"
// @Failure 404 {object} dto.NotFoundErrorResponse "Ссылка на несуществующий объект"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/shipments [post]
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req dto.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid create shipment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	sh, err := h.shipments.CreateShipment(c.Request.Context(), req.ToInput())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToShipmentResponse(sh))
}

// GetHandler godoc
// @Summary Получение отгрузки
// @Security BearerAuth
// @Tags shipments
// @Produce json
// @Param id path string true "ID отгрузки"
// @Success 200 {object} dto.ShipmentResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Отгрузка не найдена"
// @Router /api/v1/shipments/{id} [get]
func (h *ShipmentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	sh, err := h.shipments.GetShipment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToShipmentResponse(sh))
}

// UpdateHandler godoc
// @Summary Обновление отгрузки
// @Description Частичное обновление; null в полях driver/product/customer снимает назначение и освобождает резерв
// @Security BearerAuth
// @Tags shipments
// @Accept json
// @Produce json
// @Param id path string true "ID отгрузки"
// @Param shipment body dto.UpdateShipmentRequest true "Изменяемые поля"
// @Success 200 {object} dto.ShipmentResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные или нет остатка"
// @Failure 404 {object} dto.NotFoundErrorResponse "Отгрузка не найдена"
// @Router /api/v1/shipments/{id} [patch]
func (h *ShipmentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid update shipment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	sh, err := h.shipments.UpdateShipment(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToShipmentResponse(sh))
}

// DeleteHandler godoc
// @Summary Удаление отгрузки
// @Description Удаляет отгрузку; удерживаемый резерв возвращается на склад
// @Security BearerAuth
// @Tags shipments
// @Param id path string true "ID отгрузки"
// @Success 204 "Удалено"
// @Failure 404 {object} dto.NotFoundErrorResponse "Отгрузка не найдена"
// @Router /api/v1/shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.shipments.DeleteShipment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("shipment not found"))
		return
	}

	c.Status(http.StatusNoContent)
}

// ListHandler godoc
// @Summary Список отгрузок
// @Description Для менеджеров; поддерживает фильтр updated_since (RFC3339)
// @Security BearerAuth
// @Tags shipments
// @Produce json
// @Param updated_since query string false "Только изменённые после момента"
// @Success 200 {array} dto.ShipmentResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджеров"
// @Router /api/v1/shipments [get]
func (h *ShipmentHandler) List(c *gin.Context) {
	var f service.ShipmentListFilter
	if raw := c.Query("updated_since"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid query", []dto.FieldError{
				{Field: "updated_since", Message: "must be an RFC3339 timestamp"},
			}))
			return
		}
		f.UpdatedSince = &ts
	}

	list, err := h.shipments.ListShipments(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToShipmentResponses(list))
}

// ListMineHandler godoc
// @Summary Отгрузки текущего водителя
// @Security BearerAuth
// @Tags shipments
// @Produce json
// @Success 200 {array} dto.ShipmentResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для водителей"
// @Router /api/v1/shipments/my [get]
func (h *ShipmentHandler) ListMine(c *gin.Context) {
	list, err := h.shipments.ListDriverShipments(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToShipmentResponses(list))
}
