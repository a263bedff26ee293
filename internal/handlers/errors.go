package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/FatimaaAlzahraa/RouteX/internal/dto"
	"github.com/FatimaaAlzahraa/RouteX/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondServiceError переводит ошибки сервисного слоя в HTTP-ответы.
// Единая точка маппинга, чтобы хендлеры не дублировали switch по сентинелям.
func respondServiceError(c *gin.Context, log *zap.Logger, err error) {
	if ve, ok := service.AsValidation(err); ok {
		fields := toFieldErrors(ve)
		if len(ve.AllowedAddresses) > 0 {
			c.JSON(http.StatusBadRequest, dto.NewAddressValidationError("validation failed", fields, ve.AllowedAddresses))
			return
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", fields))
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", []dto.FieldError{
			{Field: "quantity", Message: err.Error()},
		}))
	case errors.Is(err, service.ErrOutOfStock):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("validation failed", []dto.FieldError{
			{Field: "product", Message: err.Error()},
		}))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError("access denied"))
	case errors.Is(err, service.ErrShipmentNotFound),
		errors.Is(err, service.ErrWarehouseNotFound),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrDriverNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
	case errors.Is(err, service.ErrWarehouseExists),
		errors.Is(err, service.ErrProfileConflict),
		errors.Is(err, service.ErrRoleMismatch):
		c.JSON(http.StatusConflict, dto.NewConflictError(err.Error()))
	default:
		log.Error("Unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

func toFieldErrors(ve *service.ValidationError) []dto.FieldError {
	names := make([]string, 0, len(ve.Fields))
	for f := range ve.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	out := make([]dto.FieldError, 0, len(names))
	for _, f := range names {
		for _, msg := range ve.Fields[f] {
			out = append(out, dto.FieldError{Field: f, Message: msg})
		}
	}
	return out
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid id", []dto.FieldError{
			{Field: "id", Message: "must be a valid uuid"},
		}))
		return uuid.Nil, false
	}
	return id, true
}
