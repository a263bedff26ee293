package service

import (
	"errors"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrWarehouseNotFound = errors.New("warehouse not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrDriverNotFound    = errors.New("driver not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrUserNotFound      = errors.New("user not found")

	ErrWarehouseExists = errors.New("warehouse with this name and location already exists")
	ErrProfileConflict = errors.New("user already holds the opposite profile")
	ErrRoleMismatch    = errors.New("user role does not match the profile")
	ErrOutOfStock      = errors.New("insufficient stock for product")
	ErrInvalidQuantity = errors.New("quantity must be > 0")
)

// ValidationError — ошибка уровня полей: map имя поля -> сообщения.
// Для отказов по адресу дополнительно несёт список допустимых адресов,
// чтобы клиент мог повторить запрос без дополнительного вызова.
type ValidationError struct {
	Fields           map[string][]string
	AllowedAddresses []string
}

func NewValidationError(field, msg string) *ValidationError {
	e := &ValidationError{Fields: map[string][]string{}}
	e.Add(field, msg)
	return e
}

func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msgs := range e.Fields {
		parts = append(parts, f+": "+strings.Join(msgs, "; "))
	}
	return "validation: " + strings.Join(parts, ", ")
}

// AsValidation разворачивает err до *ValidationError, если это она.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
