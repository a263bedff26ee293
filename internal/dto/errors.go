package dto

// BaseError — универсальный корневой формат ошибки.
// Code — машинный код (snake_case), Message — краткое описание,
// Fields — для валидационных ошибок, AllowedAddresses — подсказка
// клиенту при отказе по адресу доставки.
type BaseError struct {
	Code             string       `json:"code"`
	Message          string       `json:"message"`
	Details          string       `json:"details,omitempty"`
	Fields           []FieldError `json:"fields,omitempty"`
	AllowedAddresses []string     `json:"allowed_addresses,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse BaseError
type UnauthorizedErrorResponse BaseError
type ForbiddenErrorResponse BaseError
type NotFoundErrorResponse BaseError
type ConflictErrorResponse BaseError
type InternalErrorResponse BaseError

func NewValidationError(msg string, fields []FieldError) ValidationErrorResponse {
	return ValidationErrorResponse(BaseError{Code: "validation_error", Message: msg, Fields: fields})
}

func NewAddressValidationError(msg string, fields []FieldError, allowed []string) ValidationErrorResponse {
	return ValidationErrorResponse(BaseError{
		Code: "validation_error", Message: msg, Fields: fields, AllowedAddresses: allowed,
	})
}

func NewUnauthorizedError(msg string) UnauthorizedErrorResponse {
	return UnauthorizedErrorResponse(BaseError{Code: "unauthorized", Message: msg})
}

func NewForbiddenError(msg string) ForbiddenErrorResponse {
	return ForbiddenErrorResponse(BaseError{Code: "forbidden", Message: msg})
}

func NewNotFoundError(msg string) NotFoundErrorResponse {
	return NotFoundErrorResponse(BaseError{Code: "not_found", Message: msg})
}

func NewConflictError(msg string) ConflictErrorResponse {
	return ConflictErrorResponse(BaseError{Code: "conflict", Message: msg})
}

func NewInternalError(details string) InternalErrorResponse {
	return InternalErrorResponse(BaseError{Code: "internal_error", Message: "internal server error", Details: details})
}
