package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail

	return e
}

func (e *AppError) WithError(err error) *AppError {
	e.Err = err

	return e
}

const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeInternal     = "INTERNAL_ERROR"

	// Cart and checkout taxonomy.
	ErrCodeEmptyCart             = "EMPTY_CART"
	ErrCodeInvalidTotal          = "INVALID_TOTAL"
	ErrCodeInsufficientStock     = "INSUFFICIENT_STOCK"
	ErrCodeInvalidDiscountCode   = "INVALID_DISCOUNT_CODE"
	ErrCodeGatewayError          = "GATEWAY_ERROR"
	ErrCodeOrderSubmissionFailed = "ORDER_SUBMISSION_FAILED"
)

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message, http.StatusBadRequest)
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrCodeBadRequest, message, http.StatusBadRequest)
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrCodeNotFound, message, http.StatusNotFound)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, http.StatusForbidden)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternal, message, http.StatusInternalServerError)
}

func EmptyCartError() *AppError {
	return NewAppError(ErrCodeEmptyCart, "Cannot check out an empty cart", http.StatusBadRequest)
}

func InvalidTotalError(total int) *AppError {
	return NewAppError(ErrCodeInvalidTotal, "Order total must be greater than zero", http.StatusBadRequest).
		WithDetail(fmt.Sprintf("computed total: %d", total))
}

// InsufficientStockError always names the offending product so the
// storefront can point the user at the exact line.
func InsufficientStockError(productCode string) *AppError {
	return NewAppError(ErrCodeInsufficientStock,
		fmt.Sprintf("Insufficient stock for product %s", productCode), http.StatusConflict)
}

func InvalidDiscountCodeError(code string) *AppError {
	return NewAppError(ErrCodeInvalidDiscountCode,
		fmt.Sprintf("Discount code %q is not valid", code), http.StatusBadRequest)
}

func GatewayError(message string) *AppError {
	return NewAppError(ErrCodeGatewayError, message, http.StatusBadGateway)
}

func OrderSubmissionError(message string) *AppError {
	return NewAppError(ErrCodeOrderSubmissionFailed, message, http.StatusBadGateway)
}

func IsAppError(err error) (*AppError, bool) {
	var appError *AppError

	if errors.As(err, &appError) {
		return appError, true
	}

	return nil, false
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code == code
	}

	return false
}
