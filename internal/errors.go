package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeNotImpl      ErrorType = "NOT_IMPLEMENTED"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidMobile    ErrorCode = "INVALID_MOBILE_NUMBER"
	ErrCodeInvalidPin       ErrorCode = "INVALID_PIN"
	ErrCodeInvalidCard      ErrorCode = "INVALID_CARD_NUMBER"
	ErrCodeInvalidExpiry    ErrorCode = "INVALID_EXPIRY_DATE"
	ErrCodeInvalidCVV       ErrorCode = "INVALID_CVV"
	ErrCodeInvalidChoice    ErrorCode = "INVALID_CHOICE"
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"

	ErrCodePaymentNotFound       ErrorCode = "PAYMENT_NOT_FOUND"
	ErrCodeOrderNotFound         ErrorCode = "ORDER_NOT_FOUND"
	ErrCodePaymentMethodNotFound ErrorCode = "PAYMENT_METHOD_NOT_FOUND"
	ErrCodeUserNotFound          ErrorCode = "USER_NOT_FOUND"
	ErrCodeInvalidTransition     ErrorCode = "INVALID_PAYMENT_TRANSITION"
	ErrCodePaymentNotRefundable  ErrorCode = "PAYMENT_NOT_REFUNDABLE"
	ErrCodeOrderAlreadyPaid      ErrorCode = "ORDER_ALREADY_PAID"
	ErrCodeMethodNotImplemented  ErrorCode = "METHOD_NOT_IMPLEMENTED"
	ErrCodeStaffRequired         ErrorCode = "STAFF_REQUIRED"
	ErrCodeUnauthorizedAccess    ErrorCode = "UNAUTHORIZED_ACCESS"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {

			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewNotImplementedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotImpl,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotImplemented,
	}
}

var (
	ErrPaymentNotFound       = NewNotFoundError("Payment not found.", ErrCodePaymentNotFound)
	ErrOrderNotFound         = NewNotFoundError("Order not found.", ErrCodeOrderNotFound)
	ErrPaymentMethodNotFound = NewNotFoundError("Payment method not available.", ErrCodePaymentMethodNotFound)
	ErrUserNotFound          = NewNotFoundError("User not found.", ErrCodeUserNotFound)
	ErrInvalidTransition     = NewConflictError("Payment status transition is not allowed.", ErrCodeInvalidTransition)
	ErrPaymentNotRefundable  = NewConflictError("Payment cannot be refunded.", ErrCodePaymentNotRefundable)
	ErrOrderAlreadyPaid      = NewConflictError("Order already has a payment.", ErrCodeOrderAlreadyPaid)
	ErrMethodNotImplemented  = NewNotImplementedError("Payment method not implemented yet.", ErrCodeMethodNotImplemented)
	ErrStaffRequired         = NewForbiddenError("You do not have permission to perform this action.", ErrCodeStaffRequired)
	ErrUnauthorizedAccess    = NewForbiddenError("You do not have access to this resource.", ErrCodeUnauthorizedAccess)

	ErrInvalidCredentials = NewUnauthorizedError("No active account found with the given credentials", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewUnauthorizedError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Given token not valid for any token type", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrMissingToken       = NewUnauthorizedError("Authentication credentials were not provided.", ErrCodeMissingToken)
)

// IsAppError reports whether err, or anything it wraps, is an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Response is the JSON error envelope. Detail mirrors the message for clients
// that only read a top-level detail string.
type Response struct {
	Error  *AppError `json:"error"`
	Detail string    `json:"detail"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e, Detail: e.GetDetailedMessage()}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
