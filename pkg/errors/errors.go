package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Standard error codes
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeNotFound             = "RESOURCE_NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeBadRequest           = "BAD_REQUEST"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	CodeTimeout              = "TIMEOUT"
	CodeRateLimitExceeded    = "RATE_LIMIT_EXCEEDED"
	CodeUnrecognizedScan     = "UNRECOGNIZED_SCAN"
	CodeDuplicateScan        = "DUPLICATE_SCAN"
	CodeManualInputRequired  = "MANUAL_INPUT_REQUIRED"
	CodeStageCompleted       = "STAGE_COMPLETED"
	CodeGatewayUnavailable   = "GATEWAY_UNAVAILABLE"
	CodeProcurementPreferred = "PROCUREMENT_PREFERRED"
)

// AppError represents an application error with HTTP status and error code
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap wraps an existing error
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// NewAppError creates a new AppError
func NewAppError(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Validation errors

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return NewAppError(CodeValidationError, message, http.StatusBadRequest)
}

// ErrValidationWithFields creates a validation error with field details
func ErrValidationWithFields(message string, fields map[string]string) *AppError {
	return ErrValidation(message).WithDetails(fields)
}

// Resource errors

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ErrNotFoundWithID creates a not found error with ID
func ErrNotFoundWithID(resource, id string) *AppError {
	return ErrNotFound(resource).WithDetail("id", id)
}

// ErrConflict creates a conflict error
func ErrConflict(message string) *AppError {
	return NewAppError(CodeConflict, message, http.StatusConflict)
}

// Authentication/Authorization errors

// ErrUnauthorized creates an unauthorized error
func ErrUnauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(CodeUnauthorized, message, http.StatusUnauthorized)
}

// ErrForbidden creates a forbidden error
func ErrForbidden(message string) *AppError {
	if message == "" {
		message = "access denied"
	}
	return NewAppError(CodeForbidden, message, http.StatusForbidden)
}

// Internal errors

// ErrInternal creates an internal error
func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return NewAppError(CodeInternalError, message, http.StatusInternalServerError)
}

// ErrBadRequest creates a bad request error
func ErrBadRequest(message string) *AppError {
	return NewAppError(CodeBadRequest, message, http.StatusBadRequest)
}

// Service errors

// ErrServiceUnavailable creates a service unavailable error
func ErrServiceUnavailable(service string) *AppError {
	return NewAppError(CodeServiceUnavailable, fmt.Sprintf("%s is temporarily unavailable", service), http.StatusServiceUnavailable)
}

// ErrTimeout creates a timeout error
func ErrTimeout(operation string) *AppError {
	return NewAppError(CodeTimeout, fmt.Sprintf("%s timed out", operation), http.StatusGatewayTimeout)
}

// ErrRateLimitExceeded creates a rate limit error
func ErrRateLimitExceeded() *AppError {
	return NewAppError(CodeRateLimitExceeded, "rate limit exceeded", http.StatusTooManyRequests)
}

// Scan workflow errors

// ErrUnrecognizedScan creates an error for scan input that no parser accepted
func ErrUnrecognizedScan(raw string) *AppError {
	return NewAppError(CodeUnrecognizedScan, "scan code not recognized", http.StatusUnprocessableEntity).
		WithDetail("raw", raw)
}

// ErrDuplicateScan creates an error for a scan repeated inside its dedup window
func ErrDuplicateScan(key string) *AppError {
	return NewAppError(CodeDuplicateScan, "scan already submitted, please wait", http.StatusConflict).
		WithDetail("dedupKey", key)
}

// ErrManualInputRequired creates an error asking the operator to key in a quantity
func ErrManualInputRequired(reason string) *AppError {
	if reason == "" {
		reason = "quantity could not be derived from the scan"
	}
	return NewAppError(CodeManualInputRequired, reason, http.StatusUnprocessableEntity)
}

// ErrStageCompleted signals that every process node of the order is already done
func ErrStageCompleted(orderNo string) *AppError {
	return NewAppError(CodeStageCompleted, "all process stages are completed", http.StatusConflict).
		WithDetail("orderNo", orderNo)
}

// ErrGatewayUnavailable creates an error for an unreachable submission gateway
func ErrGatewayUnavailable(message string) *AppError {
	if message == "" {
		message = "submission gateway is unreachable"
	}
	return NewAppError(CodeGatewayUnavailable, message, http.StatusBadGateway)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// FromError converts a standard error to an AppError
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	return ErrInternal("").Wrap(err)
}

// MapDomainError maps common domain error messages to AppErrors
func MapDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	msg := err.Error()

	switch {
	case containsFold(msg, "not found"):
		return ErrNotFound("resource").Wrap(err)
	case containsFold(msg, "already exists"), containsFold(msg, "duplicate"):
		return ErrConflict(msg).Wrap(err)
	case containsFold(msg, "invalid"), containsFold(msg, "required"):
		return ErrValidation(msg).Wrap(err)
	case containsFold(msg, "unauthorized"):
		return ErrUnauthorized(msg).Wrap(err)
	case containsFold(msg, "forbidden"), containsFold(msg, "permission denied"):
		return ErrForbidden(msg).Wrap(err)
	case containsFold(msg, "timeout"):
		return ErrTimeout("operation").Wrap(err)
	default:
		return ErrInternal("").Wrap(err)
	}
}

// MapTransportError classifies connection-level failures from the submission
// gateway into operator-friendly errors. Anything unrecognized is returned
// as a generic gateway failure so the raw network message never reaches the
// scan terminal.
func MapTransportError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	msg := err.Error()

	switch {
	case containsFold(msg, "context deadline exceeded"), containsFold(msg, "timeout"):
		return ErrTimeout("submission").Wrap(err)
	case containsFold(msg, "connection reset"):
		return ErrGatewayUnavailable("connection reset during submission, please retry").Wrap(err)
	case containsFold(msg, "connection refused"):
		return ErrGatewayUnavailable("submission gateway refused the connection").Wrap(err)
	case containsFold(msg, "no such host"), containsFold(msg, "dns"):
		return ErrGatewayUnavailable("submission gateway address could not be resolved").Wrap(err)
	default:
		return ErrGatewayUnavailable("").Wrap(err)
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
