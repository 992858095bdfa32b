// Package httperror maps internal failures onto the API error envelope.
package httperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kapu/vibecheck-analytics-go/internal/quiz"
	"github.com/kapu/vibecheck-analytics-go/internal/repository"
	"github.com/kapu/vibecheck-analytics-go/internal/stats"
)

// ErrorCode identifies an API error class.
type ErrorCode string

const (
	// ErrorCodeInternal marks unclassified server failures.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeValidation marks request body validation failures.
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrorCodeUnauthorized marks API key failures.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrorCodeHTTPRateLimit marks throttled requests.
	ErrorCodeHTTPRateLimit ErrorCode = "HTTP_RATE_LIMIT"
	// ErrorCodeStoreUnavailable marks record store query failures.
	ErrorCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrorCodeUnknownMetric marks leaderboard requests for unknown metrics.
	ErrorCodeUnknownMetric ErrorCode = "UNKNOWN_METRIC"
	// ErrorCodeSessionNotFound marks missing or expired quiz sessions.
	ErrorCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	// ErrorCodeInsufficientData marks windows too thin to build a quiz from.
	ErrorCodeInsufficientData ErrorCode = "INSUFFICIENT_QUIZ_DATA"
	// ErrorCodeInvalidInput marks malformed request input.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrorCodeMissingField marks absent required fields.
	ErrorCodeMissingField ErrorCode = "MISSING_FIELD"
)

// ErrorResponse is the API error body.
type ErrorResponse struct {
	ErrorCode string         `json:"error_code"`
	ErrorType string         `json:"error_type"`
	Message   string         `json:"message"`
	RequestID *string        `json:"request_id"`
	Details   map[string]any `json:"details"`
}

// Error is the internal standard error type.
type Error struct {
	Code    ErrorCode
	Status  int
	Type    string
	Message string
	Details map[string]any
}

// Error returns the error message.
func (e *Error) Error() string {
	return e.Message
}

// Response converts an error into an HTTP status and body.
func Response(err error, requestID string) (int, ErrorResponse) {
	apiErr := FromError(err)
	if apiErr == nil {
		apiErr = NewInternalError("unknown error")
	}

	var requestIDPtr *string
	if requestID != "" {
		requestIDPtr = &requestID
	}

	return apiErr.Status, ErrorResponse{
		ErrorCode: string(apiErr.Code),
		ErrorType: apiErr.Type,
		Message:   apiErr.Message,
		RequestID: requestIDPtr,
		Details:   apiErr.Details,
	}
}

// FromError classifies an error into the API taxonomy.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, repository.ErrStoreUnavailable) {
		return NewStoreUnavailable(err.Error())
	}

	if errors.Is(err, quiz.ErrSessionNotFound) {
		return NewSessionNotFound("")
	}

	if errors.Is(err, stats.ErrUnknownMetric) {
		return &Error{
			Code:    ErrorCodeUnknownMetric,
			Status:  http.StatusBadRequest,
			Type:    "UnknownMetricError",
			Message: err.Error(),
			Details: nil,
		}
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return NewValidationError(err)
	}

	return NewInternalError(err.Error())
}

// NewInternalError creates an unclassified server error.
func NewInternalError(message string) *Error {
	return &Error{
		Code:    ErrorCodeInternal,
		Status:  http.StatusInternalServerError,
		Type:    "InternalError",
		Message: message,
		Details: nil,
	}
}

// NewValidationError wraps request validation failures.
func NewValidationError(err error) *Error {
	return &Error{
		Code:    ErrorCodeValidation,
		Status:  http.StatusUnprocessableEntity,
		Type:    "ValidationError",
		Message: "Input validation failed",
		Details: validationDetails(err),
	}
}

// NewMissingField creates a missing-field error.
func NewMissingField(field string) *Error {
	return &Error{
		Code:    ErrorCodeMissingField,
		Status:  http.StatusBadRequest,
		Type:    "MissingFieldError",
		Message: fmt.Sprintf("Field '%s' required", field),
		Details: map[string]any{"field": field},
	}
}

// NewInvalidInput creates a malformed-input error.
func NewInvalidInput(message string) *Error {
	return &Error{
		Code:    ErrorCodeInvalidInput,
		Status:  http.StatusBadRequest,
		Type:    "InvalidInputError",
		Message: message,
		Details: nil,
	}
}

// NewUnauthorized creates an API key error.
func NewUnauthorized(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeUnauthorized,
		Status:  http.StatusUnauthorized,
		Type:    "UnauthorizedError",
		Message: "Invalid API key",
		Details: details,
	}
}

// NewRateLimitExceeded creates a throttling error.
func NewRateLimitExceeded(details map[string]any) *Error {
	return &Error{
		Code:    ErrorCodeHTTPRateLimit,
		Status:  http.StatusTooManyRequests,
		Type:    "HTTPRateLimitExceededError",
		Message: "Rate limit exceeded",
		Details: details,
	}
}

// NewStoreUnavailable wraps a record store query failure. The caller gets
// one descriptive failure, never partial data.
func NewStoreUnavailable(message string) *Error {
	return &Error{
		Code:    ErrorCodeStoreUnavailable,
		Status:  http.StatusServiceUnavailable,
		Type:    "StoreUnavailableError",
		Message: message,
		Details: nil,
	}
}

// NewUnknownMetric rejects leaderboard requests for unconfigured metrics.
func NewUnknownMetric(metric string) *Error {
	return &Error{
		Code:    ErrorCodeUnknownMetric,
		Status:  http.StatusBadRequest,
		Type:    "UnknownMetricError",
		Message: fmt.Sprintf("Unknown metric '%s'", metric),
		Details: map[string]any{"metric": metric},
	}
}

// NewSessionNotFound creates a missing quiz session error.
func NewSessionNotFound(sessionID string) *Error {
	message := "Quiz session not found"
	details := map[string]any{}
	if sessionID != "" {
		message = fmt.Sprintf("Quiz session '%s' not found", sessionID)
		details["session_id"] = sessionID
	}
	return &Error{
		Code:    ErrorCodeSessionNotFound,
		Status:  http.StatusNotFound,
		Type:    "SessionNotFoundError",
		Message: message,
		Details: details,
	}
}

// NewInsufficientData reports a window without enough records for a quiz.
func NewInsufficientData(message string) *Error {
	return &Error{
		Code:    ErrorCodeInsufficientData,
		Status:  http.StatusConflict,
		Type:    "InsufficientDataError",
		Message: message,
		Details: nil,
	}
}

// FieldError carries one field's validation detail.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]FieldError, 0, len(validationErrors))
		for _, validationErr := range validationErrors {
			fields = append(fields, FieldError{
				Field:   validationErr.Field(),
				Message: validationErr.Error(),
				Value:   validationErr.Value(),
			})
		}
		return map[string]any{"errors": fields}
	}

	return map[string]any{
		"errors": []FieldError{
			{
				Field:   "body",
				Message: err.Error(),
				Value:   nil,
			},
		},
	}
}
