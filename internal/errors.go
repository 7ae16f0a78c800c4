package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeBadRequest       ErrorCode = "BAD_REQUEST"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeEmailInUse         ErrorCode = "EMAIL_IN_USE"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"

	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmployeeNotFound  ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeRequestNotFound   ErrorCode = "REQUEST_NOT_FOUND"
	ErrCodeManagerNotFound   ErrorCode = "MANAGER_NOT_FOUND"
	ErrCodeEmployeeCodeInUse ErrorCode = "EMPLOYEE_CODE_IN_USE"
	ErrCodeNoEmployeeProfile ErrorCode = "NO_EMPLOYEE_PROFILE"

	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeAlreadyClockedIn  ErrorCode = "ALREADY_CLOCKED_IN"
	ErrCodeNoOpenTimeEntry   ErrorCode = "NO_OPEN_TIME_ENTRY"
	ErrCodeInvalidClockOut   ErrorCode = "INVALID_CLOCK_OUT"
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
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
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

var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is disabled", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid or expired token", ErrCodeInvalidToken)
	ErrEmailInUse         = NewValidationError("Email already in use", ErrCodeEmailInUse)

	ErrUserNotFound      = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrEmployeeNotFound  = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrRequestNotFound   = NewNotFoundError("Request not found", ErrCodeRequestNotFound)
	ErrManagerNotFound   = NewValidationError("Manager not found", ErrCodeManagerNotFound)
	ErrEmployeeCodeInUse = NewValidationError("Employee code already in use", ErrCodeEmployeeCodeInUse)
	ErrNoEmployeeProfile = NewValidationError("Employee profile not found", ErrCodeNoEmployeeProfile)

	ErrInvalidTransition = NewValidationError("Invalid request status transition", ErrCodeInvalidTransition)
	ErrAlreadyClockedIn  = NewValidationError("Employee already clocked in", ErrCodeAlreadyClockedIn)
	ErrNoOpenTimeEntry   = NewValidationError("No active time entry found", ErrCodeNoOpenTimeEntry)
	ErrInvalidClockOut   = NewValidationError("Clock-out time must be after clock-in time", ErrCodeInvalidClockOut)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
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
