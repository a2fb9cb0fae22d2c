package http

import (
	"fmt"
	"net/http"
)

// Error codes returned in AppError.Code by the analytics API.
const (
	CodeMalformedInput   = "ERR_MALFORMED_INPUT"
	CodeInsufficientData = "ERR_INSUFFICIENT_DATA"
	CodeSeriesTooLong    = "ERR_SERIES_TOO_LONG"
	CodeInternal         = "ERR_INTERNAL"
)

// AppError is an error that knows its HTTP status and the code clients switch on.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// WithError keeps err as the cause; it is logged, never serialized.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// MalformedInputError is a 400 for values the engine rejects after request validation passed.
func MalformedInputError(message string) *AppError {
	return NewAppError(CodeMalformedInput, message, http.StatusBadRequest)
}

// InsufficientDataError is a 422: the request is well formed but history is too short.
func InsufficientDataError(message string) *AppError {
	return NewAppError(CodeInsufficientData, message, http.StatusUnprocessableEntity)
}

func SeriesTooLongError(message string) *AppError {
	return NewAppError(CodeSeriesTooLong, message, http.StatusRequestEntityTooLarge)
}

func InternalError(message string) *AppError {
	return NewAppError(CodeInternal, message, http.StatusInternalServerError)
}
