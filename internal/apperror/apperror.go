// Package apperror defines the typed error returned by the service layer.
// The Message of an AppError is safe to show to API clients; the wrapped
// Err is for logs only.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an AppError.
type Type int

const (
	TypeInternal Type = iota
	TypeValidation
	TypeBadRequest
	TypeAuth
	TypeForbidden
	TypeNotFound
	TypeConflict
)

// AppError carries a client-facing message and an optional cause.
type AppError struct {
	Type    Type
	Message string
	Err     error
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

// StatusCode maps the error type onto an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case TypeValidation, TypeBadRequest:
		return http.StatusBadRequest
	case TypeAuth:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

func New(t Type, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

func Validation(message string, err error) *AppError { return New(TypeValidation, message, err) }
func BadRequest(message string) *AppError             { return New(TypeBadRequest, message, nil) }
func Auth(message string) *AppError                   { return New(TypeAuth, message, nil) }
func Forbidden(message string) *AppError              { return New(TypeForbidden, message, nil) }
func NotFound(message string) *AppError               { return New(TypeNotFound, message, nil) }
func Conflict(message string, err error) *AppError    { return New(TypeConflict, message, err) }
func Internal(message string, err error) *AppError    { return New(TypeInternal, message, err) }

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Is reports whether err carries an AppError of type t.
func Is(err error, t Type) bool {
	ae, ok := As(err)
	return ok && ae.Type == t
}
