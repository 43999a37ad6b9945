// Package apperr defines the error taxonomy handlers map to HTTP statuses.
package apperr

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) *Error { return &Error{Status: http.StatusBadRequest, Message: msg} }
func Auth(msg string) *Error       { return &Error{Status: http.StatusUnauthorized, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Status: http.StatusForbidden, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Status: http.StatusNotFound, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Status: http.StatusConflict, Message: msg} }

// StatusOf returns the HTTP status for err, 500 for anything outside the
// taxonomy.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message for err. Unexpected errors get
// a generic message so internals never leak into responses.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Unexpected server error"
}
