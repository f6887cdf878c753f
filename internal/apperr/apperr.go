// Package apperr carries the typed errors handlers produce at the point of
// failure. The HTTP layer renders them; nothing downstream inspects driver
// error shapes.
package apperr

import "net/http"

type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Upstream marks a payment-gateway or other third-party failure that must be
// surfaced to the caller.
func Upstream(message string) *Error {
	return New(http.StatusBadGateway, message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}
