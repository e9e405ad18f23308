package api

import "net/http"

// Error is an error with the HTTP status code it should be reported as.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Message: message}
}

func NewInternalServerError(message string) *Error {
	return &Error{StatusCode: http.StatusInternalServerError, Message: message}
}

func NewServiceUnavailable(message string) *Error {
	return &Error{StatusCode: http.StatusServiceUnavailable, Message: message}
}

func NewRequestEntityTooLarge(message string) *Error {
	return &Error{StatusCode: http.StatusRequestEntityTooLarge, Message: message}
}
