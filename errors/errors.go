package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUsernameTaken      = fmt.Errorf("username already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid username or password")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)

// MapToHTTPStatus translates domain errors into status codes at the REST
// boundary. Anything outside the taxonomy is an infrastructure fault.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
