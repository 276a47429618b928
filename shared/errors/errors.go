package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error kinds every layer classifies failures into. Compare with errors.Is;
// an ErrorWithStatusCode matches the kind its status code implies.
var (
	ErrNetwork            = stderrors.New("network error")
	ErrAuth               = stderrors.New("not authorized")
	ErrValidation         = stderrors.New("validation failed")
	ErrNotFound           = stderrors.New("not found")
	ErrInvalidCredentials = stderrors.New("invalid username or password")
	ErrAuthService        = stderrors.New("authentication service unavailable")
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) Is(target error) bool {
	switch target {
	case ErrAuth:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

func New(statusCode int, format string, args ...any) error {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, args...), StatusCode: statusCode}
}

func NotFound(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusNotFound}
}

func BadRequest(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusBadRequest}
}

func Unauthorized(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusUnauthorized}
}

func Forbidden(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusForbidden}
}

// StatusCode returns the carried status, or 500 for anything else.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
}

func IsAuth(err error) bool {
	return stderrors.Is(err, ErrAuth)
}

func IsValidation(err error) bool {
	return stderrors.Is(err, ErrValidation)
}

func IsNetwork(err error) bool {
	return stderrors.Is(err, ErrNetwork)
}
