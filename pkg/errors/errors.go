package errors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Backend error kinds. Vendor errors are collapsed into this closed set.
const (
	CodeUnknown         = "UNKNOWN"
	CodeNetwork         = "NETWORK"
	CodeNotFound        = "NOT_FOUND"
	CodeExists          = "EXISTS"
	CodeEmpty           = "EMPTY"
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
)

// Auth error kinds, mapped from identity provider responses.
const (
	CodeInvalidEmail    = "INVALID_EMAIL"
	CodeWrongPassword   = "WRONG_PASSWORD"
	CodeEmailInUse      = "EMAIL_IN_USE"
	CodeWeakPassword    = "WEAK_PASSWORD"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeTooManyAttempts = "TOO_MANY_ATTEMPTS"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func Exists(resource string) *AppError {
	return &AppError{
		Code:    CodeExists,
		Message: fmt.Sprintf("%s already exists", resource),
		Status:  http.StatusConflict,
	}
}

func Empty(resource string) *AppError {
	return &AppError{
		Code:    CodeEmpty,
		Message: fmt.Sprintf("no %s found", resource),
		Status:  http.StatusNotFound,
	}
}

func Network() *AppError {
	return &AppError{
		Code:    CodeNetwork,
		Message: "backend is unreachable",
		Status:  http.StatusServiceUnavailable,
	}
}

func Unknown(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnknown,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:    CodeTooManyRequests,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

// Auth builds an auth-kind error. Status is derived from the kind.
func Auth(code, message string, err error) *AppError {
	status := http.StatusUnauthorized
	switch code {
	case CodeInvalidEmail, CodeWeakPassword:
		status = http.StatusBadRequest
	case CodeEmailInUse:
		status = http.StatusConflict
	case CodeUserNotFound:
		status = http.StatusNotFound
	case CodeTooManyAttempts:
		status = http.StatusTooManyRequests
	case CodeNetwork:
		status = http.StatusServiceUnavailable
	case CodeUnknown:
		status = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

// FromBackend maps a document/realtime store error into the closed set.
// Only NotFound is matched; everything else is UNKNOWN.
func FromBackend(err error, resource string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if status.Code(err) == codes.NotFound {
		return NotFound(resource, err)
	}
	return Unknown(fmt.Sprintf("failed to access %s", resource), err)
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
