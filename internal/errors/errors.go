package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUnauthorized is returned when a request carries no usable credentials.
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid credentials.")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("Username or email already exists.")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("User not found")
	// ErrProjectNotFound is returned when a project is not found.
	ErrProjectNotFound = errors.New("Project not found")
	// ErrValidation is returned when request input is rejected.
	ErrValidation = errors.New("invalid request")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are
// matched, and anything unknown becomes a 500 without detail.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, ErrUserAlreadyExists.Error())
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error())
	case errors.Is(err, ErrProjectNotFound):
		return NewHTTPError(http.StatusNotFound, ErrProjectNotFound.Error())
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "Server error")
	}
}
