package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when no user matches the given id or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering or updating to an email that is already in use.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidPassword is returned when a login password does not match the stored hash.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrInvalidToken is returned when a bearer token is malformed, mis-signed, expired or revoked.
	ErrInvalidToken = errors.New("invalid token")
	// ErrAdminRequired is returned when a non-admin calls an admin-only operation.
	ErrAdminRequired = errors.New("admin access required")
	// ErrTransactionNotFound is returned when no transaction matches the given id.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidTransactionType is returned when the type is not Income or Expense.
	ErrInvalidTransactionType = errors.New("transaction type must be Income or Expense")
	// ErrInvalidAmount is returned when the amount is not a positive number.
	ErrInvalidAmount = errors.New("amount must be a positive number")
	// ErrEmptyDescription is returned when a transaction description is missing.
	ErrEmptyDescription = errors.New("description is required")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unrecognized errors
// collapse to a generic 500 so internal detail never reaches the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidPassword):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_PASSWORD")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrAdminRequired):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ADMIN_REQUIRED")
	case errors.Is(err, ErrTransactionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TRANSACTION_NOT_FOUND")
	case errors.Is(err, ErrInvalidTransactionType):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TYPE")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	case errors.Is(err, ErrEmptyDescription):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_DESCRIPTION")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
