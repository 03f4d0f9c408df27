// Package errors provides custom error types for the Savora API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors. ErrInvalidCredentials deliberately carries a 400:
// the token endpoint rejects bad credentials as a validation failure and
// never reveals whether the email or the password was wrong.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Unable to authenticate with provided credentials", StatusCode: http.StatusBadRequest}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors. Duplicate registration is a validation failure, not a
// conflict, so its status matches the other 400s on the create endpoint.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrEmailTaken   = &AppError{Code: "EMAIL_TAKEN", Message: "A user with this email already exists", StatusCode: http.StatusBadRequest}
)

// Tag and ingredient errors.
var (
	ErrTagNotFound        = &AppError{Code: "TAG_NOT_FOUND", Message: "Tag not found", StatusCode: http.StatusNotFound}
	ErrIngredientNotFound = &AppError{Code: "INGREDIENT_NOT_FOUND", Message: "Ingredient not found", StatusCode: http.StatusNotFound}
)

// Recipe errors.
var (
	ErrRecipeNotFound = &AppError{Code: "RECIPE_NOT_FOUND", Message: "Recipe not found", StatusCode: http.StatusNotFound}
	ErrInvalidImage   = &AppError{Code: "INVALID_IMAGE", Message: "Uploaded file is not a supported image", StatusCode: http.StatusBadRequest}
)
