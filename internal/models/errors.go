package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the wire shape of every error body.
type ErrorResponse struct {
	Message string `json:"message"`
}

// AppError is a classified application error. Status determines the HTTP
// response code; Err carries the underlying cause for logging and is never
// sent to the client.
type AppError struct {
	Code    string
	Status  int
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

// NewNotFoundError returns a 404 error for a missing resource.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Status:  fiber.StatusNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewValidationError returns a 400 error for invalid or conflicting input.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Status:  fiber.StatusBadRequest,
		Message: message,
	}
}

// NewUnauthorizedError returns a 401 error for failed authentication.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Status:  fiber.StatusUnauthorized,
		Message: message,
	}
}

// NewForbiddenError returns a 403 error for an action the authenticated
// user is not allowed to perform.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Status:  fiber.StatusForbidden,
		Message: message,
	}
}

// NewInternalError returns a 500 error wrapping an unexpected failure.
// The wrapped error is logged, not exposed.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError writes the standardized error body, deriving the HTTP
// status from the error kind. Unclassified errors respond with 500 and a
// generic message.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(ErrorResponse{Message: appErr.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "Internal server error"})
}
