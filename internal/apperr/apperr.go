package apperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// FieldError is one entry of the "errors" array in the error body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the application error carried from the engine/handlers up to
// the central fiber error handler, which renders it as
// {message, field?, errors?} with the matching HTTP status.
type Error struct {
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Field   string       `json:"field,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (field: %s)", e.Message, e.Field)
	}
	return e.Message
}

func Invalid(field, message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message, Field: field}
}

func InvalidFields(message string, fields []FieldError) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message, Errors: fields}
}

func Conflict(field, message string) *Error {
	return &Error{Status: fiber.StatusConflict, Message: message, Field: field}
}

func NotFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: message}
}

func Internal(message string) *Error {
	return &Error{Status: fiber.StatusInternalServerError, Message: message}
}
