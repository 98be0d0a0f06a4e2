package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind is the error category. It decides the HTTP status at the boundary
// and whether the caller should ever retry (it never should, see the
// error-handling policy: no automatic retries anywhere).
type Kind string

const (
	KindValidation  Kind = "VALIDATION"
	KindAuth        Kind = "AUTH"
	KindNotFound    Kind = "NOT_FOUND"
	KindTimeout     Kind = "UPSTREAM_TIMEOUT"
	KindIntegration Kind = "UPSTREAM_INTEGRATION"
	KindInternal    Kind = "INTERNAL"
)

// AppError carries a category, a user-safe message and optional structured
// details. Wrapped causes stay internal (logged, never serialized).
type AppError struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the category to the boundary status code.
func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindAuth:
		return fiber.StatusUnauthorized
	case KindNotFound:
		return fiber.StatusNotFound
	case KindTimeout:
		return fiber.StatusGatewayTimeout
	case KindIntegration:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *AppError {
	return New(KindValidation, message)
}

func Auth(message string) *AppError {
	return New(KindAuth, message)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func Timeout(message string, err error) *AppError {
	return Wrap(KindTimeout, message, err)
}

func Integration(message string, err error) *AppError {
	return Wrap(KindIntegration, message, err)
}

func Internal(message string, err error) *AppError {
	return Wrap(KindInternal, message, err)
}

// WithDetails attaches structured details serialized into the error envelope.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// From extracts an *AppError from an error chain, or nil.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err carries the given category.
func IsKind(err error, kind Kind) bool {
	if appErr := From(err); appErr != nil {
		return appErr.Kind == kind
	}
	return false
}
