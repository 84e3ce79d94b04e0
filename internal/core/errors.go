// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limited")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrTokenInvalid = errors.New("token invalid")
)

// AppError is the single structured failure type that crosses the service
// boundary. Status is the client-facing HTTP status; Message is safe to
// serialize verbatim. The wrapped Err stays internal.
type AppError struct {
	Err     error
	Message string
	Status  int
	Code    string
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

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Status:  status,
		Code:    code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func ValidationError(message string) *AppError {
	return NewAppError(
		ErrInvalidInput,
		message,
		http.StatusBadRequest,
		"VALIDATION_ERROR",
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(
		ErrUnauthorized,
		message,
		http.StatusUnauthorized,
		"UNAUTHORIZED",
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		resource+" not found",
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrConflict, message, http.StatusConflict, "CONFLICT")
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		field+" already exists",
		http.StatusConflict,
		"DUPLICATE",
	)
}

func RateLimitedError(message string) *AppError {
	if message == "" {
		message = "rate limit exceeded"
	}
	return NewAppError(
		ErrRateLimited,
		message,
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	)
}

func InternalError(err error) *AppError {
	return NewAppError(
		err,
		"internal server error",
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"token has expired",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}

func TokenRevokedError() *AppError {
	return NewAppError(
		ErrTokenRevoked,
		"token has been revoked",
		http.StatusUnauthorized,
		"TOKEN_REVOKED",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"invalid token",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

// Classify maps an arbitrary error onto the taxonomy. Services use it for
// failures that are not business conditions: known sentinels keep their
// classification, everything else becomes a 500 that hides its cause.
func Classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(err, "not found", http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrConflict):
		return NewAppError(err, "conflict", http.StatusConflict, "CONFLICT")
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(
			err,
			"invalid input",
			http.StatusBadRequest,
			"VALIDATION_ERROR",
		)
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(
			err,
			"authentication required",
			http.StatusUnauthorized,
			"UNAUTHORIZED",
		)
	case errors.Is(err, ErrForbidden):
		return NewAppError(
			err,
			"insufficient permissions",
			http.StatusForbidden,
			"FORBIDDEN",
		)
	case errors.Is(err, ErrRateLimited):
		return NewAppError(
			err,
			"rate limit exceeded",
			http.StatusTooManyRequests,
			"RATE_LIMITED",
		)
	default:
		return InternalError(err)
	}
}
