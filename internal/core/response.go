// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(data)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// JSONError serializes an error as the stable {"error": message} payload.
// AppError statuses pass through unchanged; anything else is a 500 with the
// cause kept server-side.
func JSONError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError(err)
	}

	if appErr.Status >= http.StatusInternalServerError {
		slog.Error("request failed", "error", appErr.Err, "code", appErr.Code)
	}

	writeJSON(w, appErr.Status, ErrorResponse{Error: appErr.Message})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, ValidationError(message))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func Conflict(w http.ResponseWriter, message string) {
	JSONError(w, ConflictError(message))
}

func InternalServerError(w http.ResponseWriter, err error) {
	JSONError(w, InternalError(err))
}

func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request"
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fieldErr.Field()+" is required")
		case "email":
			messages = append(messages, fieldErr.Field()+" must be a valid email")
		case "min":
			messages = append(
				messages,
				fieldErr.Field()+" must be at least "+fieldErr.Param(),
			)
		case "max":
			messages = append(
				messages,
				fieldErr.Field()+" must be at most "+fieldErr.Param(),
			)
		case "oneof":
			messages = append(
				messages,
				fieldErr.Field()+" must be one of: "+fieldErr.Param(),
			)
		default:
			messages = append(messages, fieldErr.Field()+" is invalid")
		}
	}

	return strings.Join(messages, "; ")
}
