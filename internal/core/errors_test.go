// AngelaMos | 2026
// errors_test.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		wantCode   string
	}{
		{"validation", ValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unauthorized", UnauthorizedError(""), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", ForbiddenError(""), http.StatusForbidden, "FORBIDDEN"},
		{"not found", NotFoundError("user"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", ConflictError("Already checked in"), http.StatusConflict, "CONFLICT"},
		{"duplicate", DuplicateError("email"), http.StatusConflict, "DUPLICATE"},
		{"rate limited", RateLimitedError(""), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"internal", InternalError(errors.New("x")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"token expired", TokenExpiredError(), http.StatusUnauthorized, "TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestAppErrorMessages(t *testing.T) {
	assert.Equal(t, "user not found", NotFoundError("user").Message)
	assert.Equal(t, "email already exists", DuplicateError("email").Message)
	assert.Equal(
		t,
		"authentication required",
		UnauthorizedError("").Message,
	)
}

func TestAppErrorUnwrap(t *testing.T) {
	appErr := NotFoundError("plan")
	assert.ErrorIs(t, appErr, ErrNotFound)

	wrapped := fmt.Errorf("outer: %w", appErr)
	var target *AppError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, http.StatusNotFound, target.Status)
}

func TestClassifySentinels(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{fmt.Errorf("op: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("op: %w", ErrDuplicateKey), http.StatusConflict},
		{fmt.Errorf("op: %w", ErrConflict), http.StatusConflict},
		{fmt.Errorf("op: %w", ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("op: %w", ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("op: %w", ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("op: %w", ErrRateLimited), http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		got := Classify(tt.err)
		assert.Equal(t, tt.wantStatus, got.Status, "for %v", tt.err)
	}
}

func TestClassifyUnknownBecomesInternal(t *testing.T) {
	got := Classify(errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, got.Status)
	// The cause never leaks into the client-facing message.
	assert.Equal(t, "internal server error", got.Message)
}

func TestClassifyKeepsExistingAppError(t *testing.T) {
	original := ConflictError("Class is full")
	wrapped := fmt.Errorf("register: %w", original)

	got := Classify(wrapped)
	assert.Equal(t, original, got)
}

func TestIsAppError(t *testing.T) {
	assert.True(t, IsAppError(ValidationError("x")))
	assert.True(t, IsAppError(fmt.Errorf("wrap: %w", ValidationError("x"))))
	assert.False(t, IsAppError(errors.New("plain")))
}
