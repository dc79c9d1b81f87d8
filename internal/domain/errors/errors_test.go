package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Constructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		status   int
		code     string
		sentinel error
	}{
		{"not found", NotFound("wallet missing"), http.StatusNotFound, CodeNotFound, ErrNotFound},
		{"bad request", BadRequest("delta must be non-zero"), http.StatusBadRequest, CodeBadRequest, ErrInvalidInput},
		{"unauthorized", Unauthorized("token required"), http.StatusUnauthorized, CodeUnauthorized, ErrUnauthorized},
		{"forbidden", Forbidden("not your wallet"), http.StatusForbidden, CodeForbidden, ErrForbidden},
		{"conflict", Conflict("intent already active"), http.StatusConflict, CodeConflict, ErrAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestAppError_InternalWrapsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := InternalError(cause)

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, CodeInternalError, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Error())
}

func TestAppError_ErrorFallsBackToMessage(t *testing.T) {
	err := &AppError{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: "bad input"}
	assert.Equal(t, "bad input", err.Error())
}

func TestAppError_ErrorsAs(t *testing.T) {
	wrapped := NotFound("voucher missing")

	var appErr *AppError
	assert.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}
