package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{
			name:           "not found",
			err:            NotFound("User with e-mail address %s not found", "a@b.io"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
			expectedMsg:    "User with e-mail address a@b.io not found",
		},
		{
			name:           "unauthorized",
			err:            Unauthorized("invalid token"),
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
			expectedMsg:    "invalid token",
		},
		{
			name:           "invalid argument wrapped",
			err:            fmt.Errorf("create question: %w", InvalidArgument("There must be exactly one correct alternative")),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_ARGUMENT",
			expectedMsg:    "There must be exactly one correct alternative",
		},
		{
			name:           "forbidden",
			err:            Forbidden("Only the creator of the question can update"),
			expectedStatus: http.StatusForbidden,
			expectedCode:   "FORBIDDEN",
			expectedMsg:    "Only the creator of the question can update",
		},
		{
			name:           "bare sentinel",
			err:            ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
			expectedMsg:    "not found",
		},
		{
			name:           "unclassified",
			err:            errors.New("dial tcp 10.0.0.1:3306: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "INTERNAL_ERROR",
			expectedMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
			assert.Equal(t, tt.expectedCode, httpErr.Code)
			assert.Equal(t, tt.expectedMsg, httpErr.Message)
			assert.Equal(t, ErrorResponse{Error: tt.expectedMsg, Code: tt.expectedCode}, httpErr.ToErrorResponse())
		})
	}
}

func TestErrorKind(t *testing.T) {
	err := Forbidden("nope")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	var domainErr *Error
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, ErrForbidden, domainErr.Kind())
}
