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
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials."},
		{"duplicate user", fmt.Errorf("create user: %w", ErrUserAlreadyExists), http.StatusBadRequest, "Username or email already exists."},
		{"missing user", ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"missing project", fmt.Errorf("find project: %w", ErrProjectNotFound), http.StatusNotFound, "Project not found"},
		{"validation", fmt.Errorf("%w: topic is required", ErrValidation), http.StatusBadRequest, "invalid request: topic is required"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
			assert.Equal(t, ErrorResponse{Error: tt.wantMsg}, httpErr.ToErrorResponse())
		})
	}
}
