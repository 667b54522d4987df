package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/image-groups/internal/api"
	"github.com/kylejryan/image-groups/internal/apperr"
)

func TestJSON(t *testing.T) {
	resp, err := JSON(http.StatusCreated, map[string]string{"id": "g1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"g1"}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	// A wildcard origin cannot be combined with credentials.
	assert.NotContains(t, resp.Headers, "Access-Control-Allow-Credentials")
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   api.ErrorResponse
	}{
		{
			name:   "validation",
			err:    fmt.Errorf("wrapped: %w", &apperr.ValidationError{Violations: []apperr.FieldViolation{{Field: "name", Reason: "is required"}}}),
			status: http.StatusBadRequest,
			body:   api.ErrorResponse{Error: "invalid request body", Violations: []apperr.FieldViolation{{Field: "name", Reason: "is required"}}},
		},
		{
			name:   "not found",
			err:    fmt.Errorf("create image: %w", &apperr.NotFoundError{Kind: "group", ID: "g9"}),
			status: http.StatusNotFound,
			body:   api.ErrorResponse{Error: `group "g9" not found`},
		},
		{
			name:   "storage",
			err:    apperr.Storage("put group", errors.New("arn:aws:dynamodb secret detail")),
			status: http.StatusInternalServerError,
			body:   api.ErrorResponse{Error: "internal error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := FromError(tt.err)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			var body api.ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
			assert.Equal(t, tt.body, body)
		})
	}
}
