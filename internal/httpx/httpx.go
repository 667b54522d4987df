// Package httpx provides helper functions for creating HTTP responses.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/kylejryan/image-groups/internal/api"
	"github.com/kylejryan/image-groups/internal/apperr"
)

// JSON creates a JSON HTTP response with the given status code and value.
func JSON(status int, v any) (events.APIGatewayProxyResponse, error) {
	b, _ := json.Marshal(v)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(b),
	}, nil
}

// Error creates a JSON HTTP error response with the given status code and message.
func Error(status int, msg string) (events.APIGatewayProxyResponse, error) {
	return JSON(status, api.ErrorResponse{Error: msg})
}

// FromError maps an error to its response. Storage and unknown errors are
// reported without detail.
func FromError(err error) (events.APIGatewayProxyResponse, error) {
	var (
		ve *apperr.ValidationError
		nf *apperr.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body", Violations: ve.Violations})
	case errors.As(err, &nf):
		return Error(http.StatusNotFound, nf.Error())
	default:
		return Error(http.StatusInternalServerError, "internal error")
	}
}
