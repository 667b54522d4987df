// Package api contains types for the API requests and responses.
package api

import (
	"github.com/kylejryan/image-groups/internal/apperr"
	"github.com/kylejryan/image-groups/internal/models"
)

// CreateGroupRequest is the Group schema for POST /groups.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=128"`
	Description string `json:"description" validate:"max=1024"`
}

// CreateImageRequest is the Image schema for POST /groups/{groupId}/images.
type CreateImageRequest struct {
	Title string `json:"title" validate:"required,notblank,max=256"`
}

// ItemResponse wraps a single record.
type ItemResponse[T any] struct {
	Item T `json:"item"`
}

// ItemsResponse wraps a list of records.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// UploadResponse carries an image record and the presigned URL the client PUTs the bytes to.
// When the record was stored but no URL could be issued, the URL fields are
// empty and Error says so; the client renews through the upload-url route.
type UploadResponse struct {
	Item      models.Image `json:"item"`
	UploadURL string       `json:"uploadUrl,omitempty"`
	ExpiresIn int          `json:"expiresIn,omitempty"`
	ExpiresAt string       `json:"expiresAt,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error      string                  `json:"error"`
	Violations []apperr.FieldViolation `json:"violations,omitempty"`
}
