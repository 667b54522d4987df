// Package service holds the group and image use cases. Request bodies reach
// it already validated; storage access goes through the narrow store
// interfaces below.
package service

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kylejryan/image-groups/internal/models"
	"github.com/kylejryan/image-groups/internal/s3io"
)

// GroupStore is the group keyspace: put, point read, full scan.
type GroupStore interface {
	Put(ctx context.Context, g models.Group) error
	Get(ctx context.Context, id string) (models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
}

// ImageStore is the image keyspace: put, ordered partition query, index lookup.
type ImageStore interface {
	// Put stores img and returns it as written; the store may move the
	// timestamp forward when the sort key is already taken.
	Put(ctx context.Context, img models.Image) (models.Image, error)
	ListByGroup(ctx context.Context, groupID string) ([]models.Image, error)
	GetByImageID(ctx context.Context, imageID string) (models.Image, error)
}

// CredentialIssuer presigns a single-object upload.
type CredentialIssuer interface {
	Issue(ctx context.Context, key string) (s3io.Credential, error)
}

// NewID returns a fresh ULID string.
func NewID() string { return ulid.Make().String() }

func nowUTC() time.Time { return time.Now().UTC() }
