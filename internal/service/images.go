package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kylejryan/image-groups/internal/api"
	"github.com/kylejryan/image-groups/internal/apperr"
	"github.com/kylejryan/image-groups/internal/logging"
	"github.com/kylejryan/image-groups/internal/models"
	"github.com/kylejryan/image-groups/internal/s3io"
)

// Upload is an image record plus the credential to upload its bytes.
type Upload struct {
	Image      models.Image
	Credential s3io.Credential
}

// Images creates, lists and resolves image records and issues upload URLs.
type Images struct {
	groups GroupStore
	store  ImageStore
	issuer CredentialIssuer
	bucket string
	newID  func() string
	now    func() time.Time
	log    *zap.Logger
}

// NewImages creates an Images service. bucket is used for the public image URL.
func NewImages(groups GroupStore, store ImageStore, issuer CredentialIssuer, bucket string, log *zap.Logger) *Images {
	return &Images{
		groups: groups,
		store:  store,
		issuer: issuer,
		bucket: bucket,
		newID:  NewID,
		now:    nowUTC,
		log:    logging.OrNop(log),
	}
}

// Create records a new image in groupID and presigns its upload.
//
// The record is written before any bytes exist in storage. If the write
// fails no credential is issued. If presigning fails the record stays and
// RenewUploadURL can be called for it.
func (s *Images) Create(ctx context.Context, groupID string, req api.CreateImageRequest) (Upload, error) {
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		return Upload{}, fmt.Errorf("create image: %w", err)
	}

	imageID := s.newID()
	key := s3io.BuildKey(imageID)
	img := models.Image{
		GroupID:    groupID,
		Timestamp:  models.FormatTimestamp(s.now()),
		ImageID:    imageID,
		StorageKey: key,
		ImageURL:   s3io.ObjectURL(s.bucket, key),
		Title:      req.Title,
	}
	img, err := s.store.Put(ctx, img)
	if err != nil {
		return Upload{}, fmt.Errorf("create image: %w", err)
	}
	s.log.Info("image record created",
		zap.String("group_id", groupID),
		zap.String("image_id", imageID))

	cred, err := s.issuer.Issue(ctx, key)
	if err != nil {
		return Upload{Image: img}, fmt.Errorf("create image: %w", apperr.Storage("presign upload", err))
	}
	return Upload{Image: img, Credential: cred}, nil
}

// List returns the images in groupID, oldest first. An unknown group yields
// an empty list.
func (s *Images) List(ctx context.Context, groupID string) ([]models.Image, error) {
	images, err := s.store.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// Get resolves an image by id through the secondary index.
func (s *Images) Get(ctx context.Context, imageID string) (models.Image, error) {
	img, err := s.store.GetByImageID(ctx, imageID)
	if err != nil {
		return models.Image{}, fmt.Errorf("get image: %w", err)
	}
	return img, nil
}

// RenewUploadURL issues a fresh credential for an existing image record.
func (s *Images) RenewUploadURL(ctx context.Context, imageID string) (Upload, error) {
	img, err := s.Get(ctx, imageID)
	if err != nil {
		return Upload{}, err
	}
	cred, err := s.issuer.Issue(ctx, img.StorageKey)
	if err != nil {
		return Upload{}, fmt.Errorf("renew upload url: %w", apperr.Storage("presign upload", err))
	}
	return Upload{Image: img, Credential: cred}, nil
}
