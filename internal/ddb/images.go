package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/kylejryan/image-groups/internal/apperr"
	"github.com/kylejryan/image-groups/internal/models"
)

// ImageRepo stores image records keyed by (groupId, timestamp), with a
// global secondary index on imageId.
type ImageRepo struct {
	DB    API
	Table string
	Index string
}

// maxKeyAttempts bounds how many sort keys Put tries before giving up.
const maxKeyAttempts = 8

// Put inserts a new image and returns the record as stored. When another
// image in the group already holds the timestamp, the timestamp moves
// forward by one tick and the write is retried, so concurrent uploads
// never replace each other.
func (r *ImageRepo) Put(ctx context.Context, img models.Image) (models.Image, error) {
	var err error
	for i := 0; i < maxKeyAttempts; i++ {
		err = putNew(ctx, r.DB, r.Table, "put image", img, "groupId", "timestamp")
		if !isConditionFailed(err) {
			break
		}
		next, perr := models.NextTimestamp(img.Timestamp)
		if perr != nil {
			return models.Image{}, apperr.Storage("put image", perr)
		}
		img.Timestamp = next
	}
	if err != nil {
		return models.Image{}, err
	}
	return img, nil
}

// ListByGroup returns every image in a group, oldest first.
func (r *ImageRepo) ListByGroup(ctx context.Context, groupID string) ([]models.Image, error) {
	key, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("groupId").Equal(expression.Value(groupID))).
		Build()
	if err != nil {
		return nil, apperr.Storage("query images", fmt.Errorf("build key condition: %w", err))
	}
	out, err := r.DB.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.Table),
		KeyConditionExpression:    key.KeyCondition(),
		ExpressionAttributeNames:  key.Names(),
		ExpressionAttributeValues: key.Values(),
		ScanIndexForward:          aws.Bool(true),
	})
	if err != nil {
		return nil, apperr.Storage("query images", err)
	}
	images, err := unmarshalItems[models.Image](out.Items)
	if err != nil {
		return nil, apperr.Storage("decode images", err)
	}
	return images, nil
}

// GetByImageID looks an image up through the imageId index.
func (r *ImageRepo) GetByImageID(ctx context.Context, imageID string) (models.Image, error) {
	key, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("imageId").Equal(expression.Value(imageID))).
		Build()
	if err != nil {
		return models.Image{}, apperr.Storage("query image index", fmt.Errorf("build key condition: %w", err))
	}
	out, err := r.DB.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.Table),
		IndexName:                 aws.String(r.Index),
		KeyConditionExpression:    key.KeyCondition(),
		ExpressionAttributeNames:  key.Names(),
		ExpressionAttributeValues: key.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return models.Image{}, apperr.Storage("query image index", err)
	}
	images, err := unmarshalItems[models.Image](out.Items)
	if err != nil {
		return models.Image{}, apperr.Storage("decode image", err)
	}
	if len(images) == 0 {
		return models.Image{}, &apperr.NotFoundError{Kind: "image", ID: imageID}
	}
	return images[0], nil
}
