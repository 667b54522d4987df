package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kylejryan/image-groups/internal/apperr"
	"github.com/kylejryan/image-groups/internal/models"
)

// GroupRepo stores group records keyed by id.
type GroupRepo struct {
	DB    API
	Table string
}

// Put inserts a new group, refusing to overwrite an existing id.
func (r *GroupRepo) Put(ctx context.Context, g models.Group) error {
	return putNew(ctx, r.DB, r.Table, "put group", g, "id")
}

// Get loads one group by id.
func (r *GroupRepo) Get(ctx context.Context, id string) (models.Group, error) {
	out, err := r.DB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.Table),
		Key:       map[string]types.AttributeValue{"id": str(id)},
	})
	if err != nil {
		return models.Group{}, apperr.Storage("get group", err)
	}
	if len(out.Item) == 0 {
		return models.Group{}, &apperr.NotFoundError{Kind: "group", ID: id}
	}
	var g models.Group
	if err := attributevalue.UnmarshalMap(out.Item, &g); err != nil {
		return models.Group{}, apperr.Storage("decode group", err)
	}
	return g, nil
}

// List returns the groups from a single scan, in store order.
func (r *GroupRepo) List(ctx context.Context) ([]models.Group, error) {
	out, err := r.DB.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.Table)})
	if err != nil {
		return nil, apperr.Storage("scan groups", err)
	}
	groups, err := unmarshalItems[models.Group](out.Items)
	if err != nil {
		return nil, apperr.Storage("decode groups", err)
	}
	return groups, nil
}
