// Package ddb implements the DynamoDB-backed stores: groups, images, and
// the notification dedup ledger.
package ddb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kylejryan/image-groups/internal/apperr"
)

// API is the subset of the DynamoDB client the stores use.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ API = (*dynamodb.Client)(nil)

// str builds a string key attribute.
func str(s string) types.AttributeValue { return &types.AttributeValueMemberS{Value: s} }

// isConditionFailed reports whether err is a failed ConditionExpression.
func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// putNew writes v to table unless an item with the same key attributes
// already exists. Every failure, including a failed condition, comes back
// as an *apperr.StorageError labelled op.
func putNew(ctx context.Context, db API, table, op string, v any, keys ...string) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return apperr.Storage(op, fmt.Errorf("marshal item: %w", err))
	}
	if len(keys) == 0 {
		return apperr.Storage(op, errors.New("no key attributes"))
	}
	conds := make([]expression.ConditionBuilder, len(keys))
	for i, k := range keys {
		conds[i] = expression.AttributeNotExists(expression.Name(k))
	}
	cond := conds[0]
	if len(conds) > 1 {
		cond = expression.And(conds[0], conds[1], conds[2:]...)
	}
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return apperr.Storage(op, fmt.Errorf("build condition: %w", err))
	}
	_, err = db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	return apperr.Storage(op, err)
}

// unmarshalItems decodes DynamoDB items into a non-nil slice.
func unmarshalItems[T any](items []map[string]types.AttributeValue) ([]T, error) {
	out := make([]T, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}
	if err := attributevalue.UnmarshalListOfMaps(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}
