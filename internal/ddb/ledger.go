package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kylejryan/image-groups/internal/apperr"
	"github.com/kylejryan/image-groups/internal/models"
)

// Ledger records which upload events have already produced a notification.
// Rows expire through the table's TTL on expiresAt.
type Ledger struct {
	DB    API
	Table string
}

// Claim inserts e if its dedup key is new. It returns false, nil when the
// key was already claimed by an earlier delivery.
func (l *Ledger) Claim(ctx context.Context, e models.LedgerEntry) (bool, error) {
	err := putNew(ctx, l.DB, l.Table, "claim notification", e, "dedupKey")
	if isConditionFailed(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Release removes a claim so a redelivered event can try again.
func (l *Ledger) Release(ctx context.Context, dedupKey string) error {
	_, err := l.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(l.Table),
		Key:       map[string]types.AttributeValue{"dedupKey": str(dedupKey)},
	})
	return apperr.Storage("release notification", err)
}
