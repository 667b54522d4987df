package ddb

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/image-groups/internal/apperr"
	"github.com/kylejryan/image-groups/internal/models"
)

var entry = models.LedgerEntry{
	DedupKey:    "i1#seq-1",
	ImageID:     "i1",
	EventID:     "seq-1",
	ObjectKey:   "i1",
	ConfirmedAt: "2024-01-01T00:00:05.000000000Z",
	ExpiresAt:   1704672005,
}

func TestLedgerClaim(t *testing.T) {
	db := &fakeDB{}
	l := &Ledger{DB: db, Table: "Notifications-dev"}

	first, err := l.Claim(context.Background(), entry)
	require.NoError(t, err)
	assert.True(t, first)

	in := db.puts[0]
	assert.Equal(t, "Notifications-dev", aws.ToString(in.TableName))
	assert.Equal(t, &types.AttributeValueMemberS{Value: "i1#seq-1"}, in.Item["dedupKey"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "1704672005"}, in.Item["expiresAt"])
	assert.Equal(t, "dedupKey", in.ExpressionAttributeNames["#0"])
}

func TestLedgerClaimDuplicate(t *testing.T) {
	// The SDK surfaces the exception wrapped in an operation error.
	wrapped := fmt.Errorf("operation error DynamoDB: PutItem: %w", &types.ConditionalCheckFailedException{})
	l := &Ledger{DB: &fakeDB{putErr: wrapped}, Table: "Notifications-dev"}

	first, err := l.Claim(context.Background(), entry)
	require.NoError(t, err)
	assert.False(t, first)
}

func TestLedgerClaimFailure(t *testing.T) {
	l := &Ledger{DB: &fakeDB{putErr: errors.New("503")}, Table: "Notifications-dev"}

	_, err := l.Claim(context.Background(), entry)
	var se *apperr.StorageError
	require.ErrorAs(t, err, &se)
}

func TestLedgerRelease(t *testing.T) {
	db := &fakeDB{}
	l := &Ledger{DB: db, Table: "Notifications-dev"}

	require.NoError(t, l.Release(context.Background(), "i1#seq-1"))
	require.Len(t, db.deletes, 1)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "i1#seq-1"}, db.deletes[0].Key["dedupKey"])
}
