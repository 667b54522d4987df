package snsio

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kylejryan/image-groups/internal/models"
)

type fakeSNS struct {
	in  *sns.PublishInput
	err error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

var note = models.Notification{ImageID: "i1", GroupID: "g1", Title: "Beach", ObjectKey: "i1", EventID: "seq-1"}

func TestPublish(t *testing.T) {
	f := &fakeSNS{}
	p := &Publisher{API: f, TopicARN: "arn:aws:sns:eu-west-3:123456789012:uploads"}

	require.NoError(t, p.Publish(context.Background(), note))
	assert.Equal(t, "arn:aws:sns:eu-west-3:123456789012:uploads", aws.ToString(f.in.TopicArn))
	assert.Equal(t, "g1", aws.ToString(f.in.MessageAttributes["groupId"].StringValue))

	var got models.Notification
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(f.in.Message)), &got))
	assert.Equal(t, note, got)
}

func TestPublishError(t *testing.T) {
	p := &Publisher{API: &fakeSNS{err: errors.New("throttled")}, TopicARN: "arn"}
	require.ErrorContains(t, p.Publish(context.Background(), note), "i1")
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	require.NoError(t, LogPublisher{Log: zap.New(core)}.Publish(context.Background(), note))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "i1", logs.All()[0].ContextMap()["image_id"])
}
