package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kylejryan/image-groups/internal/api"
	"github.com/kylejryan/image-groups/internal/config"
)

func TestInMemoryUploadPipeline(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)
	a := NewInMemory(config.Env{Region: "eu-west-3", Bucket: "images-dev", PresignTTL: 300 * time.Second, DedupTTL: time.Hour}, zap.New(core))

	g, err := a.Groups.Create(ctx, api.CreateGroupRequest{Name: "Trip"})
	require.NoError(t, err)
	up, err := a.Images.Create(ctx, g.ID, api.CreateImageRequest{Title: "Beach"})
	require.NoError(t, err)

	n, err := a.Notifier()
	require.NoError(t, err)

	var rec events.S3EventRecord
	rec.EventName = "ObjectCreated:Put"
	rec.S3.Bucket.Name = "images-dev"
	rec.S3.Object.Key = up.Image.StorageKey
	rec.S3.Object.Sequencer = "0055AED6DCD90281E5"
	ev := events.S3Event{Records: []events.S3EventRecord{rec}}

	require.NoError(t, n.HandleS3Event(ctx, ev))
	require.NoError(t, n.HandleS3Event(ctx, ev))

	sent := logs.FilterMessage("upload notification").All()
	require.Len(t, sent, 1)
	assert.Equal(t, up.Image.ImageID, sent[0].ContextMap()["image_id"])
}

func TestInMemoryGateway(t *testing.T) {
	a := NewInMemory(config.Env{Region: "us-east-1", Bucket: "b", PresignTTL: time.Minute}, nil)
	resp, err := a.Gateway().ListGroups(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNotifierNeedsLedger(t *testing.T) {
	a := &App{}
	_, err := a.Notifier()
	require.ErrorContains(t, err, "NOTIFICATIONS_TABLE")
}
