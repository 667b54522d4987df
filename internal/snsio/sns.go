// Package snsio fans upload notifications out to subscribers through SNS.
package snsio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"

	"github.com/kylejryan/image-groups/internal/models"
)

// API is the subset of the SNS client used for publishing.
type API interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher sends each notification as one JSON message to a topic.
type Publisher struct {
	API      API
	TopicARN string
}

// Publish sends n. groupId is also set as a message attribute so
// subscribers can filter by group.
func (p *Publisher) Publish(ctx context.Context, n models.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = p.API.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.TopicARN),
		Subject:  aws.String("Image uploaded"),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"groupId": {DataType: aws.String("String"), StringValue: aws.String(n.GroupID)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", n.ImageID, err)
	}
	return nil
}

// LogPublisher writes notifications to the log. It is used when no topic
// is configured.
type LogPublisher struct {
	Log *zap.Logger
}

// Publish logs n at info level.
func (p LogPublisher) Publish(_ context.Context, n models.Notification) error {
	p.Log.Info("upload notification",
		zap.String("image_id", n.ImageID),
		zap.String("group_id", n.GroupID),
		zap.String("event_id", n.EventID),
		zap.String("image_url", n.ImageURL))
	return nil
}
