// Package models defines the data models used in the application.
package models

import (
	"fmt"
	"time"
)

// TimestampLayout is the sort-key format for images: UTC with fixed
// nanosecond precision so lexical order is chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string { return t.UTC().Format(TimestampLayout) }

// NextTimestamp returns the smallest timestamp after ts. Stores use it to
// move an image past a sort key that is already taken.
func NextTimestamp(ts string) (string, error) {
	t, err := time.Parse(TimestampLayout, ts)
	if err != nil {
		return "", fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	return FormatTimestamp(t.Add(time.Nanosecond)), nil
}

// Group is a named collection of images. Records are never mutated after creation.
type Group struct {
	ID          string `dynamodbav:"id" json:"id"`
	Name        string `dynamodbav:"name" json:"name"`
	Description string `dynamodbav:"description,omitempty" json:"description,omitempty"`
}

// Image is the metadata record for one image. It is written before the
// client uploads the bytes, so its presence does not prove the upload.
type Image struct {
	// DynamoDB keys
	GroupID   string `dynamodbav:"groupId" json:"groupId"`     // partition key
	Timestamp string `dynamodbav:"timestamp" json:"timestamp"` // sort key
	ImageID   string `dynamodbav:"imageId" json:"imageId"`     // ImageIdIndex hash key

	StorageKey string `dynamodbav:"storageKey" json:"storageKey"`
	ImageURL   string `dynamodbav:"imageUrl" json:"imageUrl"`
	Title      string `dynamodbav:"title" json:"title"`
}

// UploadEvent is one object-created notification from storage.
type UploadEvent struct {
	Bucket    string
	ObjectKey string
	EventID   string
	Size      int64
	ETag      string
	Time      time.Time
}

// DedupKey identifies an event for at-least-once suppression.
func DedupKey(imageID, eventID string) string { return imageID + "#" + eventID }

// Notification is the message fanned out once an upload is confirmed.
type Notification struct {
	ImageID    string `json:"imageId"`
	GroupID    string `json:"groupId"`
	Title      string `json:"title"`
	ImageURL   string `json:"imageUrl"`
	ObjectKey  string `json:"objectKey"`
	EventID    string `json:"eventId"`
	SizeBytes  int64  `json:"sizeBytes"`
	ETag       string `json:"etag,omitempty"`
	UploadedAt string `json:"uploadedAt"`
}

// LedgerEntry is the dedup row written once per delivered notification.
type LedgerEntry struct {
	DedupKey    string `dynamodbav:"dedupKey"`
	ImageID     string `dynamodbav:"imageId"`
	EventID     string `dynamodbav:"eventId"`
	ObjectKey   string `dynamodbav:"objectKey"`
	ConfirmedAt string `dynamodbav:"confirmedAt"`
	ExpiresAt   int64  `dynamodbav:"expiresAt"` // epoch seconds, DynamoDB TTL attribute
}
