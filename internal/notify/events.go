package notify

import (
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/kylejryan/image-groups/internal/models"
)

// FromS3Event converts the ObjectCreated records of an S3 notification.
// Other event types are skipped.
func FromS3Event(ev events.S3Event) []models.UploadEvent {
	out := make([]models.UploadEvent, 0, len(ev.Records))
	for _, rec := range ev.Records {
		if !strings.HasPrefix(rec.EventName, "ObjectCreated") && !strings.HasPrefix(rec.EventName, "s3:ObjectCreated") {
			continue
		}
		out = append(out, models.UploadEvent{
			Bucket:    rec.S3.Bucket.Name,
			ObjectKey: rec.S3.Object.Key,
			EventID:   eventID(rec),
			Size:      rec.S3.Object.Size,
			ETag:      strings.Trim(rec.S3.Object.ETag, "\""),
			Time:      rec.EventTime,
		})
	}
	return out
}

// eventID prefers the per-key sequencer, which S3 repeats on redelivery of
// the same write and changes on every new write.
func eventID(rec events.S3EventRecord) string {
	if s := rec.S3.Object.Sequencer; s != "" {
		return s
	}
	return rec.ResponseElements["x-amz-request-id"]
}
