// Package notify confirms uploads from storage create-events and fans out
// one notification per upload.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kylejryan/image-groups/internal/apperr"
	"github.com/kylejryan/image-groups/internal/logging"
	"github.com/kylejryan/image-groups/internal/metrics"
	"github.com/kylejryan/image-groups/internal/models"
	"github.com/kylejryan/image-groups/internal/s3io"
)

// Outcome is what happened to one event.
type Outcome string

const (
	Delivered Outcome = "delivered"
	Duplicate Outcome = "duplicate"
	Dropped   Outcome = "dropped"
	Failed    Outcome = "failed"
)

// maxParallel bounds the records of one batch processed at once.
const maxParallel = 8

// ImageResolver maps an image id to its record.
type ImageResolver interface {
	Get(ctx context.Context, imageID string) (models.Image, error)
}

// Ledger remembers which events were already notified.
type Ledger interface {
	Claim(ctx context.Context, e models.LedgerEntry) (bool, error)
	Release(ctx context.Context, dedupKey string) error
}

// Publisher delivers a notification to subscribers.
type Publisher interface {
	Publish(ctx context.Context, n models.Notification) error
}

// Handler processes upload events.
type Handler struct {
	images   ImageResolver
	ledger   Ledger
	pub      Publisher
	bucket   string
	dedupTTL time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// New creates a Handler. Events from buckets other than bucket are dropped;
// an empty bucket accepts any.
func New(images ImageResolver, ledger Ledger, pub Publisher, bucket string, dedupTTL time.Duration, log *zap.Logger) *Handler {
	return &Handler{
		images:   images,
		ledger:   ledger,
		pub:      pub,
		bucket:   bucket,
		dedupTTL: dedupTTL,
		now:      time.Now,
		log:      logging.OrNop(log),
	}
}

// HandleS3Event is the Lambda entry point. Records are processed
// independently; the returned error joins the failures so the invocation
// is retried, and redelivered records that already succeeded come back as
// duplicates.
func (h *Handler) HandleS3Event(ctx context.Context, ev events.S3Event) error {
	uploads := FromS3Event(ev)

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for _, u := range uploads {
		u := u
		g.Go(func() error {
			if _, err := h.Process(gctx, u); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Process handles a single upload event.
func (h *Handler) Process(ctx context.Context, ev models.UploadEvent) (Outcome, error) {
	out, err := h.process(ctx, ev)
	metrics.ObserveEvent(string(out))
	return out, err
}

func (h *Handler) process(ctx context.Context, ev models.UploadEvent) (Outcome, error) {
	log := h.log.With(zap.String("object_key", ev.ObjectKey), zap.String("event_id", ev.EventID))

	img, err := h.resolve(ctx, ev)
	var unresolvable *apperr.UnresolvableEventError
	if errors.As(err, &unresolvable) {
		log.Warn("dropping upload event", zap.String("reason", unresolvable.Reason))
		return Dropped, nil
	}
	if err != nil {
		log.Error("resolve upload event", zap.Error(err))
		return Failed, err
	}
	log = log.With(zap.String("image_id", img.ImageID))

	eventID := ev.EventID
	if eventID == "" {
		eventID = ev.ETag
	}
	now := h.now().UTC()
	entry := models.LedgerEntry{
		DedupKey:    models.DedupKey(img.ImageID, eventID),
		ImageID:     img.ImageID,
		EventID:     eventID,
		ObjectKey:   img.StorageKey,
		ConfirmedAt: models.FormatTimestamp(now),
		ExpiresAt:   now.Add(h.dedupTTL).Unix(),
	}
	first, err := h.ledger.Claim(ctx, entry)
	if err != nil {
		log.Error("claim notification", zap.Error(err))
		return Failed, err
	}
	if !first {
		log.Info("duplicate upload event")
		return Duplicate, nil
	}

	n := models.Notification{
		ImageID:    img.ImageID,
		GroupID:    img.GroupID,
		Title:      img.Title,
		ImageURL:   img.ImageURL,
		ObjectKey:  img.StorageKey,
		EventID:    eventID,
		SizeBytes:  ev.Size,
		ETag:       ev.ETag,
		UploadedAt: entry.ConfirmedAt,
	}
	if err := h.pub.Publish(ctx, n); err != nil {
		if rerr := h.ledger.Release(ctx, entry.DedupKey); rerr != nil {
			log.Error("release notification claim", zap.Error(rerr))
		}
		log.Error("publish notification", zap.Error(err))
		return Failed, apperr.Storage("publish notification", err)
	}

	log.Info("upload confirmed", zap.String("group_id", img.GroupID), zap.Int64("size", ev.Size))
	return Delivered, nil
}

// resolve maps the event to an image record. Events that cannot map to one
// come back as *apperr.UnresolvableEventError.
func (h *Handler) resolve(ctx context.Context, ev models.UploadEvent) (models.Image, error) {
	if h.bucket != "" && ev.Bucket != "" && ev.Bucket != h.bucket {
		return models.Image{}, &apperr.UnresolvableEventError{ObjectKey: ev.ObjectKey, Reason: "unexpected bucket " + ev.Bucket}
	}
	if ev.EventID == "" && ev.ETag == "" {
		return models.Image{}, &apperr.UnresolvableEventError{ObjectKey: ev.ObjectKey, Reason: "no event id"}
	}
	imageID, err := s3io.ParseKey(ev.ObjectKey)
	if err != nil {
		return models.Image{}, &apperr.UnresolvableEventError{ObjectKey: ev.ObjectKey, Reason: err.Error()}
	}
	img, err := h.images.Get(ctx, imageID)
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return models.Image{}, &apperr.UnresolvableEventError{ObjectKey: ev.ObjectKey, Reason: "no image " + imageID}
	}
	if err != nil {
		return models.Image{}, fmt.Errorf("resolve %s: %w", imageID, err)
	}
	return img, nil
}
