package s3io

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildKey returns the storage key for an image. The key is the image id
// itself, so either can be recovered from the other.
func BuildKey(imageID string) string { return imageID }

// ParseKey recovers the image id from an object key as it appears in an
// S3 event (URL-encoded).
func ParseKey(rawKey string) (imageID string, err error) {
	key, err := url.QueryUnescape(rawKey)
	if err != nil {
		return "", fmt.Errorf("unescape key %q: %w", rawKey, err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "/") {
		return "", fmt.Errorf("unexpected key shape %q", key)
	}
	return key, nil
}

// ObjectURL is the public read URL for an object in bucket.
func ObjectURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, url.PathEscape(key))
}
