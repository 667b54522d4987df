// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Env holds the configuration values for the application. It is built once
// at process start and handed to the adapters that need it.
type Env struct {
	Region       string
	GroupsTable  string
	ImagesTable  string
	ImageIDIndex string
	Bucket       string
	PresignTTL   time.Duration

	NotificationsTable string
	TopicARN           string
	DedupTTL           time.Duration

	MaxAttempts int
	LogLevel    string
	DevAddr     string
}

// Load reads an optional .env file and then the environment.
func Load() (Env, error) {
	_ = godotenv.Load()

	ttlSec, err := positiveInt("SIGNED_URL_EXPIRATION", "300")
	if err != nil {
		return Env{}, err
	}
	dedupHours, err := positiveInt("NOTIFICATION_DEDUP_TTL_HOURS", "168")
	if err != nil {
		return Env{}, err
	}
	attempts, err := positiveInt("AWS_MAX_ATTEMPTS", "3")
	if err != nil {
		return Env{}, err
	}

	e := Env{
		Region:             get("AWS_REGION", "us-east-1"),
		GroupsTable:        get("GROUPS_TABLE", ""),
		ImagesTable:        get("IMAGES_TABLE", ""),
		ImageIDIndex:       get("IMAGE_ID_INDEX", "ImageIdIndex"),
		Bucket:             get("IMAGES_S3_BUCKET", ""),
		PresignTTL:         time.Duration(ttlSec) * time.Second,
		NotificationsTable: get("NOTIFICATIONS_TABLE", ""),
		TopicARN:           get("NOTIFICATIONS_TOPIC_ARN", ""),
		DedupTTL:           time.Duration(dedupHours) * time.Hour,
		MaxAttempts:        attempts,
		LogLevel:           get("LOG_LEVEL", "info"),
		DevAddr:            get("DEV_ADDR", ":8080"),
	}
	for k, v := range map[string]string{
		"GROUPS_TABLE":     e.GroupsTable,
		"IMAGES_TABLE":     e.ImagesTable,
		"IMAGES_S3_BUCKET": e.Bucket,
	} {
		if v == "" {
			return Env{}, fmt.Errorf("missing env %s", k)
		}
	}
	return e, nil
}

// MustLoad is Load that panics on a configuration error.
func MustLoad() Env {
	e, err := Load()
	if err != nil {
		panic(err)
	}
	return e
}

// get returns the value of the environment variable k or def if not set.
func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func positiveInt(k, def string) (int, error) {
	raw := get(k, def)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("env %s: %q is not an integer", k, raw)
	}
	if n <= 0 {
		return 0, fmt.Errorf("env %s: must be positive, got %d", k, n)
	}
	return n, nil
}
