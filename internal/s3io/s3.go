// Package s3io provides utilities for working with S3: storage keys and
// presigned upload URLs.
package s3io

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presigner defines the interface for presigning S3 requests.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Credential is a presigned PUT URL for exactly one object.
type Credential struct {
	URL       string
	Key       string
	ExpiresAt time.Time
	TTL       time.Duration
}

// PresignPut generates a presigned URL for uploading an object to S3.
func PresignPut(ctx context.Context, p Presigner, bucket, key string, ttl time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	req, err := p.PresignPutObject(ctx, input, func(o *s3.PresignOptions) { o.Expires = ttl })
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Issuer hands out upload credentials for one bucket. It keeps no state
// between calls and is safe for concurrent use.
type Issuer struct {
	P      Presigner
	Bucket string
	TTL    time.Duration
	Now    func() time.Time
}

// Issue presigns a PUT for key valid for the issuer's TTL.
func (i *Issuer) Issue(ctx context.Context, key string) (Credential, error) {
	if key == "" {
		return Credential{}, errors.New("presign: empty key")
	}
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	issuedAt := now()
	u, err := PresignPut(ctx, i.P, i.Bucket, key, i.TTL)
	if err != nil {
		return Credential{}, err
	}
	return Credential{URL: u, Key: key, ExpiresAt: issuedAt.Add(i.TTL), TTL: i.TTL}, nil
}
