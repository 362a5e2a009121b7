package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/delphi-works/oracle/internal/models"
)

// keyPrefix is where published vision images live inside the bucket.
const keyPrefix = "visions/"

// objectAPI is the subset of the S3 client the publisher uses.
type objectAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	PutObjectAcl(ctx context.Context, params *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error)
}

// Publisher uploads vision images to the visions bucket and exposes them under
// a stable public URL. It speaks the S3-compatible XML API, which Google Cloud
// Storage serves at storage.googleapis.com (interoperability mode with HMAC
// credentials); MinIO works the same way for local development.
type Publisher struct {
	api       objectAPI
	bucket    string
	publicURL string // base URL for public objects, e.g. https://storage.googleapis.com

	mu      sync.Mutex
	ensured bool
}

// NewPublisher creates a publisher for the given bucket.
func NewPublisher(endpoint, region, bucket, accessKey, secretKey, publicURL string) (*Publisher, error) {
	if bucket == "" {
		return nil, fmt.Errorf("visions bucket is not configured (set GOOGLE_CLOUD_PROJECT or VISIONS_BUCKET)")
	}

	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	}
	if endpoint != "" {
		configOpts = append(configOpts, config.WithBaseEndpoint(endpoint))
	}

	cfg, err := config.LoadDefaultConfig(context.Background(), configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	// Path-style addressing: the public URL contract is host/bucket/key, and
	// GCS interoperability and MinIO both resolve buckets by path. Checksums
	// stay off unless required; the GCS XML API rejects CRC32 headers.
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	log.Info().
		Str("endpoint", endpoint).
		Str("bucket", bucket).
		Msg("Storage publisher initialized")

	return &Publisher{
		api:       client,
		bucket:    bucket,
		publicURL: publicURL,
	}, nil
}

// Bucket returns the destination bucket name.
func (p *Publisher) Bucket() string {
	return p.bucket
}

// PublicURL returns the public URL for an object key.
func (p *Publisher) PublicURL(key string) string {
	base := strings.TrimSuffix(p.publicURL, "/")
	return base + "/" + p.bucket + "/" + key
}

// NewObjectKey mints a unique object key for one published image. Uniqueness
// across invocations is delegated to the UUID generator; collisions are not
// verified against the bucket.
func NewObjectKey(contentType string) string {
	ext := ".png"
	if contentType == "image/jpeg" {
		ext = ".jpg"
	}
	return keyPrefix + uuid.NewString() + ext
}

// Publish writes the payload under a fresh key, makes it publicly readable and
// returns the resulting record. Upload and ACL assignment are all-or-nothing
// from the caller's point of view: an ACL failure is an upload failure, and
// the half-published object is not deleted.
func (p *Publisher) Publish(ctx context.Context, data []byte, contentType string) (*models.PublicationRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	if contentType == "" {
		contentType = "image/png"
	}

	if err := p.ensureBucket(ctx); err != nil {
		return nil, err
	}

	key := NewObjectKey(contentType)

	_, err := p.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload vision image: %w", err)
	}

	_, err = p.api.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set public-read acl: %w", err)
	}

	record := &models.PublicationRecord{
		Bucket: p.bucket,
		Key:    key,
		URL:    p.PublicURL(key),
	}

	log.Info().
		Str("bucket", record.Bucket).
		Str("key", record.Key).
		Int("size_bytes", len(data)).
		Msg("Vision image published")

	return record, nil
}

// ensureBucket lazily creates the destination bucket. The check is cached
// after the first success; a failed check is retried on the next publish.
func (p *Publisher) ensureBucket(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ensured {
		return nil
	}

	_, err := p.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(p.bucket)})
	if err == nil {
		p.ensured = true
		return nil
	}

	log.Info().Str("bucket", p.bucket).Msg("Bucket not found, creating")
	_, err = p.api.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(p.bucket)})
	if err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if !errors.As(err, &owned) {
			return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
		}
	}

	p.ensured = true
	return nil
}
