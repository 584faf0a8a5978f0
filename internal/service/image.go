package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipeshare/config"
	"github.com/pageza/recipeshare/internal/logging"
)

// ErrImageStorageDisabled is returned when no bucket is configured
var ErrImageStorageDisabled = errors.New("image storage is not configured")

// ImageKeyPrefix is the folder recipe images are stored under
const ImageKeyPrefix = "recipe-images/"

// ObjectPutter is the part of the S3 client used for uploads
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageURLSigner presigns read access to a stored object. *config.S3Config
// implements it.
type ImageURLSigner interface {
	GeneratePresignedURL(ctx context.Context, objectKey string, expiration time.Duration) (string, error)
}

// S3ImageStore uploads images to an S3 bucket
type S3ImageStore struct {
	client ObjectPutter
	bucket string
	urlFor func(key string) string
}

// NewS3ImageStore creates a store for the configured bucket
func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{
		client: s3Config.Client,
		bucket: s3Config.BucketName,
		urlFor: s3Config.PublicURL,
	}
}

// NewImageStoreWithClient is used with a custom S3 client
func NewImageStoreWithClient(client ObjectPutter, bucket string) *S3ImageStore {
	return &S3ImageStore{
		client: client,
		bucket: bucket,
		urlFor: func(key string) string { return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key) },
	}
}

// ImageKey returns a fresh object key keeping the file extension
func ImageKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 8 {
		ext = ""
	}
	return ImageKeyPrefix + uuid.NewString() + ext
}

// Upload stores img and returns its key and public URL
func (s *S3ImageStore) Upload(ctx context.Context, img ImageUpload) (*StoredImage, error) {
	key := ImageKey(img.Filename)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        img.Body,
		ContentType: aws.String(img.ContentType),
	}
	if img.Size > 0 {
		input.ContentLength = aws.Int64(img.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	stored := &StoredImage{Key: key, URL: s.urlFor(key)}
	logging.Info("uploaded image to S3", zap.String("key", key))
	return stored, nil
}

// DisabledImageStore rejects every upload
type DisabledImageStore struct{}

func (DisabledImageStore) Upload(context.Context, ImageUpload) (*StoredImage, error) {
	return nil, ErrImageStorageDisabled
}
