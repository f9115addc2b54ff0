package s3client

import (
	"context"
	"io"
	"time"
)

// S3Interface defines the operations the metadata export needs from an
// S3-compatible store.
type S3Interface interface {
	UploadFile(ctx context.Context, reader io.Reader, objectKey string, size int64, metadata map[string]string, contentType string) error
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
	GetPresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	GetBucketName() string
	GetEndpoint() string
	GetPrefix() string
}
