// internal/export/export.go
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SmitNfsu/image-metadata-analyzer/internal/logger"
	"github.com/SmitNfsu/image-metadata-analyzer/internal/metadata"
	"github.com/SmitNfsu/image-metadata-analyzer/pkg/s3client"
)

// Filename derives the export name from the source image name:
// the base name with its extension replaced by "_metadata.json".
func Filename(imageName string) string {
	base := filepath.Base(imageName)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		base = "image"
	}
	return base + "_metadata.json"
}

// FileExporter writes the one-shot export to a local directory.
type FileExporter struct {
	dir    string
	pretty bool
}

// NewFileExporter creates an exporter writing into dir, creating it on
// first use.
func NewFileExporter(dir string, pretty bool) *FileExporter {
	if dir == "" {
		dir = "."
	}
	return &FileExporter{dir: dir, pretty: pretty}
}

// Export writes the record and returns the path of the written file.
func (e *FileExporter) Export(rec *metadata.Record, imageName string) (string, error) {
	data, err := e.encode(rec)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(e.dir, Filename(imageName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	logger.Info("Exported metadata to %s (%d bytes)", path, len(data))
	return path, nil
}

func (e *FileExporter) encode(rec *metadata.Record) ([]byte, error) {
	if e.pretty {
		return rec.MarshalIndent()
	}
	return rec.Marshal()
}

// S3Exporter uploads the one-shot export to an S3-compatible bucket
// and hands back a presigned download URL.
type S3Exporter struct {
	client s3client.S3Interface
	expiry time.Duration
}

// NewS3Exporter creates an exporter around a connected client.
func NewS3Exporter(client s3client.S3Interface, expiry time.Duration) *S3Exporter {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &S3Exporter{client: client, expiry: expiry}
}

// Export uploads the indented record and returns a presigned GET URL
// for the uploaded object.
func (e *S3Exporter) Export(ctx context.Context, rec *metadata.Record, imageName string) (string, error) {
	data, err := rec.MarshalIndent()
	if err != nil {
		return "", err
	}

	key := Filename(imageName)
	objMeta := map[string]string{"source-image": filepath.Base(imageName)}

	err = e.client.UploadFile(ctx, bytes.NewReader(data), key, int64(len(data)), objMeta, s3client.DetectContentType(key))
	if err != nil {
		if s3client.IsAuthError(err) {
			logger.Error("S3 export rejected by %s: check access credentials", e.client.GetEndpoint())
		} else {
			logger.Error("S3 export failed: %s", s3client.FormatError(err))
		}
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := e.client.GetPresignedURL(ctx, key, e.expiry)
	if err != nil {
		logger.Error("Presigning export URL failed: %s", s3client.FormatError(err))
		return "", fmt.Errorf("failed to presign export URL: %w", err)
	}

	logger.Info("Exported metadata to s3://%s/%s", e.client.GetBucketName(), key)
	return url, nil
}
