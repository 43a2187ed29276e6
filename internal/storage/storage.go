// Package storage uploads product images to object storage.
package storage

import (
	"context"
	"io"

	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"go.uber.org/zap"
)

// Uploader stores an object under key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// New returns an S3 uploader, or a stub when no bucket is configured.
func New(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (Uploader, error) {
	if cfg.Bucket == "" {
		log.Warn("AWS_S3_BUCKET_NAME not set, product images are not persisted")
		return NewStubUploader("http://localhost/uploads"), nil
	}
	return NewS3Uploader(ctx, cfg, log)
}
