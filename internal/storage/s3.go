package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rogerio-castellano/catalog-admin/internal/config"
	"go.uber.org/zap"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader writes public-read objects to an S3 compatible bucket.
type S3Uploader struct {
	client  putObjectAPI
	bucket  string
	baseURL string
	logger  *zap.Logger
}

func NewS3Uploader(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Uploader(client, cfg, log), nil
}

func newS3Uploader(client putObjectAPI, cfg config.StorageConfig, log *zap.Logger) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg),
		logger:  log.Named("s3"),
	}
}

// publicBaseURL is where uploaded objects are reachable: the configured public URL,
// the custom endpoint, or the regional AWS host.
func publicBaseURL(cfg config.StorageConfig) string {
	switch {
	case cfg.PublicURL != "":
		return strings.TrimRight(cfg.PublicURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/")
	default:
		return fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Region)
	}
}

func (u *S3Uploader) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ACL:           types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url := fmt.Sprintf("%s/%s/%s", u.baseURL, u.bucket, key)
	u.logger.Debug("object uploaded", zap.String("key", key), zap.Int64("size", size))
	return url, nil
}
