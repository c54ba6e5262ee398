package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"thumbnail-creator/internal/config"
	"thumbnail-creator/internal/domain"
	"thumbnail-creator/internal/repository/export"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// ArtifactRepository keeps exported thumbnails in a MinIO bucket and hands
// out presigned download links for them.
type ArtifactRepository struct {
	client        *minio.Client
	bucket        string
	presignExpiry time.Duration
	retries       retry.Strategy
	logger        *zlog.Zerolog
}

func NewClient(cfg config.StorageConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return client, nil
}

func NewArtifactRepository(client *minio.Client, cfg config.StorageConfig, retries retry.Strategy, logger *zlog.Zerolog) (*ArtifactRepository, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: bucket name is empty", export.ErrStorageValidation)
	}
	return &ArtifactRepository{
		client:        client,
		bucket:        cfg.Bucket,
		presignExpiry: cfg.PresignExpiry,
		retries:       retries,
		logger:        logger,
	}, nil
}

// EnsureBucket creates the export bucket when it does not exist yet.
func (r *ArtifactRepository) EnsureBucket(ctx context.Context) error {
	exists, err := r.client.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("%w: failed to check bucket: %v", export.ErrStorageError, err)
	}
	if exists {
		return nil
	}
	if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("%w: failed to create bucket: %v", export.ErrStorageError, err)
	}
	r.logger.Info().Str("bucket", r.bucket).Msg("Created export bucket")
	return nil
}

// Save uploads data under key and returns a presigned URL to fetch it.
func (r *ArtifactRepository) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	err := retry.DoContext(ctx, r.retries, func() error {
		_, err := r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType:        contentType,
			ContentDisposition: fmt.Sprintf("attachment; filename=%q", domain.ExportFilename),
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to put object %s: %v", export.ErrStorageError, key, err)
	}

	u, err := r.client.PresignedGetObject(ctx, r.bucket, key, r.presignExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("%w: failed to presign %s: %v", export.ErrStorageError, key, err)
	}

	r.logger.Debug().Str("bucket", r.bucket).Str("key", key).Int("size", len(data)).Msg("Export stored")
	return u.String(), nil
}
