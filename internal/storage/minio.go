package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/contractscan/contract-risk-scanner/internal/common"
)

// objectPrefix groups uploaded contracts inside the bucket.
const objectPrefix = "contracts"

// MinIOStore stores contracts in a MinIO/S3 bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

func NewMinIOStore(cfg common.StorageConfig, logger *slog.Logger) (*MinIOStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object-store client: %w", err)
	}
	return &MinIOStore{
		client: client,
		bucket: cfg.Bucket,
		log:    logger,
	}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
// Called once at startup.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", s.bucket, err)
	}
	s.log.Info("storage.bucket_created", "bucket", s.bucket)
	return nil
}

// Upload stores the contract under contracts/<unix-ts>_<sanitized-name> and
// returns its locator.
func (s *MinIOStore) Upload(ctx context.Context, r io.Reader, size int64, filename string) (UploadResult, error) {
	now := time.Now().UTC()
	key := fmt.Sprintf("%s/%d_%s", objectPrefix, now.Unix(), sanitizeName(filename))

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("storage.upload_failed", "bucket", s.bucket, "key", key, "error", err)
		return UploadResult{}, common.WrapError(err, "upload object")
	}

	res := UploadResult{
		URI:        fmt.Sprintf("s3://%s/%s", s.bucket, key),
		Bucket:     s.bucket,
		Key:        key,
		Size:       info.Size,
		UploadedAt: now,
	}
	s.log.Info("storage.upload_ok", "uri", res.URI, "bytes", res.Size, "content_type", contentType)
	return res, nil
}

// Download returns the stored object's bytes.
func (s *MinIOStore) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		s.log.Error("storage.download_failed", "bucket", s.bucket, "key", key, "error", err)
		return nil, common.WrapError(err, "get object")
	}
	defer func() {
		if err := obj.Close(); err != nil {
			s.log.Warn("storage.object_close_error", "key", key, "error", err)
		}
	}()

	data, err := io.ReadAll(obj)
	if err != nil {
		s.log.Error("storage.download_read_failed", "bucket", s.bucket, "key", key, "error", err)
		return nil, common.WrapError(err, "read object")
	}
	s.log.Info("storage.download_ok", "key", key, "bytes", len(data))
	return data, nil
}

func sanitizeName(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	return strings.ReplaceAll(name, " ", "_")
}
