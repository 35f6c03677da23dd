package storage

import (
	"context"
	"io"
	"time"
)

// UploadResult is the stable locator for a stored contract.
type UploadResult struct {
	URI        string // s3://<bucket>/<key>
	Bucket     string
	Key        string
	Size       int64
	UploadedAt time.Time
}

// ObjectStore is the upload collaborator the pipeline depends on. The
// pipeline re-downloads the stored bytes before extraction so the extracted
// text always comes from exactly what was persisted.
type ObjectStore interface {
	Upload(ctx context.Context, r io.Reader, size int64, filename string) (UploadResult, error)
	Download(ctx context.Context, key string) ([]byte, error)
}
