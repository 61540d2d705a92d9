package miniostore

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SnapshotStore archives raw fetched page content in an S3-compatible bucket.
type SnapshotStore struct {
	client *minio.Client
	bucket string
}

// NewSnapshotStore creates a snapshot store backed by MinIO (or any
// S3-compatible endpoint).
func NewSnapshotStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*SnapshotStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &SnapshotStore{
		client: client,
		bucket: bucket,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *SnapshotStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Save stores one content snapshot under the given object name.
func (s *SnapshotStore) Save(ctx context.Context, objectName, content string) error {
	reader := strings.NewReader(content)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "text/markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}

	return nil
}
