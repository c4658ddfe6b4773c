package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nexusvision/studio/internal/config"
	"github.com/nexusvision/studio/internal/metrics"
	"github.com/nexusvision/studio/pkg/models"
)

// BlobStore stores image payloads independently of the metadata database.
// Payloads are base64-encoded text keyed by a generated unique id; identical
// payloads are stored twice, not deduplicated.
type BlobStore struct {
	client     *minio.Client
	bucketName string
}

// New creates a new blob store client. Opening the store can fail (endpoint
// unreachable, bucket creation denied) and the error is surfaced to the
// caller rather than deferred to the first operation.
func New(cfg config.StorageConfig) (*BlobStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	// Ensure bucket exists
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &BlobStore{
		client:     client,
		bucketName: cfg.BucketName,
	}, nil
}

// Put stores a payload under a fresh unique id and returns the id.
func (s *BlobStore) Put(ctx context.Context, payload string) (string, error) {
	id := uuid.New().String()
	reader := strings.NewReader(payload)

	_, err := s.client.PutObject(ctx, s.bucketName, objectKey(id), reader, int64(len(payload)), minio.PutObjectOptions{
		ContentType: contentTypeFromPayload(payload),
	})
	if err != nil {
		metrics.BlobOperationsTotal.WithLabelValues("put", "failure").Inc()
		return "", fmt.Errorf("failed to store blob: %w", err)
	}

	metrics.BlobOperationsTotal.WithLabelValues("put", "success").Inc()
	return id, nil
}

// Get returns the payload stored under id. A missing id is reported as
// models.ErrBlobNotFound, never as a panic or a generic failure.
func (s *BlobStore) Get(ctx context.Context, id string) (string, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, objectKey(id), minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get blob: %w", err)
	}
	defer object.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, object); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			metrics.BlobOperationsTotal.WithLabelValues("get", "not_found").Inc()
			return "", models.ErrBlobNotFound
		}
		metrics.BlobOperationsTotal.WithLabelValues("get", "failure").Inc()
		return "", fmt.Errorf("failed to read blob: %w", err)
	}

	metrics.BlobOperationsTotal.WithLabelValues("get", "success").Inc()
	return buf.String(), nil
}

// Delete removes the payload stored under id. Deleting a non-existent id is
// a no-op success.
func (s *BlobStore) Delete(ctx context.Context, id string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, objectKey(id), minio.RemoveObjectOptions{})
	if err != nil {
		metrics.BlobOperationsTotal.WithLabelValues("delete", "failure").Inc()
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	metrics.BlobOperationsTotal.WithLabelValues("delete", "success").Inc()
	return nil
}

// objectKey maps a blob id to its bucket key
func objectKey(id string) string {
	return fmt.Sprintf("images/%s", id)
}

// contentTypeFromPayload sniffs the content type from a data-URI prefix
func contentTypeFromPayload(payload string) string {
	if strings.HasPrefix(payload, "data:") {
		if end := strings.IndexByte(payload, ';'); end > len("data:") {
			return payload[len("data:"):end]
		}
	}
	return "application/octet-stream"
}
