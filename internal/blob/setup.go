package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/studystack/materials/internal/logger"
)

// Store wraps the MinIO client for material object access.
type Store struct {
	client *minio.Client
	cfg    Config
	logger *logger.Logger
}

// NewStore creates the MinIO client, validates connectivity and ensures the
// materials bucket exists.
func NewStore(cfg Config, log *logger.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: create client: %w", err)
	}

	s := &Store{client: client, cfg: cfg, logger: log}
	if err := s.ensureBucket(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureBucket creates the configured bucket when it does not exist yet.
func (s *Store) ensureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.cfg.BucketName)
	if err != nil {
		return fmt.Errorf("blob: check bucket %q: %w", s.cfg.BucketName, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.cfg.BucketName, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return fmt.Errorf("blob: create bucket %q: %w", s.cfg.BucketName, err)
	}
	s.logger.Info("created materials bucket", nil, map[string]interface{}{"bucket": s.cfg.BucketName})
	return nil
}

// Download retrieves the raw bytes stored under the given locator.
func (s *Store) Download(ctx context.Context, locator string) ([]byte, error) {
	reader, err := s.client.GetObject(ctx, s.cfg.BucketName, locator, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateError(err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.logger.Error("failed to close object reader", err, map[string]interface{}{"locator": locator})
		}
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, translateError(err)
	}
	return data, nil
}

// Upload stores an object under the given locator and returns its size.
func (s *Store) Upload(ctx context.Context, locator string, reader io.Reader, size int64) (int64, error) {
	info, err := s.client.PutObject(ctx, s.cfg.BucketName, locator, reader, size, minio.PutObjectOptions{})
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

// Delete removes the object stored under the given locator.
func (s *Store) Delete(ctx context.Context, locator string) error {
	return s.client.RemoveObject(ctx, s.cfg.BucketName, locator, minio.RemoveObjectOptions{})
}

// HealthCheck verifies the bucket is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.cfg.BucketName)
	if err != nil {
		return fmt.Errorf("blob: health check: %w", err)
	}
	if !exists {
		return fmt.Errorf("blob: bucket %q does not exist", s.cfg.BucketName)
	}
	return nil
}
