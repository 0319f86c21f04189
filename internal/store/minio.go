package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"atscan/internal/config"
	"atscan/internal/errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Compile-time interface check
var _ ObjectStore = (*MinIOStore)(nil)

// MinIOStore stores resume originals in a MinIO/S3 bucket
type MinIOStore struct {
	client  *minio.Client
	cfg     *config.StorageConfig
	breaker *UploadCircuitBreaker
	logger  *errors.Logger
}

// NewMinIOStore creates a MinIO-backed object store and ensures the
// configured bucket exists
func NewMinIOStore(cfg *config.StorageConfig, logger *errors.Logger) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Failed to create object storage client", err).
			WithContext("endpoint", cfg.Endpoint)
	}

	s := &MinIOStore{
		client:  client,
		cfg:     cfg,
		breaker: NewUploadCircuitBreaker(&cfg.CircuitBreaker, logger),
		logger:  logger,
	}

	if err := s.ensureBucket(context.Background()); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("Object store initialized",
			"endpoint", cfg.Endpoint,
			"bucket", cfg.Bucket,
			"use_ssl", cfg.UseSSL)
	}

	return s, nil
}

func (s *MinIOStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return errors.NewStorageError(errors.ErrCodeUploadFailed,
			fmt.Sprintf("Failed to check bucket %s", s.cfg.Bucket), err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return errors.NewStorageError(errors.ErrCodeUploadFailed,
			fmt.Sprintf("Failed to create bucket %s", s.cfg.Bucket), err)
	}

	if s.logger != nil {
		s.logger.Info("Created storage bucket", "bucket", s.cfg.Bucket)
	}
	return nil
}

// UploadResume stores the document bytes under objectName and returns the
// public URL of the stored object. The upload runs behind the circuit
// breaker so a degraded storage backend fails fast.
func (s *MinIOStore) UploadResume(ctx context.Context, objectName string, data []byte) (string, error) {
	uploadCtx := ctx
	if s.cfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, s.cfg.UploadTimeout)
		defer cancel()
	}

	url, err := s.breaker.Execute(func() (string, error) {
		_, err := s.client.PutObject(uploadCtx, s.cfg.Bucket, objectName,
			bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentTypeForExt(objectName)})
		if err != nil {
			return "", err
		}
		return s.publicURL(objectName), nil
	})
	if err != nil {
		return "", errors.NewStorageError(errors.ErrCodeUploadFailed,
			"Failed to upload resume to object storage", err).
			WithContext("object_name", objectName).
			WithContext("bucket", s.cfg.Bucket)
	}

	return url, nil
}

// Healthy reports whether the storage backend is reachable and the bucket
// still exists
func (s *MinIOStore) Healthy(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", s.cfg.Bucket)
	}
	return nil
}

// Stats returns upload circuit breaker statistics for the stats endpoint
func (s *MinIOStore) Stats() map[string]any {
	return s.breaker.GetStats()
}

// IsBreakerHealthy reports whether the upload circuit breaker is closed
func (s *MinIOStore) IsBreakerHealthy() bool {
	return s.breaker.IsHealthy()
}

// publicURL builds the publicly resolvable URL of a stored object. When a
// public base URL is configured it takes precedence over the raw endpoint.
func (s *MinIOStore) publicURL(objectName string) string {
	if s.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.PublicBaseURL, "/"), s.cfg.Bucket, objectName)
	}
	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, objectName)
}
