// Package storage keeps uploaded binaries in a MinIO (S3 compatible) bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the MinIO connection details.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
	Bucket    string
	PublicURL string
}

// MinioStore writes objects to a single bucket that is readable anonymously.
type MinioStore struct {
	Client    *minio.Client
	Bucket    string
	publicURL string
}

const publicReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/*"]
  }]
}`

// NewMinioStore connects to MinIO and makes sure the bucket exists and
// serves its objects publicly.
func NewMinioStore(ctx context.Context, cfg Config) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}
	if err := client.SetBucketPolicy(ctx, cfg.Bucket, fmt.Sprintf(publicReadPolicy, cfg.Bucket)); err != nil {
		return nil, fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return &MinioStore{
		Client:    client,
		Bucket:    cfg.Bucket,
		publicURL: PublicBase(cfg),
	}, nil
}

// PublicBase returns the URL prefix objects are served under, without a
// trailing slash.
func PublicBase(cfg Config) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.Secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

// Put streams r into objectPath and returns the object's public URL.
func (s *MinioStore) Put(ctx context.Context, objectPath string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.Client.PutObject(ctx, s.Bucket, objectPath, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.URL(objectPath), nil
}

// Remove deletes objectPath. Removing a missing object is not an error.
func (s *MinioStore) Remove(ctx context.Context, objectPath string) error {
	return s.Client.RemoveObject(ctx, s.Bucket, objectPath, minio.RemoveObjectOptions{})
}

// URL returns the public URL of objectPath.
func (s *MinioStore) URL(objectPath string) string {
	return s.publicURL + "/" + strings.TrimLeft(objectPath, "/")
}
