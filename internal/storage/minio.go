package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	prefix     string
	publicBase string
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists with a public-read
// policy, and returns a ready-to-use MinioStorage. Object keys are placed under prefix.
func NewMinioStorage(ctx context.Context, endpoint, accessKey, secretKey, bucket, prefix, publicBase string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Info().Str("bucket", bucket).Msg("storage: created bucket")
	}

	if err := client.SetBucketPolicy(ctx, bucket, publicReadPolicy(bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     bucket,
		prefix:     strings.Trim(prefix, "/"),
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// Store uploads the file under a server-assigned key.
func (s *MinioStorage) Store(ctx context.Context, u Upload) (Image, error) {
	key := objectKey(s.prefix, u)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(u.Data), int64(len(u.Data)), minio.PutObjectOptions{
		ContentType: u.ContentType,
	})
	if err != nil {
		return Image{}, fmt.Errorf("put object %q: %w", key, err)
	}
	return Image{URL: s.PublicURL(key), StorageID: key}, nil
}

// Delete removes the object identified by img.StorageID. S3 removal is silent on
// missing keys, so the object is stat'ed first to report ErrNotFound.
func (s *MinioStorage) Delete(ctx context.Context, img Image) error {
	if img.StorageID == "" {
		return fmt.Errorf("image %q has no storage id", img.URL)
	}
	if _, err := s.client.StatObject(ctx, s.bucket, img.StorageID, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ErrNotFound
		}
		return fmt.Errorf("stat object %q: %w", img.StorageID, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, img.StorageID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", img.StorageID, err)
	}
	return nil
}

// PublicURL returns the browser-accessible URL for the given key.
// For local MinIO: "http://localhost:9000/media/products/<uuid>.jpg"
func (s *MinioStorage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

func objectKey(prefix string, u Upload) string {
	key := uuid.NewString() + u.Ext()
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
