package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"peoplehub/api/internal/config"
)

type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{s.cfg.BucketDocuments, s.cfg.BucketAvatars} {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("bucket exists %s: %w", bucket, err)
		}
		if !exists {
			if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}
	return nil
}

// PutDocument stores an absence document (sick note or similar) and
// returns the object key.
func (s *ObjectStore) PutDocument(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.cfg.BucketDocuments, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put document %s: %w", key, err)
	}
	return key, nil
}

// DocumentURL returns a presigned download URL for a stored document.
func (s *ObjectStore) DocumentURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.cfg.BucketDocuments, key, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign document %s: %w", key, err)
	}
	return u.String(), nil
}

// PutAudio parks synthesized speech so clients can stream it instead
// of decoding the inline base64 payload.
func (s *ObjectStore) PutAudio(ctx context.Context, key string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.cfg.BucketDocuments, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "audio/mpeg",
	})
	if err != nil {
		return "", fmt.Errorf("put audio %s: %w", key, err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.cfg.BucketDocuments, key, time.Hour, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign audio %s: %w", key, err)
	}
	return u.String(), nil
}

func (s *ObjectStore) Client() *minio.Client {
	return s.client
}
