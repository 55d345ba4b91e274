package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/storage"
)

// GCSStorage writes uploads into a single bucket and links to their public URL.
type GCSStorage struct {
	client *storage.Client
	bucket string
}

func NewGCSStorage(ctx context.Context, bucket string) (*GCSStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("missing GCS_BUCKET")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStorage{client: client, bucket: bucket}, nil
}

func (s *GCSStorage) Save(ctx context.Context, key, contentType string, r io.Reader) (*Object, error) {
	wc := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		wc.ContentType = contentType
	}
	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}
	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("finalize %s: %w", key, err)
	}
	return &Object{Key: key, URL: PublicURL(s.bucket, key)}, nil
}

func (s *GCSStorage) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func PublicURL(bucket, key string) string {
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + key}
	return u.String()
}
