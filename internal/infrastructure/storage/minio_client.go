package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient stores blobs in an S3-compatible bucket. Used for local
// development against a MinIO container.
type MinioClient struct {
	client     *minio.Client
	bucketName string
	baseURL    string
}

func NewMinioClient(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinioClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &MinioClient{
		client:     client,
		bucketName: bucketName,
		baseURL:    fmt.Sprintf("%s://%s/%s/", scheme, endpoint, bucketName),
	}, nil
}

func (m *MinioClient) Put(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucketName, objectName, r, -1, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return m.baseURL + objectName, nil
}

func (m *MinioClient) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	objectName, err := m.objectName(url)
	if err != nil {
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, m.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return obj, nil
}

func (m *MinioClient) Delete(ctx context.Context, url string) error {
	objectName, err := m.objectName(url)
	if err != nil {
		return err
	}

	if err := m.client.RemoveObject(ctx, m.bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (m *MinioClient) objectName(url string) (string, error) {
	if !strings.HasPrefix(url, m.baseURL) {
		return "", fmt.Errorf("url does not belong to bucket %s", m.bucketName)
	}
	return strings.TrimPrefix(url, m.baseURL), nil
}

func (m *MinioClient) Close() error {
	return nil
}
