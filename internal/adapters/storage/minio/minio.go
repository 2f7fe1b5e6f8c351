package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"media-vault/internal/config"
	"media-vault/internal/core/port"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio implementing port.ObjectStorage
type Adapter struct {
	client *minio.Client
	config config.StorageConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// Put stores an object and returns its key
func (a *Adapter) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := a.client.PutObject(ctx, a.config.BucketName, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return key, nil
}

// GetObjectInfo stats an object
func (a *Adapter) GetObjectInfo(ctx context.Context, key string) (*port.ObjectInfo, error) {
	info, err := a.client.StatObject(ctx, a.config.BucketName, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	return &port.ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// GetHeaderBytes reads the first n bytes of an object, for MIME sniffing
func (a *Adapter) GetHeaderBytes(ctx context.Context, key string, n int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(0, n-1); err != nil {
		return nil, fmt.Errorf("failed to set range: %w", err)
	}

	obj, err := a.client.GetObject(ctx, a.config.BucketName, key, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(obj, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read object header: %w", err)
	}
	return buf[:read], nil
}

// StreamURL presigns a GET on the object so external collaborators can
// fetch the bytes without bucket credentials
func (a *Adapter) StreamURL(ctx context.Context, key string) (string, *time.Time, error) {
	presignedURL, err := a.client.PresignedGetObject(ctx, a.config.BucketName, key, a.config.StreamURLDuration, nil)
	if err != nil {
		return "", nil, fmt.Errorf("failed to presign object: %w", err)
	}
	expiresAt := time.Now().Add(a.config.StreamURLDuration)
	return presignedURL.String(), &expiresAt, nil
}

// DeleteObject removes an object
func (a *Adapter) DeleteObject(ctx context.Context, key string) error {
	if err := a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
