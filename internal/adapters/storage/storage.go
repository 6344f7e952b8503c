// Package storage keeps uploaded document bytes outside the database.
package storage

import (
	"context"
	"errors"
	"io"
	"log"

	"visaconsult/internal/config"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
)

// BlobStore stores opaque objects under string keys
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// New returns the S3 store when configured, the local disk store otherwise
func New(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	if cfg.UseS3() {
		store, err := NewS3Store(cfg.S3)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		log.Printf("✅ Object storage ready [%s/%s]", cfg.S3.Endpoint, cfg.S3.Bucket)
		return store, nil
	}

	store, err := NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ Local upload storage ready [%s]", cfg.UploadDir)
	return store, nil
}
