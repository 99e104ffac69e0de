// Package objectstore writes export artifacts to a local directory, a GCS bucket, or an
// S3-compatible bucket.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	DriverFS  = "fs"
	DriverGCS = "gcs"
	DriverS3  = "s3"
)

// Sink stores whole objects under a key. Keys use forward slashes.
type Sink interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	// URI names where key lands, for logs and command output.
	URI(key string) string
	Close() error
}

type Config struct {
	Driver string

	Dir string

	Bucket string

	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	// GCSCredentialsFile is optional; application default credentials apply otherwise.
	GCSCredentialsFile string
}

// Open builds the sink selected by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverFS:
		return NewFS(cfg.Dir)
	case DriverGCS:
		return NewGCS(ctx, cfg.Bucket, cfg.GCSCredentialsFile)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported export driver %q", cfg.Driver)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return "", fmt.Errorf("invalid object key %q", key)
		}
	}
	return key, nil
}
