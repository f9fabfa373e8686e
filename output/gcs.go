package output

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSWriter stores files as objects in a Google Cloud Storage bucket.
type GCSWriter struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSWriter creates a writer for bucket. Objects are named
// <prefix>/<name>, or <name> when prefix is empty.
func NewGCSWriter(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSWriter, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCSWriter{client: client, bucket: bucket, prefix: prefix}, nil
}

// ObjectName returns the object that name is stored under.
func (w *GCSWriter) ObjectName(name string) string {
	return objectName(w.prefix, name)
}

func objectName(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Location returns the gs:// URL of name.
func (w *GCSWriter) Location(name string) string {
	return "gs://" + w.bucket + "/" + w.ObjectName(name)
}

// Write uploads data as the object for name in a single request.
func (w *GCSWriter) Write(ctx context.Context, name string, data []byte) error {
	writer := w.client.Bucket(w.bucket).Object(w.ObjectName(name)).NewWriter(ctx)
	writer.ContentType = contentType(name)
	writer.CacheControl = "no-cache"
	// single-request upload
	writer.ChunkSize = 0

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("uploading object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing object: %w", err)
	}
	return nil
}

// Close releases the storage client.
func (w *GCSWriter) Close() error {
	return w.client.Close()
}
