package output

import (
	"context"
	"fmt"
	"path"

	"github.com/rs/zerolog"
)

// Published file names.
const (
	FeedJSONName     = "TripUpdates.json"
	FeedProtobufName = "TripUpdates.pb"
)

// Writer stores a named file.
type Writer interface {
	Write(ctx context.Context, name string, data []byte) error
	// Location describes where name is stored, for logs and errors.
	Location(name string) string
}

// Config selects and configures a Writer.
type Config struct {
	Directory string
	Bucket    string
	Prefix    string
	Logger    zerolog.Logger
}

// NewWriter returns a GCSWriter when a bucket is configured and a LocalWriter
// for Directory otherwise. Callers should Close writers that implement
// io.Closer.
func NewWriter(ctx context.Context, cfg Config) (Writer, error) {
	if cfg.Bucket != "" {
		w, err := NewGCSWriter(ctx, cfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		cfg.Logger.Debug().Str("bucket", cfg.Bucket).Str("prefix", cfg.Prefix).Msg("writing feeds to bucket")
		return w, nil
	}
	dir := cfg.Directory
	if dir == "" {
		dir = "."
	}
	cfg.Logger.Debug().Str("directory", dir).Msg("writing feeds to local disk")
	return &LocalWriter{Dir: dir}, nil
}

// WriteError reports a file that could not be stored.
type WriteError struct {
	Target string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Target, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".pb":
		return "application/x-protobuf"
	default:
		return "application/octet-stream"
	}
}
