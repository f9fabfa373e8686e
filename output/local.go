package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalWriter stores files in a directory. Files are replaced atomically: a
// reader sees either the previous or the new content, never a partial write.
type LocalWriter struct {
	Dir string
}

// Location returns the path of name inside Dir.
func (w *LocalWriter) Location(name string) string {
	return filepath.Join(w.Dir, name)
}

// Write replaces the file name in Dir, creating Dir when missing.
func (w *LocalWriter) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(w.Dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, w.Location(name)); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
