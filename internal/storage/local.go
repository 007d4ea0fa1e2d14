package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage writes files verbatim into a single directory
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates dir if it does not exist yet
func NewLocalStorage(dir string) (*LocalStorage, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save writes to a temp file first and renames it into place, so a
// concurrent reader sees either the old image or the new one.
func (s *LocalStorage) Save(ctx context.Context, key string, file io.Reader) error {
	err := validateKey(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, readerWithContext(ctx, file))
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	err = os.Rename(tmp.Name(), filepath.Join(s.dir, key))
	if err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// Open returns the stored file for serving
func (s *LocalStorage) Open(key string) (*os.File, error) {
	err := validateKey(key)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.dir, key))
}

// URL returns the path the uploads handler serves the file under
func (s *LocalStorage) URL(key string) string {
	return "/uploads/" + filepath.Base(key)
}


type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	err := c.ctx.Err()
	if err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
