package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/crypto/blake2b"

	cfg "github.com/templui/bikeshare/internal/config"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores a file under key, replacing any previous content
	Save(ctx context.Context, key string, file io.Reader) error

	// URL returns the public URL for accessing the file
	URL(key string) string
}

// ProfileImageKey derives the per-user image key from an email address.
// The mapping is deterministic: "@" and every other character outside
// [A-Za-z0-9._+-] becomes "_", followed by "-" and 8 hex digits of the
// email's blake2b digest so distinct emails never share a key, and ".jpg"
// regardless of the uploaded format.
func ProfileImageKey(email string) string {
	email = strings.TrimSpace(email)
	sum := blake2b.Sum256([]byte(email))

	var b strings.Builder
	for _, r := range email {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '+' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String() + "-" + hex.EncodeToString(sum[:4]) + ".jpg"
}

// validateKey rejects keys that could escape the storage root.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, `/\`) || path.Base(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// New creates the storage backend selected by STORAGE_DRIVER
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case cfg.StorageS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:              c.S3Region,
			Bucket:              c.S3Bucket,
			AccessKey:           c.S3AccessKey,
			SecretKey:           c.S3SecretKey,
			Endpoint:            c.S3Endpoint,
			PresignExpiryPublic: c.S3PresignExpiryPublic,
		})
	case cfg.StorageLocal, "":
		slog.Info("initializing local storage", "path", c.UploadPath)
		return NewLocalStorage(c.UploadPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
