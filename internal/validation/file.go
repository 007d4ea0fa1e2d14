package validation

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

var ErrInvalidFile = errors.New("invalid file")

// FileConstraints defines validation rules for file uploads
type FileConstraints struct {
	// AllowedMimeTypes is matched against the sniffed content type.
	// Empty skips the content check.
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

var (
	// ImageConstraints defines validation rules for profile images
	ImageConstraints = FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
		},
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
		},
		MaxSize: 200 << 20,
	}

	// CSVConstraints defines validation rules for EDA uploads.
	// Content is left to the parser.
	CSVConstraints = FileConstraints{
		AllowedExtensions: map[string]bool{
			".csv": true,
		},
		MaxSize: 200 << 20,
	}
)

// WithMaxSize returns a copy of c limited to n bytes
func (c FileConstraints) WithMaxSize(n int64) FileConstraints {
	c.MaxSize = n
	return c
}

// ValidateFile validates a file upload against one or more constraint sets
// If multiple constraints are provided, file must match at least one (OR logic)
func ValidateFile(header *multipart.FileHeader, constraints ...FileConstraints) error {
	if len(constraints) == 0 {
		return fmt.Errorf("no file constraints provided")
	}

	// Try each constraint set - file must match at least one
	var lastErr error
	for _, constraint := range constraints {
		err := validateAgainstConstraint(header, constraint)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	return lastErr
}

// validateAgainstConstraint validates a file against a single constraint set
func validateAgainstConstraint(header *multipart.FileHeader, constraints FileConstraints) error {
	// Check file size first (before reading content)
	if constraints.MaxSize > 0 && header.Size > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return fmt.Errorf("%w: file too large: maximum size is %d MB", ErrInvalidFile, maxMB)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("%w: invalid file extension: %q", ErrInvalidFile, ext)
	}

	if len(constraints.AllowedMimeTypes) == 0 {
		return nil
	}

	// Open file to read magic numbers
	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// http.DetectContentType reads max 512 bytes to determine MIME type
	buffer := make([]byte, 512)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Detect actual content type from file content (magic numbers)
	// This cannot be faked by just changing Content-Type header
	detectedType := http.DetectContentType(buffer[:n])
	if !constraints.AllowedMimeTypes[detectedType] {
		return fmt.Errorf("%w: invalid file type (detected: %s)", ErrInvalidFile, detectedType)
	}

	return nil
}
