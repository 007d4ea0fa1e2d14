package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage implements Storage for S3-compatible storage
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
type S3Storage struct {
	client              *s3.Client
	presignClient       *s3.PresignClient
	bucket              string
	region              string
	endpoint            string        // Optional: for custom endpoints (MinIO, DO Spaces, etc.)
	publicURL           string        // Base URL for generating URLs
	presignExpiryPublic time.Duration // Expiry for profile image URLs (7 days default)
}

// S3Config holds configuration for S3 storage
type S3Config struct {
	Region              string
	Bucket              string
	AccessKey           string
	SecretKey           string
	Endpoint            string        // Optional: for S3-compatible services
	PresignExpiryPublic time.Duration // Expiry for profile image URLs
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	ctx := context.Background()

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	// Add static credentials if provided
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with optional custom endpoint
	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	publicURL := cfg.Endpoint
	if publicURL == "" {
		// Standard AWS S3 URL
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	} else {
		// Custom endpoint (MinIO, DO Spaces, etc.)
		publicURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	presignClient := s3.NewPresignClient(client)

	storage := &S3Storage{
		client:              client,
		presignClient:       presignClient,
		bucket:              cfg.Bucket,
		region:              cfg.Region,
		endpoint:            cfg.Endpoint,
		publicURL:           publicURL,
		presignExpiryPublic: cfg.PresignExpiryPublic,
	}

	// Auto-create bucket if it doesn't exist
	if err := storage.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return storage, nil
}

// ensureBucket checks if bucket exists, creates it if not
func (s *S3Storage) ensureBucket(ctx context.Context) error {
	// Check if bucket exists
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil // Bucket exists
	}

	// Bucket doesn't exist, try to create
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", s.bucket)
	return nil
}

// Save stores a file in S3, overwriting an existing object with the same key
func (s *S3Storage) Save(ctx context.Context, key string, file io.Reader) error {
	err := validateKey(key)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Keys always end in .jpg, so the stored type comes from the bytes
	ct, body, err := sniffContentType(file)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(ct),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// URL returns a presigned URL so images render without a public bucket policy
func (s *S3Storage) URL(key string) string {
	return s.PublicURL(key)
}

// PublicURL returns a presigned URL with long expiry (7 days by default)
func (s *S3Storage) PublicURL(key string) string {
	url, err := s.PresignedURL(key, s.presignExpiryPublic)
	if err != nil {
		// Fallback to direct URL if presigning fails
		return fmt.Sprintf("%s/%s", s.publicURL, key)
	}
	return url
}

// PresignedURL generates a presigned URL for temporary access
func (s *S3Storage) PresignedURL(key string, expiry time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	presignedReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})

	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}

	return presignedReq.URL, nil
}

// sniffContentType detects the MIME type from the first 512 bytes and
// returns a seekable reader positioned at the start of the content again.
// PutObject needs a seekable body to checksum over plain HTTP endpoints.
func sniffContentType(file io.Reader) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]
	ct := http.DetectContentType(head)

	if rs, ok := file.(io.ReadSeeker); ok {
		_, err = rs.Seek(int64(-n), io.SeekCurrent)
		if err != nil {
			return "", nil, err
		}
		return ct, rs, nil
	}
	rest, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return ct, bytes.NewReader(append(head, rest...)), nil
}
