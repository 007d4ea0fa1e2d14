package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngImage  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
	jpegImage = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
)

// fakeS3 answers the path-style bucket and object calls S3Storage makes.
type fakeS3 struct {
	mu       sync.Mutex
	bucket   string
	exists   bool
	creates  int
	objects  map[string][]byte
	ctypes   map[string]string
	requests []string
}

func newFakeS3(t *testing.T, bucket string, exists bool) (*fakeS3, *httptest.Server) {
	t.Helper()
	f := &fakeS3{
		bucket:  bucket,
		exists:  exists,
		objects: map[string][]byte{},
		ctypes:  map[string]string{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeS3) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	bucketPath := "/" + f.bucket
	switch {
	case r.Method == http.MethodHead && r.URL.Path == bucketPath:
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && r.URL.Path == bucketPath:
		f.exists = true
		f.creates++
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, bucketPath+"/"):
		body, _ := io.ReadAll(r.Body)
		key := strings.TrimPrefix(r.URL.Path, bucketPath+"/")
		f.objects[key] = body
		f.ctypes[key] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newTestS3Storage(t *testing.T, endpoint string) *S3Storage {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	s, err := NewS3Storage(S3Config{
		Region:              "us-east-1",
		Bucket:              "avatars",
		AccessKey:           "access",
		SecretKey:           "secret",
		Endpoint:            endpoint,
		PresignExpiryPublic: time.Hour,
	})
	require.NoError(t, err)
	return s
}

func TestS3Storage_CreatesMissingBucket(t *testing.T) {
	fake, srv := newFakeS3(t, "avatars", false)

	newTestS3Storage(t, srv.URL)

	assert.Equal(t, 1, fake.creates)
}

func TestS3Storage_KeepsExistingBucket(t *testing.T) {
	fake, srv := newFakeS3(t, "avatars", true)

	newTestS3Storage(t, srv.URL)

	assert.Zero(t, fake.creates)
}

func TestS3Storage_SaveSniffsContentType(t *testing.T) {
	fake, srv := newFakeS3(t, "avatars", true)
	s := newTestS3Storage(t, srv.URL)
	key := ProfileImageKey("kim@example.com")

	require.NoError(t, s.Save(context.Background(), key, bytes.NewReader(pngImage)))
	fake.mu.Lock()
	assert.Equal(t, "image/png", fake.ctypes[key])
	assert.Contains(t, string(fake.objects[key]), string(pngImage))
	fake.mu.Unlock()

	// Non-seekable reader: the sniffed bytes are still uploaded
	require.NoError(t, s.Save(context.Background(), key, io.MultiReader(bytes.NewReader(jpegImage))))
	fake.mu.Lock()
	assert.Equal(t, "image/jpeg", fake.ctypes[key])
	assert.Contains(t, string(fake.objects[key]), string(jpegImage))
	fake.mu.Unlock()
}

func TestS3Storage_SaveRejectsUnsafeKey(t *testing.T) {
	fake, srv := newFakeS3(t, "avatars", true)
	s := newTestS3Storage(t, srv.URL)

	err := s.Save(context.Background(), "../x.jpg", bytes.NewReader(jpegImage))
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Empty(t, fake.objects)
}

func TestS3Storage_URLIsPresigned(t *testing.T) {
	_, srv := newFakeS3(t, "avatars", true)
	s := newTestS3Storage(t, srv.URL)

	u := s.URL("kim.jpg")

	assert.True(t, strings.HasPrefix(u, srv.URL+"/avatars/kim.jpg?"), u)
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "X-Amz-Expires=3600")
}

func TestSniffContentType(t *testing.T) {
	ct, r, err := sniffContentType(strings.NewReader("plain text"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", ct)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "plain text", string(b))
}
