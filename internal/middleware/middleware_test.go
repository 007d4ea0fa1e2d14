package middleware

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/bikeshare/internal/config"
	"github.com/templui/bikeshare/internal/ctxkeys"
	"github.com/templui/bikeshare/internal/session"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestChain_RunsInOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler, mark("first"), mark("second"), mark("third"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func csrfToken(t *testing.T) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	CSRFProtection(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			return c
		}
	}
	t.Fatal("no csrf cookie issued")
	return nil
}

func TestCSRF_GetIssuesTokenInContext(t *testing.T) {
	var seen string
	h := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.CSRFToken(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCSRF_CookieSecureFromConfig(t *testing.T) {
	t.Setenv("COOKIE_SECURE", "false")
	cfg := &config.Config{CookieSecure: true}

	rec := httptest.NewRecorder()
	Chain(okHandler, Config(cfg), CSRFProtection).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestCSRF_PostWithoutTokenRejected(t *testing.T) {
	cookie := csrfToken(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=a@b.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	CSRFProtection(okHandler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRF_PostWithFormToken(t *testing.T) {
	cookie := csrfToken(t)

	form := url.Values{"csrf_token": {cookie.Value}, "email": {"a@b.com"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	var email string
	CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email = r.PostFormValue("email")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@b.com", email)
}

func multipartBody(t *testing.T, token string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("csrf_token", token))
	fw, err := mw.CreateFormFile("file", "data.csv")
	require.NoError(t, err)
	_, err = fw.Write(file)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCSRF_MultipartKeepsFile(t *testing.T) {
	cookie := csrfToken(t)
	body, contentType := multipartBody(t, cookie.Value, []byte("datetime\n2011-01-01 00:00:00\n"))

	req := httptest.NewRequest(http.MethodPost, "/eda", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	var content string
	CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		content = string(b)
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, content, "2011-01-01")
}

func TestCSRF_MultipartTempFilesRemoved(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	prev := multipartMemory
	multipartMemory = 1
	t.Cleanup(func() { multipartMemory = prev })

	cookie := csrfToken(t)
	body, contentType := multipartBody(t, cookie.Value, bytes.Repeat([]byte("x"), 64<<10))

	req := httptest.NewRequest(http.MethodPost, "/eda", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	var spilled int
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		f.Close()
		entries, err := os.ReadDir(tmp)
		require.NoError(t, err)
		spilled = len(entries)
	}), WithURLPath, CSRFProtection)
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Positive(t, spilled)
	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCSRF_OversizedBody(t *testing.T) {
	cookie := csrfToken(t)
	body, contentType := multipartBody(t, cookie.Value, bytes.Repeat([]byte("x"), 4096))

	req := httptest.NewRequest(http.MethodPost, "/eda", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	Chain(okHandler, MaxBodySize(1024), CSRFProtection).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSecurityHeaders_NonceInPolicy(t *testing.T) {
	h := Chain(okHandler, Config(&config.Config{StorageDriver: config.StorageLocal}), NonceMiddleware, SecurityHeaders)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "script-src 'self' 'nonce-")
	assert.Contains(t, csp, "img-src 'self' data:;")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestSecurityHeaders_S3ImageOrigin(t *testing.T) {
	cfg := &config.Config{StorageDriver: config.StorageS3, S3Endpoint: "http://minio:9000/bucket"}
	assert.Contains(t, contentSecurityPolicy("n", cfg), "img-src 'self' data: http://minio:9000")

	cfg.S3Endpoint = ""
	assert.Contains(t, contentSecurityPolicy("n", cfg), "img-src 'self' data: https:")
}

func TestNonce_UniquePerRequest(t *testing.T) {
	var nonces []string
	h := NonceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, GetNonce(r.Context()), templ.GetNonce(r.Context()))
		nonces = append(nonces, GetNonce(r.Context()))
	}))

	for range 2 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}

	require.Len(t, nonces, 2)
	assert.NotEmpty(t, nonces[0])
	assert.NotEqual(t, nonces[0], nonces[1])
}

func TestSession_NewClientGetsCookie(t *testing.T) {
	manager := session.NewManager(session.NewMemoryStore(time.Hour, nil), "test_session")

	var st session.State
	h := Session(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st = ctxkeys.Session(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, st.LoggedIn)
	assert.Empty(t, st.ActiveEmail)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "test_session", cookies[0].Name)
}

func TestSession_ExistingStateLoaded(t *testing.T) {
	manager := session.NewManager(session.NewMemoryStore(time.Hour, nil), "test_session")

	login := httptest.NewRecorder()
	require.NoError(t, manager.Save(login, httptest.NewRequest(http.MethodGet, "/", nil), session.State{LoggedIn: true, ActiveEmail: "a@b.com"}))
	cookie := login.Result().Cookies()[0]

	var st session.State
	h := Session(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st = ctxkeys.Session(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.True(t, st.LoggedIn)
	assert.Equal(t, "a@b.com", st.ActiveEmail)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSession_SkipsStaticPaths(t *testing.T) {
	store := session.NewMemoryStore(time.Hour, nil)
	h := Session(session.NewManager(store, "test_session"))(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/app.css", nil))

	assert.Empty(t, rec.Result().Cookies())
	assert.Zero(t, store.Len())
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(req))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.3")
	assert.Equal(t, "203.0.113.7", getClientIP(req))
}

func TestRequestLogging_CapturesStatus(t *testing.T) {
	h := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
