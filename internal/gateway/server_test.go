package gateway

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
)

type fakePostsService struct {
	mu         sync.Mutex
	requestIDs []string
	paths      []string
}

func (f *fakePostsService) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requestIDs = append(f.requestIDs, r.Header.Get("X-Request-ID"))
	f.paths = append(f.paths, r.URL.Path)
	f.mu.Unlock()

	switch r.URL.Path {
	case "/posts":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"title":"First","content":"c","department":"Engineering","author":"A","created_at":"2025-01-02T03:04:05Z"},{"id":2,"title":"Second","content":"c","department":"Design","author":"B","created_at":"2025-01-03T03:04:05Z"}]`))
	case "/posts/1":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"title":"First","content":"# Hello","department":"Engineering","author":"A","created_at":"2025-01-02T03:04:05Z"}`))
	case "/posts/2":
		http.Error(w, "boom", http.StatusInternalServerError)
	case "/posts/3":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":`))
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Post not found"}`))
	}
}

func setup(t *testing.T) (*fiber.App, *fakePostsService) {
	t.Helper()
	fake := &fakePostsService{}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(srv.Close)

	app, err := New(Options{PostsServiceURL: srv.URL, CORSOrigins: []string{"http://localhost:3000"}})
	require.NoError(t, err)
	return app, fake
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()
	return send(t, app, httptest.NewRequest(http.MethodGet, path, nil))
}

func TestNew_RequiresPostsServiceURL(t *testing.T) {
	_, err := New(Options{})
	require.ErrorContains(t, err, "POSTS_SERVICE_URL")

	_, err = New(Options{PostsServiceURL: "localhost"})
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	app, fake := setup(t)

	resp, body := get(t, app, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"healthy","service":"backend"}`, string(body))
	require.Empty(t, fake.paths, "health must not call the posts service")
}

func TestListPosts_Proxies(t *testing.T) {
	app, fake := setup(t)

	resp, body := get(t, app, "/api/posts")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []blog.Post
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 2)
	require.Equal(t, "Design", posts[1].Department)
	require.Equal(t, []string{"/posts"}, fake.paths)
}

func TestGetPost_ForwardsRequestID(t *testing.T) {
	app, fake := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/1", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	resp, body := send(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "trace-123", resp.Header.Get("X-Request-ID"))

	var post blog.Post
	require.NoError(t, json.Unmarshal(body, &post))
	require.Equal(t, "# Hello", post.Content)
	require.Equal(t, []string{"trace-123"}, fake.requestIDs)
}

func TestGetPost_GeneratesRequestID(t *testing.T) {
	app, fake := setup(t)

	resp, _ := get(t, app, "/api/posts/1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, fake.requestIDs, 1)
	require.Len(t, fake.requestIDs[0], 36)
	require.Equal(t, fake.requestIDs[0], resp.Header.Get("X-Request-ID"))
}

func TestGetPost_UpstreamErrors(t *testing.T) {
	app, _ := setup(t)

	tests := []struct {
		name   string
		path   string
		status int
		detail string
	}{
		{"json detail passthrough", "/api/posts/99", http.StatusNotFound, "Post not found"},
		{"raw body passthrough", "/api/posts/2", http.StatusInternalServerError, "boom\n"},
		{"bad payload", "/api/posts/3", http.StatusServiceUnavailable, "Service communication error"},
		{"non-integer id", "/api/posts/abc", http.StatusUnprocessableEntity, "post id must be an integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, app, tt.path)
			require.Equal(t, tt.status, resp.StatusCode)

			var payload struct {
				Detail string `json:"detail"`
			}
			require.NoError(t, json.Unmarshal(body, &payload))
			require.Equal(t, tt.detail, payload.Detail)
		})
	}
}

func TestGetPost_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	app, err := New(Options{PostsServiceURL: addr})
	require.NoError(t, err)

	resp, body := get(t, app, "/api/posts/1")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.JSONEq(t, `{"detail":"Posts service unavailable (connection error)"}`, string(body))
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	dialTimeout := &url.Error{Op: "Get", URL: "http://posts", Err: &net.OpError{Op: "dial", Net: "tcp", Err: timeoutError{}}}
	require.Equal(t, "Posts service unavailable (timeout)", classify(dialTimeout).Message)

	readTimeout := &url.Error{Op: "Get", URL: "http://posts", Err: &net.OpError{Op: "read", Net: "tcp", Err: timeoutError{}}}
	require.Equal(t, "Service communication error", classify(readTimeout).Message)

	refused := &url.Error{Op: "Get", URL: "http://posts", Err: &net.OpError{Op: "dial", Net: "tcp", Err: io.EOF}}
	got := classify(refused)
	require.Equal(t, fiber.StatusServiceUnavailable, got.Code)
	require.Equal(t, "Posts service unavailable (connection error)", got.Message)
}

func TestCORS(t *testing.T) {
	app, _ := setup(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, _ := send(t, app, req)
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://elsewhere.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, _ = send(t, app, req)
	require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig_DropsInvalidOrigins(t *testing.T) {
	cfg := corsConfig([]string{" http://localhost:3000 ", "", "not a url"})
	require.Equal(t, "http://localhost:3000", cfg.AllowOrigins)
	require.True(t, cfg.AllowCredentials)

	cfg = corsConfig(nil)
	require.Empty(t, cfg.AllowOrigins)
	require.False(t, cfg.AllowCredentials)
}

func TestRequestContext_BoundsUpstreamCall(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	t.Cleanup(func() {
		close(release)
		slow.Close()
	})

	posts, err := newUpstream(slow.URL, 0)
	require.NoError(t, err)
	h := &handler{posts: posts, log: zap.NewNop()}
	app := fiber.New(fiber.Config{ErrorHandler: h.errorHandler})
	app.Use(requestContext(50 * time.Millisecond))
	app.Get("/api/posts/:id", h.getPost)

	start := time.Now()
	resp, body := get(t, app, "/api/posts/1")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.JSONEq(t, `{"detail":"Service communication error"}`, string(body))
	require.Less(t, time.Since(start), 3*time.Second, "the request deadline must cancel the upstream call")
}
