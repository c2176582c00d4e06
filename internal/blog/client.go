package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fetcher defines the calls the viewer makes against the backend API.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchPosts(ctx context.Context) ([]Post, error)
	FetchPost(ctx context.Context, id int64) (Post, time.Duration, error)
	FetchHealth(ctx context.Context) (Health, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// ErrNotFound matches a *StatusError carrying a 404.
var ErrNotFound = errors.New("not found")

// StatusError is returned when the API answers with a 4xx or 5xx status.
type StatusError struct {
	Path   string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client talks to the backend gateway.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	now       func() time.Time
}

const (
	defaultAPIURL    = "localhost:8000"
	defaultUserAgent = "lazybird-viewer/0.1"
	requestTimeout   = 30 * time.Second
)

// NewClient builds a Client for the given API base, e.g.
// "http://localhost:8000" or "localhost:8000".
func NewClient(apiURL string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		now:       time.Now,
	}, nil
}

// BaseURL returns the normalized API base.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchPosts retrieves every post for the selector.
func (c *Client) FetchPosts(ctx context.Context) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Post
	if _, err := c.do(ctx, "/api/posts", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchPost retrieves one post. The returned duration spans from sending the
// request to receiving the response headers; it is reported for error
// statuses too and is zero only when no response arrived.
func (c *Client) FetchPost(ctx context.Context, id int64) (Post, time.Duration, error) {
	if c == nil {
		return Post{}, 0, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return Post{}, 0, fmt.Errorf("post id must be positive")
	}
	var payload Post
	elapsed, err := c.do(ctx, "/api/posts/"+strconv.FormatInt(id, 10), &payload)
	if err != nil {
		return Post{}, elapsed, err
	}
	return payload, elapsed, nil
}

// FetchHealth probes the gateway's /health endpoint.
func (c *Client) FetchHealth(ctx context.Context) (Health, error) {
	if c == nil {
		return Health{}, fmt.Errorf("client is nil")
	}
	var payload Health
	if _, err := c.do(ctx, "/health", &payload); err != nil {
		return Health{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, path string, dest any) (time.Duration, error) {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	elapsed := c.now().Sub(start)
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return elapsed, &StatusError{
			Path:   rel.String(),
			Status: resp.StatusCode,
			Detail: readDetail(resp.Body),
		}
	}
	if dest == nil {
		return elapsed, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return elapsed, fmt.Errorf("decode response: %w", err)
	}
	return elapsed, nil
}

// readDetail extracts {"detail": "..."} from an error body. Non-string
// details and non-JSON bodies yield an empty string.
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Detail.(string); ok {
		return s
	}
	return ""
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
