package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultUpstreamTimeout = 5 * time.Second
	maxErrorBody           = 64 << 10
)

var errUnexpected = errors.New("unexpected upstream response")

// upstream talks to the posts service.
type upstream struct {
	baseURL *url.URL
	http    *http.Client
}

func newUpstream(rawURL string, timeout time.Duration) (*upstream, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("posts service url is required (set POSTS_SERVICE_URL)")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse posts service url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("posts service url %q must include scheme and host", rawURL)
	}
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout}).DialContext
	transport.ResponseHeaderTimeout = timeout

	return &upstream{
		baseURL: u,
		http:    &http.Client{Transport: transport},
	}, nil
}

// get fetches path and decodes the JSON body into dest. Every failure is
// returned as a *fiber.Error carrying the status and detail the gateway
// should answer with.
func (u *upstream) get(ctx context.Context, path, requestID string, dest any) error {
	endpoint := u.baseURL.ResolveReference(&url.URL{Path: strings.TrimRight(u.baseURL.Path, "/") + path})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return classify(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set(fiber.HeaderXRequestID, requestID)
	}

	resp, err := u.http.Do(req)
	if err != nil {
		return classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fiber.NewError(resp.StatusCode, upstreamDetail(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return classify(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// classify maps a transport failure to the gateway's 503 answers.
func classify(err error) *fiber.Error {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		if opErr.Timeout() {
			return &fiber.Error{Code: fiber.StatusServiceUnavailable, Message: "Posts service unavailable (timeout)"}
		}
		return &fiber.Error{Code: fiber.StatusServiceUnavailable, Message: "Posts service unavailable (connection error)"}
	}
	return &fiber.Error{Code: fiber.StatusServiceUnavailable, Message: "Service communication error"}
}

// upstreamDetail prefers the JSON "detail" field and falls back to the raw body.
func upstreamDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return errUnexpected.Error()
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return s
		}
		return string(payload.Detail)
	}
	return string(raw)
}
