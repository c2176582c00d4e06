// Package blog provides an HTTP client for the Lazy Bird backend API.
//
// # Overview
//
// The viewer needs three read-only calls:
//
//   - GET /api/posts: every post, used to fill the selector
//   - GET /api/posts/{id}: one post with its content
//   - GET /health: liveness probe used by the background poller
//
// All requests carry Accept: application/json, a lazybird-viewer User-Agent,
// and a fresh X-Request-ID that the gateway forwards to the posts service so
// one selection can be followed through both service logs.
//
// # Load Time
//
// FetchPost returns the wall-clock time between sending the request and
// receiving the response headers. That number is what the viewer shows as
// "Load Time". It is measured before the status is inspected, so a 404 or 503
// still reports how long the backend took to answer. A transport failure
// (connection refused, timeout) reports zero.
//
// # Errors
//
// Non-2xx responses become *StatusError carrying the status and the
// {"detail": ...} string from the body when present:
//
//	_, _, err := client.FetchPost(ctx, 42)
//	if errors.Is(err, blog.ErrNotFound) {
//		// show "Post not found"
//	}
//
// Other failures are wrapped with the step that failed ("execute request",
// "decode response").
//
// # Timestamps
//
// created_at is kept as the wire string. ParsedCreatedAt accepts RFC 3339
// with or without fractional seconds and the bare "2006-01-02 15:04:05"
// form SQLite produces, returning the zero time otherwise.
package blog
