// Package gateway is the public backend API the viewer talks to.
//
// It proxies GET /api/posts and GET /api/posts/:id to the posts service and
// answers GET /health itself. Upstream failures become 503s with a detail
// naming the cause (timeout, connection error, or a generic communication
// error); upstream error statuses pass through with the upstream detail.
// Every error body is {"detail": "..."}.
//
// Each request gets an X-Request-ID, reused from the caller when present,
// which is forwarded to the posts service and logged with the access line.
package gateway
