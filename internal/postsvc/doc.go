// Package postsvc is the internal posts service.
//
// It serves three routes over Fiber:
//
//	GET /health      {"status":"healthy","service":"posts-service"}
//	GET /posts       every post, oldest id first
//	GET /posts/:id   one post, 404 {"detail":"Post not found"} when missing
//
// The service is slow on purpose. The list is assembled with one query for
// the ids and one query per post, each paying Options.RowDelay, and every
// single-post lookup pays Options.QueryDelay. Nothing is cached.
package postsvc
