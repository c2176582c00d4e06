// Package config loads the shared Lazy Bird configuration.
//
// # Overview
//
// One TOML file configures all three programs: the terminal viewer, the
// backend gateway, and the posts service. The default location is
// ~/.config/lazybird/config.toml; a missing file is not an error and yields
// the defaults below.
//
// # File Format
//
//	log_dir   = "~/.local/share/lazybird/logs"
//	log_level = "info"
//
//	[viewer]
//	api_url      = "http://localhost:8000"
//	poll_seconds = 2
//
//	[backend]
//	bind              = "127.0.0.1:8000"
//	posts_service_url = "http://127.0.0.1:8001"
//	cors_origins      = ["http://localhost:3000"]
//
//	[posts]
//	bind        = "127.0.0.1:8001"
//	db_path     = "~/.local/share/lazybird/posts.db"
//	query_delay = "2s"
//	row_delay   = "150ms"
//
// Blank values fall back to defaults and leading "~" is expanded to the
// user's home directory.
//
// # Environment
//
// After the file is read, these variables override it when non-empty:
//
//   - API_URL: viewer.api_url
//   - POLL_SECONDS: viewer.poll_seconds
//   - BACKEND_BIND: backend.bind
//   - POSTS_SERVICE_URL: backend.posts_service_url
//   - CORS_ORIGINS: backend.cors_origins (comma-separated)
//   - POSTS_BIND: posts.bind
//   - POSTS_DB_PATH: posts.db_path
//   - LOG_LEVEL: log_level
//
// backend.posts_service_url has no default. The standalone backend refuses
// to start without it; the combined "serve" command derives it from
// posts.bind via LocalPostsURL.
package config
