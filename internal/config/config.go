package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures every setting the viewer and both services read.
type Config struct {
	LogDir   string
	LogLevel string

	Viewer  ViewerConfig
	Backend BackendConfig
	Posts   PostsConfig
}

// ViewerConfig configures the terminal client.
type ViewerConfig struct {
	APIURL      string
	PollSeconds int
}

// BackendConfig configures the gateway API.
type BackendConfig struct {
	Bind            string
	PostsServiceURL string
	CORSOrigins     []string
}

// PostsConfig configures the posts service and its store.
type PostsConfig struct {
	Bind       string
	DBPath     string
	QueryDelay time.Duration
	RowDelay   time.Duration
}

const (
	defaultConfigPath  = "~/.config/lazybird/config.toml"
	defaultLogDir      = "~/.local/share/lazybird/logs"
	defaultLogLevel    = "info"
	defaultAPIURL      = "http://localhost:8000"
	defaultPollSeconds = 2
	defaultBackendBind = "127.0.0.1:8000"
	defaultPostsBind   = "127.0.0.1:8001"
	defaultDBPath      = "~/.local/share/lazybird/posts.db"
	defaultCORSOrigin  = "http://localhost:3000"
	defaultQueryDelay  = 2 * time.Second
	defaultRowDelay    = 150 * time.Millisecond
)

type rawConfig struct {
	LogDir   string `toml:"log_dir"`
	LogLevel string `toml:"log_level"`
	Viewer   struct {
		APIURL      string `toml:"api_url"`
		PollSeconds int    `toml:"poll_seconds"`
	} `toml:"viewer"`
	Backend struct {
		Bind            string   `toml:"bind"`
		PostsServiceURL string   `toml:"posts_service_url"`
		CORSOrigins     []string `toml:"cors_origins"`
	} `toml:"backend"`
	Posts struct {
		Bind       string `toml:"bind"`
		DBPath     string `toml:"db_path"`
		QueryDelay string `toml:"query_delay"`
		RowDelay   string `toml:"row_delay"`
	} `toml:"posts"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogDir:   mustExpand(defaultLogDir),
		LogLevel: defaultLogLevel,
		Viewer: ViewerConfig{
			APIURL:      defaultAPIURL,
			PollSeconds: defaultPollSeconds,
		},
		Backend: BackendConfig{
			Bind:        defaultBackendBind,
			CORSOrigins: []string{defaultCORSOrigin},
		},
		Posts: PostsConfig{
			Bind:       defaultPostsBind,
			DBPath:     mustExpand(defaultDBPath),
			QueryDelay: defaultQueryDelay,
			RowDelay:   defaultRowDelay,
		},
	}
}

// Load locates and parses the config file, falling back to defaults when it
// is missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := merge(&cfg, raw); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	return cfg, nil
}

func merge(cfg *Config, raw rawConfig) error {
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if v := strings.TrimSpace(raw.Viewer.APIURL); v != "" {
		cfg.Viewer.APIURL = v
	}
	if raw.Viewer.PollSeconds > 0 {
		cfg.Viewer.PollSeconds = raw.Viewer.PollSeconds
	}

	if v := strings.TrimSpace(raw.Backend.Bind); v != "" {
		cfg.Backend.Bind = v
	}
	if v := strings.TrimSpace(raw.Backend.PostsServiceURL); v != "" {
		cfg.Backend.PostsServiceURL = v
	}
	if origins := filterStrings(raw.Backend.CORSOrigins); len(origins) > 0 {
		cfg.Backend.CORSOrigins = origins
	}

	if v := strings.TrimSpace(raw.Posts.Bind); v != "" {
		cfg.Posts.Bind = v
	}
	if v := strings.TrimSpace(raw.Posts.DBPath); v != "" {
		cfg.Posts.DBPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.Posts.QueryDelay); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse posts.query_delay: %w", err)
		}
		cfg.Posts.QueryDelay = d
	}
	if v := strings.TrimSpace(raw.Posts.RowDelay); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse posts.row_delay: %w", err)
		}
		cfg.Posts.RowDelay = d
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Viewer.APIURL = getEnv("API_URL", cfg.Viewer.APIURL)
	cfg.Backend.Bind = getEnv("BACKEND_BIND", cfg.Backend.Bind)
	cfg.Backend.PostsServiceURL = getEnv("POSTS_SERVICE_URL", cfg.Backend.PostsServiceURL)
	if v := getEnv("CORS_ORIGINS", ""); v != "" {
		if origins := filterStrings(strings.Split(v, ",")); len(origins) > 0 {
			cfg.Backend.CORSOrigins = origins
		}
	}
	cfg.Posts.Bind = getEnv("POSTS_BIND", cfg.Posts.Bind)
	if v := getEnv("POSTS_DB_PATH", ""); v != "" {
		cfg.Posts.DBPath = mustExpand(v)
	}
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	if v := getEnv("POLL_SECONDS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Viewer.PollSeconds = n
		}
	}
}

// LogPath returns the log file for the named component.
func (c Config) LogPath(name string) string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/" + name + ".log")
	}
	return filepath.Join(c.LogDir, name+".log")
}

// BackendLogPath returns the path the gateway writes its log to.
func (c Config) BackendLogPath() string {
	return c.LogPath("backend")
}

// PollInterval returns the health probe cadence.
func (c Config) PollInterval() time.Duration {
	if c.Viewer.PollSeconds <= 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.Viewer.PollSeconds) * time.Second
}

// LocalPostsURL returns the posts service URL derived from the posts bind
// address, used when both services run in one process.
func (c Config) LocalPostsURL() string {
	bind := strings.TrimSpace(c.Posts.Bind)
	if bind == "" {
		bind = defaultPostsBind
	}
	if strings.HasPrefix(bind, ":") {
		bind = "127.0.0.1" + bind
	}
	return "http://" + bind
}

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

func filterStrings(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
