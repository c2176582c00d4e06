package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/br-lazy-bird/content-delivery/internal/blog"
	"github.com/br-lazy-bird/content-delivery/internal/config"
	"github.com/br-lazy-bird/content-delivery/internal/prefs"
	"github.com/br-lazy-bird/content-delivery/internal/state"
	"github.com/br-lazy-bird/content-delivery/internal/ui"
)

// Options configure the viewer application.
type Options struct {
	Config    config.Config
	PrefsPath string // empty uses default ~/.config/lazybird/prefs.toml
	PollEvery int    // seconds; zero uses the config value
	Logger    *zap.Logger
}

// Run boots the viewer TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config

	prefsPath := opts.PrefsPath
	if strings.TrimSpace(prefsPath) == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	client, err := blog.NewClient(cfg.Viewer.APIURL)
	if err != nil {
		return fmt.Errorf("init blog client: %w", err)
	}

	store := &state.Store{}

	interval := cfg.PollInterval()
	if opts.PollEvery > 0 {
		cfg.Viewer.PollSeconds = opts.PollEvery
		interval = cfg.PollInterval()
	}

	log.Info("viewer starting",
		zap.String("api_url", client.BaseURL()),
		zap.Duration("poll_interval", interval),
		zap.String("theme", userPrefs.Theme),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// An unreachable backend is not fatal: the header shows it and the
	// poller keeps trying.
	_ = refresh(ctx, store, client, log)
	done := StartPoller(ctx, store, client, interval, log)

	uiErr := ui.Run(ui.Options{
		Context:        ctx,
		Client:         client,
		Store:          store,
		Logger:         log,
		APIURL:         client.BaseURL(),
		BackendLogPath: cfg.BackendLogPath(),
		PollTick:       interval,
		ThemeName:      userPrefs.Theme,
		PrefsPath:      prefsPath,
		ShowLogs:       userPrefs.ShowLogs,
	})

	cancel()
	<-done
	log.Info("viewer stopped")
	return uiErr
}
