package main

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/br-lazy-bird/content-delivery/internal/gateway"
	"github.com/br-lazy-bird/content-delivery/internal/postsvc"
	"github.com/br-lazy-bird/content-delivery/internal/store"
)

const shutdownTimeout = 5 * time.Second

func newPostsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "posts",
		Short: "Run the posts service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := c.logger("posts", true)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return c.runPosts(cmd.Context(), log)
		},
	}
}

func newBackendCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "backend",
		Short: "Run the backend gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := c.logger("backend", true)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return c.runBackend(cmd.Context(), log, c.cfg.Backend.PostsServiceURL)
		},
	}
}

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the posts service and the backend gateway together",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			postsLog, err := c.logger("posts", true)
			if err != nil {
				return err
			}
			defer func() { _ = postsLog.Sync() }()
			backendLog, err := c.logger("backend", true)
			if err != nil {
				return err
			}
			defer func() { _ = backendLog.Sync() }()

			postsURL := strings.TrimSpace(c.cfg.Backend.PostsServiceURL)
			if postsURL == "" {
				postsURL = c.cfg.LocalPostsURL()
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return c.runPosts(ctx, postsLog) })
			g.Go(func() error { return c.runBackend(ctx, backendLog, postsURL) })
			return g.Wait()
		},
	}
}

func (c *cli) runPosts(ctx context.Context, log *zap.Logger) error {
	db, err := store.Open(c.cfg.Posts.DBPath)
	if err != nil {
		return fmt.Errorf("open posts store: %w", err)
	}
	repo := store.NewRepository(db)
	defer repo.Close()

	count, err := repo.CountPosts(ctx)
	if err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	log.Info("posts store ready",
		zap.String("path", c.cfg.Posts.DBPath),
		zap.Int("posts", count),
		zap.Duration("query_delay", c.cfg.Posts.QueryDelay),
		zap.Duration("row_delay", c.cfg.Posts.RowDelay),
	)

	srv := postsvc.New(repo, postsvc.Options{
		Logger:     log,
		QueryDelay: c.cfg.Posts.QueryDelay,
		RowDelay:   c.cfg.Posts.RowDelay,
	})
	return listen(ctx, srv, c.cfg.Posts.Bind, log)
}

func (c *cli) runBackend(ctx context.Context, log *zap.Logger, postsURL string) error {
	srv, err := gateway.New(gateway.Options{
		PostsServiceURL: postsURL,
		CORSOrigins:     c.cfg.Backend.CORSOrigins,
		Logger:          log,
	})
	if err != nil {
		return err
	}
	log.Info("backend ready",
		zap.String("posts_service_url", postsURL),
		zap.Strings("cors_origins", c.cfg.Backend.CORSOrigins),
	)
	return listen(ctx, srv, c.cfg.Backend.Bind, log)
}

// listen binds addr and serves app until ctx is cancelled, then shuts it
// down. The listener is closed after shutdown as well, so a cancellation that
// lands before the server starts accepting still stops it.
func listen(ctx context.Context, app *fiber.App, addr string, log *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", ln.Addr().String()))
		errCh <- app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.String("addr", addr))
	shutdownErr := app.ShutdownWithTimeout(shutdownTimeout)
	_ = ln.Close()
	if err := <-errCh; err != nil {
		log.Debug("server stopped", zap.Error(err))
	}
	if shutdownErr != nil {
		return fmt.Errorf("shutdown %s: %w", addr, shutdownErr)
	}
	return nil
}
