package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/br-lazy-bird/content-delivery/internal/config"
	"github.com/br-lazy-bird/content-delivery/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(&cli{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lazybird: %v\n", err)
		return 1
	}
	return 0
}

// cli holds the flags and config shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool
	cfg        config.Config
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "lazybird",
		Short: "Lazy Bird blog viewer and its deliberately slow backend",
		Long: `Lazy Bird serves a small company blog through two services and a
terminal viewer:

  posts    the posts service, backed by SQLite, slow on purpose
  backend  the gateway the viewer talks to, proxying to the posts service
  serve    both services in one process
  viewer   the terminal client

Pick a post in the viewer and watch the load time. It never improves.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if c.verbose {
				cfg.LogLevel = "debug"
			}
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newViewerCmd(c),
		newPostsCmd(c),
		newBackendCmd(c),
		newServeCmd(c),
	)
	return root
}

// logger builds a named logger writing to the component's log file and,
// when stderr is set, to the terminal.
func (c *cli) logger(name string, stderr bool) (*zap.Logger, error) {
	log, err := logging.New(logging.Options{
		Name:   name,
		Level:  c.cfg.LogLevel,
		Path:   c.cfg.LogPath(name),
		Stderr: stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("init %s logger: %w", name, err)
	}
	return log, nil
}
