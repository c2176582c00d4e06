package main

import (
	"github.com/spf13/cobra"

	"github.com/br-lazy-bird/content-delivery/internal/app"
)

func newViewerCmd(c *cli) *cobra.Command {
	var (
		pollSeconds int
		prefsPath   string
	)
	cmd := &cobra.Command{
		Use:   "viewer",
		Short: "Open the terminal blog viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the UI, so the viewer logs to file only.
			log, err := c.logger("viewer", false)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return app.Run(cmd.Context(), app.Options{
				Config:    c.cfg,
				PrefsPath: prefsPath,
				PollEvery: pollSeconds,
				Logger:    log,
			})
		},
	}
	cmd.Flags().IntVar(&pollSeconds, "poll", 0, "health probe interval in seconds (default from config, 2s)")
	cmd.Flags().StringVar(&prefsPath, "prefs", "", "preferences file (default ~/.config/lazybird/prefs.toml)")
	return cmd
}
