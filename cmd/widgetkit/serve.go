package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/widgetkit/internal/config"
	"github.com/vango-dev/widgetkit/pkg/remote"
	"github.com/vango-dev/widgetkit/pkg/tree"
)

func serveCmd() *cobra.Command {
	var (
		addr  string
		title string
	)

	cmd := &cobra.Command{
		Use:   "serve <tree.json>",
		Short: "Serve a tree to browsers over a websocket",
		Long: `Serve a tree with the remote host.

GET / returns the server-rendered page, GET /ws drives the page's DOM
from the server and GET /metrics exposes Prometheus metrics. Settings
come from widgetkit.json; --addr overrides the listen address.

Examples:
  widgetkit serve page.json
  widgetkit serve page.json --addr=:9000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromDir(".")
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			data, err := readTree(cmd, args[0])
			if err != nil {
				return err
			}
			// Fail fast on a bad tree instead of on the first request.
			if _, err := decodeTree(data); err != nil {
				return err
			}

			logger := newLogger(cfg, cmd.ErrOrStderr())
			srv := remote.NewServer(func(*http.Request) (*tree.Node, error) {
				return decodeTree(data)
			}, remote.ServerConfig{
				Addr:             cfg.Addr,
				ReadTimeout:      cfg.ReadTimeoutDuration(),
				WriteTimeout:     cfg.WriteTimeoutDuration(),
				Title:            title,
				MetricsNamespace: cfg.MetricsNamespace,
				TracerName:       cfg.TracerName,
				Logger:           logger,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from widgetkit.json)")
	cmd.Flags().StringVar(&title, "title", "widgetkit", "Page title")

	return cmd
}
