package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/vango-dev/domsync/internal/errors"
	"github.com/vango-dev/domsync/pkg/render"
	"github.com/vango-dev/domsync/pkg/server"
	"github.com/vango-dev/domsync/pkg/vdom"
)

// previewApp shows a tree file. Every command reads the file again, so
// editing it and then clicking anything, or letting a timer fire,
// patches the open page.
type previewApp struct {
	path   string
	logger *slog.Logger
}

func (a *previewApp) View(s *server.Session) *vdom.VNode {
	tree, err := loadTree(a.path)
	if err != nil {
		a.logger.Warn("tree load failed", "path", a.path, "error", err)
		return vdom.Div(vdom.ID("domsync-error"), vdom.Pre(err.Error()))
	}
	return tree
}

func (a *previewApp) Handle(ctx context.Context, s *server.Session, cmd server.Command) error {
	a.logger.Info("command", "session", s.ID, "name", cmd.Name, "target", cmd.Target, "values", len(cmd.Values))
	return nil
}

func serveCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve [tree]",
		Short: "Preview a tree in the browser",
		Long: `Serve a tree file as a live page. The page keeps a sync connection
open; any command it sends makes the server read the tree again and
patch the page with the difference.

The tree defaults to server.tree in domsync.json. Open the page with
?js=no to see what clients without scripting get.

Examples:
  domsync serve page.yaml
  domsync serve --port=8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			path := cfg.TreePath()
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("D003").
					WithDetail("No tree file given").
					WithSuggestion("Pass a tree file or set server.tree in domsync.json")
			}
			if _, err := loadTree(path); err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			var (
				reg     *prometheus.Registry
				metrics *render.Metrics
				opts    []server.Option
			)
			if cfg.Metrics.Enabled {
				reg = prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				metrics = render.NewMetrics(render.WithRegistry(reg))
				opts = append(opts, server.WithRegistry(reg))
			}
			opts = append(opts,
				server.WithRenderer(newRenderer(cfg, metrics)),
				server.WithLogger(logger),
			)

			srvConfig := server.DefaultServerConfig()
			srvConfig.Address = cfg.Address()
			srvConfig.Title = cfg.Server.Title
			srvConfig.Lang = cfg.Server.Lang
			srvConfig.RuntimeScript = cfg.Server.RuntimeScript
			if cfg.Metrics.Enabled {
				srvConfig.MetricsPath = cfg.Metrics.Path
			}

			srv := server.New(srvConfig, &previewApp{path: path, logger: logger}, opts...)
			success("Serving %s", path)
			info("http://%s/", cfg.Address())
			if cfg.Metrics.Enabled {
				info("metrics at http://%s%s", cfg.Address(), cfg.Metrics.Path)
			}
			if err := srv.Run(context.Background()); err != nil {
				return errors.New("D081").Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from domsync.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from domsync.json)")

	return cmd
}
