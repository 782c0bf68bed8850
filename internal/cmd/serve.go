package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wethinkt/go-colorname/internal/applog"
	"github.com/wethinkt/go-colorname/internal/i18n"
	"github.com/wethinkt/go-colorname/internal/palette"
	"github.com/wethinkt/go-colorname/internal/server"
	"github.com/wethinkt/go-colorname/internal/watch"
)

// serveFlags holds flags for serve and serve mcp.
type serveFlags struct {
	host  string
	port  int
	token string
	watch bool
	quiet bool
}

func (a *app) serveCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start a local HTTP API for palette lookups.

Endpoints:
  GET  /v1/palette                      palette size, source, malformed rows
  GET  /v1/palette/colors               every row in order
  POST /v1/palette/reload               re-read the palette source
  GET  /v1/nearest?hex=%23rrggbb        nearest name (or ?r=&g=&b=)
  GET  /v1/colors/{name}                stored color
  GET  /v1/colors/{name}/neighbors      palette-order window (?count=)
  GET  /v1/health                       liveness, never authenticated
  GET  /metrics                         Prometheus metrics

With --watch (the default when a palette file is configured) edits to the
palette file are picked up automatically.

Authentication:
  Use --token, the server.token config key or COLORNAME_API_TOKEN.
  Clients send "Authorization: Bearer <token>".
  Generate a token with: colorname serve token

Examples:
  colorname serve
  colorname serve --port 9000 --palette ./brand.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.host, "host", "", "host to bind (default from config)")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "port to listen on (default from config)")
	cmd.Flags().StringVar(&f.token, "token", "", "bearer token required by the API")
	cmd.Flags().BoolVar(&f.watch, "watch", true, "reload the palette file when it changes")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "disable request logging")

	cmd.AddCommand(a.serveMCPCmd(), serveTokenCmd())
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, f serveFlags) error {
	cfg := server.Config{
		Host:          firstNonEmpty(f.host, a.cfg.Server.Host),
		Port:          a.cfg.Server.Port,
		Token:         firstNonEmpty(f.token, a.cfg.APIToken()),
		NeighborCount: a.cfg.NeighborCount,
		Quiet:         f.quiet,
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = f.port
	}
	watchEnabled := a.cfg.Watch
	if cmd.Flags().Changed("watch") {
		watchEnabled = f.watch
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := a.matcher.Palette(ctx); err != nil {
		applog.Log.Warn("Initial palette load failed; serving errors until reload", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	srv := server.New(a.matcher, cfg)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})

	if watchEnabled && a.cfg.PaletteFile != "" {
		w, err := watch.New(a.cfg.PaletteFile, a.matcher, a.cfg.DebounceDuration())
		if err != nil {
			stop()
			g.Wait()
			return fmt.Errorf("watch palette: %w", err)
		}
		w.OnReload = func(p *palette.Palette, err error) {
			if err == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), i18n.Tf("cli.reload.done", "Palette reloaded: %d colors", p.Count()))
			}
		}
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	return g.Wait()
}

func (a *app) serveMCPCmd() *cobra.Command {
	var f serveFlags
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server for AI tool integration",
		Long: `Start an MCP (Model Context Protocol) server exposing palette lookups.

Tools: nearest_name, color_for_name, neighbors, palette_info.

By default the server speaks MCP over stdio. Use --port to serve over
HTTP (SSE) instead; --token then requires a bearer token.

Examples:
  colorname serve mcp
  colorname serve mcp --port 8792 --token xyz`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ms := server.NewMCPServer(a.matcher, a.cfg.NeighborCount)
			if f.port == 0 {
				return ignoreCanceled(ms.RunStdio(ctx))
			}
			host := firstNonEmpty(f.host, a.cfg.Server.Host)
			return ms.RunHTTP(ctx, host, f.port, firstNonEmpty(f.token, a.cfg.APIToken()))
		},
	}
	cmd.Flags().StringVar(&f.host, "host", "", "host to bind for HTTP transport (default from config)")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "serve over HTTP on this port instead of stdio")
	cmd.Flags().StringVar(&f.token, "token", "", "bearer token for HTTP transport")
	return cmd
}

func serveTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Generate a secure API token",
		Long: `Generate a random token for --token or COLORNAME_API_TOKEN.

Examples:
  export COLORNAME_API_TOKEN=$(colorname serve token)
  colorname serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := server.GenerateToken()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ignoreCanceled treats a signal-driven shutdown as success.
func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
