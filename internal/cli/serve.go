package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fct/pkg/pipeline"
	"github.com/matzehuels/fct/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr, backend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the fractal pipeline over HTTP.

Routes:
  GET  /healthz
  GET  /v1/fractals
  POST /v1/generate
  POST /v1/discretise
  GET  /v1/render/{kind}.{format}
  GET  /v1/stream/{kind}           (websocket)

The cache backend defaults to server.cache_backend from the config
(memory unless set).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, backend)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr from config, :8080)")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: file, memory, redis, mongo, none")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, backend string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if backend == "" {
		backend = cfg.Server.Backend
	}
	timeout, err := cfg.ServerTimeout()
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	cc, err := c.openCache(ctx, cfg, backend)
	if err != nil {
		return fmt.Errorf("open %s cache: %w", backend, err)
	}
	runner := pipeline.NewRunner(cc, keyer(cfg), reg, c.Logger)
	defer runner.Close()

	srv := server.New(server.Options{
		Runner:  runner,
		Bounds:  cfg.Bounds(),
		Timeout: timeout,
		Logger:  c.Logger,
	})

	c.Logger.Info("serving", "addr", addr, "cache", backend, "fractals", len(reg.Kinds()))
	return srv.ListenAndServe(ctx, addr)
}
