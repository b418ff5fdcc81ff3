// Package cli implements the fct command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fct/pkg/buildinfo"
	"github.com/matzehuels/fct/pkg/cache"
	"github.com/matzehuels/fct/pkg/config"
	"github.com/matzehuels/fct/pkg/observability"
	"github.com/matzehuels/fct/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "fct"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline and cache
// events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		h := &logHooks{logger: c.Logger}
		observability.SetPipelineHooks(h)
		observability.SetCacheHooks(h)
		observability.SetHTTPHooks(h)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "fct generates and analyses IFS fractals",
		Long: `fct generates point clouds for self-similar fractals with iterated function
systems, bins them into 2-D histograms and turns the results into images
and ASCII art.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml or .yml; default $XDG_CONFIG_HOME/fct/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.discretiseCommand())
	root.AddCommand(c.visualiseCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use, backed by the configured
// cache (the file cache by default) and the built-in plus custom fractals.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	backend := cfg.Cache.Backend
	if noCache {
		backend = cache.BackendNone
	}
	cc, err := c.openCache(ctx, cfg, backend)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer(cfg), reg, c.Logger), nil
}

func (c *CLI) openCache(ctx context.Context, cfg *config.Config, backend string) (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil && backend == cache.BackendFile && cfg.Cache.Dir == "" {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	opts, err := cfg.CacheOptions(backend, dir)
	if err != nil {
		return nil, err
	}
	return cache.Open(ctx, opts)
}

func keyer(cfg *config.Config) cache.Keyer {
	if cfg.Cache.Prefix != "" {
		return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Prefix)
	}
	return cache.NewDefaultKeyer()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/fct/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats splits a comma-separated format flag, falling back to def.
func parseFormats(s string, def ...string) []string {
	if s == "" {
		return def
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
