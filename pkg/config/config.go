// Package config loads fct settings from a TOML or YAML file and the
// environment.
//
// The default file is $XDG_CONFIG_HOME/fct/config.toml (falling back to
// ~/.config/fct/config.toml). A missing default file is not an error.
// Environment variables override file values:
//
//	FCT_MIN_POINTS, FCT_MAX_POINTS  point-count bounds
//	FCT_SEED                        default seed (0 = random)
//	FCT_CACHE_BACKEND               file, memory, redis, mongo or none
//	FCT_REDIS_ADDR, FCT_MONGO_URI   shared cache endpoints
//	FCT_SERVER_ADDR                 listen address of fct serve
//
// Custom fractals are declared as [[fractals]] tables:
//
//	[[fractals]]
//	kind = "fern"
//	name = "BarnsleyFern"
//	maps = [
//	  { coeffs = [0, 0, 0, 0.16, 0, 0], threshold = 0.01 },
//	  { coeffs = [0.85, 0.04, -0.04, 0.85, 0, 1.6], threshold = 1 },
//	]
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/fct/pkg/cache"
	"github.com/matzehuels/fct/pkg/core/ifs"
	"github.com/matzehuels/fct/pkg/errors"
)

const appName = "fct"

// Config is the full set of user settings.
type Config struct {
	Points   PointsConfig    `toml:"points" yaml:"points"`
	Render   RenderConfig    `toml:"render" yaml:"render"`
	Cache    CacheConfig     `toml:"cache" yaml:"cache"`
	Server   ServerConfig    `toml:"server" yaml:"server"`
	Fractals []FractalConfig `toml:"fractals" yaml:"fractals"`
}

// PointsConfig bounds and seeds generation.
type PointsConfig struct {
	Min   int    `toml:"min" yaml:"min"`
	Max   int    `toml:"max" yaml:"max"`
	Count int    `toml:"count" yaml:"count"`
	Seed  uint64 `toml:"seed" yaml:"seed"`
}

// RenderConfig holds image defaults.
type RenderConfig struct {
	Size       int  `toml:"size" yaml:"size"`
	Monochrome bool `toml:"monochrome" yaml:"monochrome"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string            `toml:"backend" yaml:"backend"`
	Dir     string            `toml:"dir" yaml:"dir"`
	TTL     string            `toml:"ttl" yaml:"ttl"`
	Prefix  string            `toml:"prefix" yaml:"prefix"`
	Redis   cache.RedisConfig `toml:"redis" yaml:"redis"`
	Mongo   cache.MongoConfig `toml:"mongo" yaml:"mongo"`
}

// ServerConfig configures fct serve.
type ServerConfig struct {
	Addr    string `toml:"addr" yaml:"addr"`
	Backend string `toml:"cache_backend" yaml:"cache_backend"`
	Timeout string `toml:"timeout" yaml:"timeout"`
}

// FractalConfig declares a custom IFS recipe.
type FractalConfig struct {
	Kind string      `toml:"kind" yaml:"kind"`
	Name string      `toml:"name" yaml:"name"`
	Maps []MapConfig `toml:"maps" yaml:"maps"`
}

// MapConfig is one affine map (a, b, c, d, e, f) and its cumulative threshold.
type MapConfig struct {
	Coeffs    [6]float64 `toml:"coeffs" yaml:"coeffs"`
	Threshold float64    `toml:"threshold" yaml:"threshold"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Points: PointsConfig{
			Min:   ifs.DefaultBounds.Min,
			Max:   ifs.DefaultBounds.Max,
			Count: 4000,
		},
		Render: RenderConfig{Size: 800},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     "168h",
			Redis:   cache.RedisConfig{Addr: "localhost:6379"},
			Mongo:   cache.MongoConfig{URI: "mongodb://localhost:27017", Database: appName, Collection: "cache"},
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Backend: cache.BackendMemory,
			Timeout: "30s",
		},
	}
}

// DefaultPath returns the config file location under the XDG config home.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path over the defaults and applies environment overrides.
// An empty path loads the default file if it exists.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "locate config")
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(data, filepath.Ext(path)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return nil, errors.Wrap(errors.ErrCodeResourceUnavailable, err, "config file %s not found", path)
	default:
		return nil, errors.Wrap(errors.ErrCodeResourceUnavailable, err, "read %s", path)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data in the given format ("toml", "yaml" or "yml") over the defaults.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data, "."+strings.TrimPrefix(format, ".")); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s config", format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".toml":
		_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(c)
		return err
	case ".yaml", ".yml":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		return yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("unsupported config extension %q (want .toml, .yaml or .yml)", ext)
	}
}

// ApplyEnv overrides settings from FCT_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"FCT_MIN_POINTS", &c.Points.Min},
		{"FCT_MAX_POINTS", &c.Points.Max},
	}
	for _, e := range ints {
		if v, ok := lookup(e.name); ok {
			n, err := cast.ToIntE(strings.TrimSpace(v))
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s=%q", e.name, v)
			}
			*e.dst = n
		}
	}
	if v, ok := lookup("FCT_SEED"); ok {
		n, err := cast.ToUint64E(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "FCT_SEED=%q", v)
		}
		c.Points.Seed = n
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"FCT_CACHE_BACKEND", &c.Cache.Backend},
		{"FCT_REDIS_ADDR", &c.Cache.Redis.Addr},
		{"FCT_MONGO_URI", &c.Cache.Mongo.URI},
		{"FCT_SERVER_ADDR", &c.Server.Addr},
	}
	for _, e := range strs {
		if v, ok := lookup(e.name); ok && v != "" {
			*e.dst = cast.ToString(v)
		}
	}
	return nil
}

// Validate checks bounds, durations, the cache backend and custom fractals.
func (c *Config) Validate() error {
	if err := c.Bounds().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "points")
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if _, err := c.ServerTimeout(); err != nil {
		return err
	}
	for _, b := range []string{c.Cache.Backend, c.Server.Backend} {
		if !isBackend(b) {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want one of %v)", b, cache.Backends)
		}
	}
	_, err := c.Models()
	return err
}

func isBackend(name string) bool {
	for _, b := range cache.Backends {
		if b == name {
			return true
		}
	}
	return false
}

// Bounds returns the configured point-count range.
func (c *Config) Bounds() ifs.Bounds {
	return ifs.Bounds{Min: c.Points.Min, Max: c.Points.Max}
}

// CacheTTL parses the cache ttl ("0" means no expiry).
func (c *Config) CacheTTL() (time.Duration, error) {
	return parseDuration("cache.ttl", c.Cache.TTL)
}

// ServerTimeout parses the per-request timeout of the HTTP server.
func (c *Config) ServerTimeout() (time.Duration, error) {
	return parseDuration("server.timeout", c.Server.Timeout)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := cast.ToDurationE(s)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s: invalid duration %q", field, s)
	}
	return d, nil
}

// Models converts the [[fractals]] tables into validated IFS models.
func (c *Config) Models() ([]*ifs.Model, error) {
	out := make([]*ifs.Model, 0, len(c.Fractals))
	seen := make(map[string]bool, len(c.Fractals))
	for i, f := range c.Fractals {
		if seen[f.Kind] {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "fractals[%d]: duplicate kind %q", i, f.Kind)
		}
		seen[f.Kind] = true

		entries := make([]ifs.Entry, len(f.Maps))
		for j, m := range f.Maps {
			k := m.Coeffs
			entries[j] = ifs.Entry{
				Map:       ifs.NewAffineMap(k[0], k[1], k[2], k[3], k[4], k[5]),
				Threshold: m.Threshold,
			}
		}
		name := f.Name
		if name == "" {
			name = f.Kind
		}
		model, err := ifs.NewModel(f.Kind, name, entries...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "fractals[%d] (%s)", i, f.Kind)
		}
		out = append(out, model)
	}
	return out, nil
}

// Registry returns a registry holding the built-in and custom fractals.
func (c *Config) Registry() (*ifs.Registry, error) {
	reg := ifs.NewRegistry()
	models, err := c.Models()
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		if err := reg.Register(m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "register %s", m.Kind)
		}
	}
	return reg, nil
}

// CacheOptions builds cache.Open options for backend, rooting the file
// backend at dir unless cache.dir is set.
func (c *Config) CacheOptions(backend, dir string) (cache.Options, error) {
	ttl, err := c.CacheTTL()
	if err != nil {
		return cache.Options{}, err
	}
	if c.Cache.Dir != "" {
		dir = c.Cache.Dir
	}
	return cache.Options{
		Backend: backend,
		Dir:     dir,
		TTL:     ttl,
		Redis:   c.Cache.Redis,
		Mongo:   c.Cache.Mongo,
	}, nil
}
