package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fct/pkg/cache"
	"github.com/matzehuels/fct/pkg/core/histogram"
	"github.com/matzehuels/fct/pkg/core/ifs"
	"github.com/matzehuels/fct/pkg/observability"
)

// Runner executes the pipeline with caching. It holds no per-run state,
// so one Runner can serve concurrent requests; every run builds its own
// generator and random source.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Registry *ifs.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner. Nil arguments get defaults: a NullCache, the
// DefaultKeyer, a registry of the built-in fractals and the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, reg *ifs.Registry, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if reg == nil {
		reg = ifs.NewRegistry()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Registry: reg, Logger: logger}
}

// Execute runs generate → discretise → render. Discretisation runs when
// opts.M is set or a requested format needs the histogram.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	model, err := r.Registry.Lookup(opts.Kind)
	if err != nil {
		return nil, err
	}
	res := &Result{Model: model}

	start := time.Now()
	steps, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	res.Steps = steps
	res.PointsHash = pointsHash(steps)
	res.Stats.Points = len(steps)
	res.Stats.GenerateTime = time.Since(start)
	res.CacheInfo.GenerateHit = hit

	r.Logger.Info("generated points",
		"kind", opts.Kind,
		"count", len(steps),
		"cached", hit,
		"duration", res.Stats.GenerateTime)

	if opts.M != 0 {
		start = time.Now()
		h, hit, err := r.DiscretiseWithCacheInfo(ctx, ifs.Points(steps), opts.M)
		if err != nil {
			return nil, fmt.Errorf("discretise: %w", err)
		}
		res.Histogram = h
		res.Stats.Occupied = h.Occupied()
		res.Stats.DiscretiseTime = time.Since(start)
		res.CacheInfo.DiscretiseHit = hit

		r.Logger.Info("discretised points",
			"m", h.M,
			"occupied", res.Stats.Occupied,
			"cached", hit,
			"duration", res.Stats.DiscretiseTime)
	}

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(start)
	res.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// Sequence validates opts and returns the lazy point sequence without
// collecting it. It bypasses the cache and is used for streaming.
func (r *Runner) Sequence(opts Options) (*ifs.Sequence, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}
	model, err := r.Registry.Lookup(opts.Kind)
	if err != nil {
		return nil, err
	}
	gen := ifs.NewGenerator(opts.NewSource(), opts.Bounds)
	return gen.Generate(model, opts.Count, opts.StartX, opts.StartY)
}

// GenerateWithCacheInfo produces the point cloud for opts and reports
// whether it came from the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) ([]ifs.Step, bool, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}
	model, err := r.Registry.Lookup(opts.Kind)
	if err != nil {
		return nil, false, err
	}

	var key string
	if opts.Cacheable() {
		recipe, err := cache.HashJSON(model.Entries())
		if err != nil {
			return nil, false, fmt.Errorf("hash recipe: %w", err)
		}
		key = r.Keyer.PointsKey(opts.Kind, recipe, opts.PointsKeyOpts())
		if steps, ok := r.getJSONSteps(ctx, key); ok && len(steps) == opts.Count {
			return steps, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Kind, opts.Count)
	start := time.Now()

	seq, err := r.Sequence(opts)
	if err != nil {
		hooks.OnGenerateComplete(ctx, opts.Kind, opts.Count, time.Since(start), err)
		return nil, false, err
	}
	steps := seq.Collect()
	hooks.OnGenerateComplete(ctx, opts.Kind, opts.Count, time.Since(start), nil)

	if key != "" {
		r.setJSON(ctx, "points", key, steps, cache.TTLPoints)
	}
	return steps, false, nil
}

// Generate is GenerateWithCacheInfo without the cache hit flag.
func (r *Runner) Generate(ctx context.Context, opts Options) ([]ifs.Step, error) {
	steps, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return steps, err
}

// DiscretiseWithCacheInfo bins points into an m×m histogram, keyed by the
// content hash of the points.
func (r *Runner) DiscretiseWithCacheInfo(ctx context.Context, points []ifs.Point, m int) (*histogram.Histogram, bool, error) {
	if err := histogram.CheckM(len(points), m); err != nil {
		return nil, false, err
	}

	key := r.Keyer.HistogramKey(pointsHash(points), m)
	if data, hit := r.get(ctx, "histogram", key); hit {
		var h histogram.Histogram
		if err := json.Unmarshal(data, &h); err == nil && h.M == m {
			return &h, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnDiscretiseStart(ctx, len(points), m)
	start := time.Now()
	h, err := histogram.Discretise(points, m)
	hooks.OnDiscretiseComplete(ctx, len(points), m, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.setJSON(ctx, "histogram", key, h, cache.TTLHistogram)
	return h, false, nil
}

// Discretise is DiscretiseWithCacheInfo without the cache hit flag.
func (r *Runner) Discretise(ctx context.Context, points []ifs.Point, m int) (*histogram.Histogram, error) {
	h, _, err := r.DiscretiseWithCacheInfo(ctx, points, m)
	return h, err
}

// RenderWithCacheInfo renders every requested format from res.Steps and
// res.Histogram. The hit flag is true only when all formats were cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	if res.Histogram != nil && opts.M == 0 {
		opts.M = res.Histogram.M
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	input := res.PointsHash
	if input == "" {
		input = pointsHash(res.Steps)
	}
	if opts.NeedsHistogram() {
		input = fmt.Sprintf("%s/m%d", input, opts.M)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit := r.get(ctx, "artifact", r.Keyer.ArtifactKey(input, opts.ArtifactKeyOpts(format)))
		if !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, res.Steps, res.Histogram, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.set(ctx, "artifact", r.Keyer.ArtifactKey(input, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// get reads a cache entry, reporting hits and misses to the cache hooks.
// Backend errors count as misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) setJSON(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	r.set(ctx, keyType, key, data, ttl)
}

func (r *Runner) getJSONSteps(ctx context.Context, key string) ([]ifs.Step, bool) {
	data, hit := r.get(ctx, "points", key)
	if !hit {
		return nil, false
	}
	var steps []ifs.Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, false
	}
	return steps, true
}

// pointsHash fingerprints a point cloud for downstream cache keys.
func pointsHash[T ifs.Step | ifs.Point](pts []T) string {
	h, _ := cache.HashJSON(pts)
	return h
}
