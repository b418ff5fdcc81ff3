// Package pkg provides the core libraries for fct, a generator and analyser
// for self-similar fractals built from iterated function systems (IFS).
//
// # Overview
//
// An IFS is a small set of affine maps with selection probabilities. Starting
// from a point and repeatedly applying a randomly chosen map produces a point
// cloud that converges on the fractal (the "chaos game"). fct generates such
// clouds, bins them into 2-D histograms and renders both.
//
// # Architecture
//
// The typical data flow:
//
//	IFS recipe (built-in or [[fractals]] in config)
//	         ↓
//	    [core/ifs] package (generate points)
//	         ↓
//	    [core/histogram] package (m×m counts)
//	         ↓
//	    [render] package (PNG/SVG scatter, heatmap, ASCII)
//
// [pipeline] runs these stages with per-stage caching and is shared by the
// CLI and the HTTP [server].
//
// # Quick Start
//
//	src := ifs.NewSource(42)
//	seq, _ := ifs.NewGenerator(src, ifs.DefaultBounds).Generate(ifs.Tree(), 4000, 0, 0)
//	steps := seq.Collect()
//
//	h, _ := histogram.Discretise(ifs.Points(steps), 50)
//	png, _ := render.ScatterPNG(steps, render.WithSize(800))
//	art := render.ASCII(h)
//
// # Main Packages
//
// [core/ifs] - Affine maps, IFS models, the built-in tree and Sierpinski
// triangle recipes, a kind registry and the lazy point generator.
//
// [core/histogram] - Discretisation of a point cloud into an m×m grid.
//
// [io] - The "x,y" point list and comma-separated grid file formats.
//
// [render] - Scatter plots (fogleman/gg, ajstarks/svgo), histogram heatmaps
// and the X/space ASCII encoder.
//
// [cache] - Cache backends (file, memory, Redis, MongoDB, none) and keys.
//
// [pipeline] - generate → discretise → render with cache lookups per stage.
//
// [server] - HTTP API and websocket point stream.
//
// [config] - TOML/YAML configuration with environment overrides.
//
// [core/ifs]: https://pkg.go.dev/github.com/matzehuels/fct/pkg/core/ifs
// [core/histogram]: https://pkg.go.dev/github.com/matzehuels/fct/pkg/core/histogram
// [io]: https://pkg.go.dev/github.com/matzehuels/fct/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/fct/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/fct/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/fct/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/fct/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/fct/pkg/config
package pkg
