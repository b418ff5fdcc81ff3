package server

import (
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/fct/pkg/buildinfo"
	"github.com/matzehuels/fct/pkg/core/histogram"
	"github.com/matzehuels/fct/pkg/core/ifs"
	"github.com/matzehuels/fct/pkg/errors"
	"github.com/matzehuels/fct/pkg/pipeline"
)

// FractalInfo describes one registered fractal kind.
type FractalInfo struct {
	Kind          string       `json:"kind"`
	Name          string       `json:"name"`
	Maps          [][6]float64 `json:"maps"`
	Probabilities []float64    `json:"probabilities"`
}

// GenerateRequest is the body of POST /v1/generate.
type GenerateRequest struct {
	Kind   string  `json:"kind"`
	Count  int     `json:"count"`
	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`
	Seed   *uint64 `json:"seed,omitempty"`
	M      int     `json:"m,omitempty"`
}

// GenerateResponse carries the generated steps and, when m was given, the histogram.
type GenerateResponse struct {
	ID        string               `json:"id"`
	Kind      string               `json:"kind"`
	Name      string               `json:"name"`
	Count     int                  `json:"count"`
	Seed      uint64               `json:"seed"`
	Cached    bool                 `json:"cached"`
	Steps     []ifs.Step           `json:"steps"`
	Histogram *histogram.Histogram `json:"histogram,omitempty"`
}

// DiscretiseRequest is the body of POST /v1/discretise.
type DiscretiseRequest struct {
	Points []ifs.Point `json:"points"`
	M      int         `json:"m"`
}

// DiscretiseResponse wraps the histogram with a run id.
type DiscretiseResponse struct {
	ID string `json:"id"`
	*histogram.Histogram
	Total  int  `json:"total"`
	Cached bool `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleFractals(w http.ResponseWriter, _ *http.Request) {
	models := s.runner.Registry.Models()
	out := make([]FractalInfo, 0, len(models))
	for _, m := range models {
		info := FractalInfo{Kind: m.Kind, Name: m.Name, Probabilities: m.Probabilities()}
		for _, e := range m.Entries() {
			info.Maps = append(info.Maps, e.Map.Coefficients())
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	opts := s.options(req.Kind, req.Count, req.Seed)
	opts.StartX, opts.StartY = req.StartX, req.StartY

	model, err := s.runner.Registry.Lookup(opts.Kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	steps, hit, err := s.runner.GenerateWithCacheInfo(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := GenerateResponse{
		ID:     uuid.NewString(),
		Kind:   opts.Kind,
		Name:   model.Name,
		Count:  len(steps),
		Seed:   opts.Seed,
		Cached: hit,
		Steps:  steps,
	}
	if req.M != 0 {
		h, _, err := s.runner.DiscretiseWithCacheInfo(r.Context(), ifs.Points(steps), req.M)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Histogram = h
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDiscretise(w http.ResponseWriter, r *http.Request) {
	var req DiscretiseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h, hit, err := s.runner.DiscretiseWithCacheInfo(r.Context(), req.Points, req.M)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DiscretiseResponse{
		ID:        uuid.NewString(),
		Histogram: h,
		Total:     h.Total(),
		Cached:    hit,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	kind, format := chi.URLParam(r, "kind"), chi.URLParam(r, "format")
	q := r.URL.Query()

	count, err := queryInt(q, "count")
	if err != nil {
		writeError(w, r, err)
		return
	}
	seed, err := querySeed(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := queryInt(q, "m")
	if err != nil {
		writeError(w, r, err)
		return
	}
	size, err := queryInt(q, "size")
	if err != nil {
		writeError(w, r, err)
		return
	}

	opts := s.options(kind, count, seed)
	opts.M = m
	opts.Size = size
	opts.Title = q.Get("title")
	opts.Monochrome = q.Get("mono") == "1" || q.Get("mono") == "true"
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("X-Seed", strconv.FormatUint(opts.Seed, 10))
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// options builds per-request pipeline options. Without a seed the server
// draws one and injects a matching source, which also keeps the random run
// out of the points cache.
func (s *Server) options(kind string, count int, seed *uint64) pipeline.Options {
	opts := pipeline.Options{
		Kind:   kind,
		Count:  count,
		Bounds: s.bounds,
		Logger: s.logger,
	}
	if seed != nil && *seed != 0 {
		opts.Seed = *seed
	} else {
		opts.Seed = rand.Uint64() | 1
		opts.Source = ifs.NewSource(opts.Seed)
	}
	return opts
}

func queryInt(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "query parameter %s: %q is not an integer", name, v)
	}
	return n, nil
}

func querySeed(q url.Values) (*uint64, error) {
	v := q.Get("seed")
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "query parameter seed: %q is not an unsigned integer", v)
	}
	return &n, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
